package core

var (
	// IncomeCategories lists the income categories in display order.
	IncomeCategories = []string{"gaji", "investasi", "bonus", "hadiah", "freelance", "lainnya"}

	// ExpenseCategories lists the expense categories; the chart uses this order.
	ExpenseCategories = []string{"makanan", "transportasi", "hiburan", "tagihan", "belanja", "kesehatan", "pendidikan", "tabungan"}

	GoalCategories = []string{
		"dana-darurat", "investasi", "liburan", "gadget", "kendaraan",
		"rumah", "pendidikan", "pernikahan", "hobi", "lainnya",
	}
)

var categoryNames = map[string]string{
	"makanan":      "Makanan & Minuman",
	"transportasi": "Transportasi",
	"hiburan":      "Hiburan",
	"tagihan":      "Tagihan & Utilitas",
	"belanja":      "Belanja",
	"kesehatan":    "Kesehatan",
	"pendidikan":   "Pendidikan",
	"tabungan":     "Tabungan",
	"gaji":         "Gaji",
	"investasi":    "Investasi",
	"bonus":        "Bonus",
	"hadiah":       "Hadiah",
	"freelance":    "Freelance",
	"lainnya":      "Lainnya",
}

var categoryIcons = map[string]string{
	"makanan":      "🍽️",
	"transportasi": "🚗",
	"hiburan":      "🎬",
	"tagihan":      "📋",
	"belanja":      "🛍️",
	"kesehatan":    "🏥",
	"pendidikan":   "📚",
	"tabungan":     "💾",
	"gaji":         "💼",
	"investasi":    "📈",
	"bonus":        "🎁",
	"hadiah":       "🎯",
	"freelance":    "👨‍💻",
	"lainnya":      "🔶",
}

// CategoriesFor returns the category set of a transaction type.
func CategoriesFor(t TransactionType) []string {
	switch t {
	case Income:
		return IncomeCategories
	case Expense:
		return ExpenseCategories
	default:
		return nil
	}
}

// AllCategories returns income then expense categories, as the category filter lists them.
func AllCategories() []string {
	out := make([]string, 0, len(IncomeCategories)+len(ExpenseCategories))
	out = append(out, IncomeCategories...)
	return append(out, ExpenseCategories...)
}

func IsValidCategory(t TransactionType, category string) bool {
	return contains(CategoriesFor(t), category)
}

func IsGoalCategory(category string) bool {
	return contains(GoalCategories, category)
}

// CategoryDisplayName returns the human label, or the raw name when unknown.
func CategoryDisplayName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return category
}

func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return "💰"
}

// TypeDisplayName is the label used in exports.
func TypeDisplayName(t TransactionType) string {
	if t == Income {
		return "Pemasukan"
	}
	return "Pengeluaran"
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
