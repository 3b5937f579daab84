package render

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"moneytracker/internal/core"
)

var shortMonths = []string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

var longMonths = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

var weekdays = []string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}

// chartColors follow the expense category order.
var chartColors = []string{
	"rgba(239, 68, 68, 0.7)", "rgba(34, 197, 94, 0.7)", "rgba(249, 115, 22, 0.7)",
	"rgba(59, 130, 246, 0.7)", "rgba(168, 85, 247, 0.7)", "rgba(236, 72, 153, 0.7)",
	"rgba(14, 165, 233, 0.7)", "rgba(20, 184, 166, 0.7)",
}

// ShortDate formats d as "5 Mar 2025".
func ShortDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", d.Day(), shortMonths[d.Month()-1], d.Year())
}

// LongDate formats t as "Sabtu, 15 Maret 2025" for the page header.
func LongDate(t time.Time) string {
	return fmt.Sprintf("%s, %d %s %d", weekdays[t.Weekday()], t.Day(), longMonths[t.Month()-1], t.Year())
}

type TransactionItem struct {
	ID           int64
	Description  string
	Type         string
	Category     string
	CategoryName string
	Icon         string
	Date         string
	DateLabel    string
	Arrow        string
	Amount       string
}

func NewTransactionItem(tx core.Transaction) TransactionItem {
	arrow := "⬇️"
	if tx.Type == core.Income {
		arrow = "⬆️"
	}
	return TransactionItem{
		ID:           tx.ID,
		Description:  tx.Description,
		Type:         string(tx.Type),
		Category:     tx.Category,
		CategoryName: core.CategoryDisplayName(tx.Category),
		Icon:         core.CategoryIcon(tx.Category),
		Date:         tx.Date.String(),
		DateLabel:    ShortDate(tx.Date),
		Arrow:        arrow,
		Amount:       core.FormatRupiah(tx.Amount),
	}
}

func TransactionItems(txs []core.Transaction) []TransactionItem {
	out := make([]TransactionItem, len(txs))
	for i, tx := range txs {
		out[i] = NewTransactionItem(tx)
	}
	return out
}

// GoalCard is a savings goal with its progress bar values precomputed.
type GoalCard struct {
	ID       int64
	Name     string
	Category string
	Notes    string
	Saved    string
	Target   string
	Percent  string // clamped to 100, one decimal
	Achieved bool

	// raw amounts for the edit form
	TargetValue string
	SavedValue  string
	Categories  []Option
}

func NewGoalCard(g core.SavingsGoal) GoalCard {
	return GoalCard{
		ID:       g.ID,
		Name:     g.Name,
		Category: g.Category,
		Notes:    g.Notes,
		Saved:    core.FormatRupiah(g.SavedAmount),
		Target:   core.FormatRupiah(g.TargetAmount),
		Percent:  g.DisplayProgress().StringFixed(1),
		Achieved: g.Achieved(),

		TargetValue: g.TargetAmount.String(),
		SavedValue:  g.SavedAmount.String(),
		Categories:  GoalCategoryOptions(g.Category),
	}
}

func GoalCards(goals []core.SavingsGoal) []GoalCard {
	out := make([]GoalCard, len(goals))
	for i, g := range goals {
		out[i] = NewGoalCard(g)
	}
	return out
}

type SummaryView struct {
	Income   string
	Expense  string
	Balance  string
	Negative bool
}

func NewSummaryView(s core.Summary) SummaryView {
	return SummaryView{
		Income:   core.FormatRupiah(s.Income),
		Expense:  core.FormatRupiah(s.Expense),
		Balance:  core.FormatRupiah(s.Balance),
		Negative: s.Balance.IsNegative(),
	}
}

type QuickStatsView struct {
	MonthlyTransactions int
	AverageDailyExpense string
	TopCategory         string
}

func NewQuickStatsView(q core.QuickStats) QuickStatsView {
	return QuickStatsView{
		MonthlyTransactions: q.MonthlyTransactions,
		AverageDailyExpense: core.FormatRupiah(q.AverageDailyExpense),
		TopCategory:         q.TopCategory,
	}
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// CategoryOptions lists every category, income first, for the category filter.
func CategoryOptions(selected string) []Option {
	return categoryOptions(core.AllCategories(), selected)
}

// TypeCategoryOptions lists the categories a transaction of type t may use.
func TypeCategoryOptions(t core.TransactionType, selected string) []Option {
	return categoryOptions(core.CategoriesFor(t), selected)
}

func categoryOptions(categories []string, selected string) []Option {
	out := make([]Option, len(categories))
	for i, c := range categories {
		out[i] = Option{Value: c, Label: core.CategoryDisplayName(c), Selected: c == selected}
	}
	return out
}

// GoalCategoryOptions labels goal categories with their raw names.
func GoalCategoryOptions(selected string) []Option {
	out := make([]Option, len(core.GoalCategories))
	for i, c := range core.GoalCategories {
		out[i] = Option{Value: c, Label: c, Selected: c == selected}
	}
	return out
}

func MonthFilterOptions(months []core.MonthOption, selected string) []Option {
	out := make([]Option, len(months))
	for i, m := range months {
		out[i] = Option{Value: m.Value, Label: m.Label, Selected: m.Value == selected}
	}
	return out
}

// QuickSaveOptions lists open goals as "Name (Rp saved/Rp target)".
func QuickSaveOptions(open []core.SavingsGoal) []Option {
	out := make([]Option, len(open))
	for i, g := range open {
		out[i] = Option{
			Value: fmt.Sprint(g.ID),
			Label: fmt.Sprintf("%s (%s/%s)", g.Name, core.FormatRupiah(g.SavedAmount), core.FormatRupiah(g.TargetAmount)),
		}
	}
	return out
}

type MonthOverviewView struct {
	Year    int
	Month   int
	Label   string
	Income  string
	Expense string
	Balance string
	Count   int
}

func NewMonthOverviewView(ov core.MonthOverview) MonthOverviewView {
	label := ""
	if ov.Month >= 1 && ov.Month <= 12 {
		label = fmt.Sprintf("%s %d", longMonths[ov.Month-1], ov.Year)
	}
	return MonthOverviewView{
		Year:    ov.Year,
		Month:   ov.Month,
		Label:   label,
		Income:  core.FormatRupiah(ov.Income),
		Expense: core.FormatRupiah(ov.Expense),
		Balance: core.FormatRupiah(ov.Balance),
		Count:   ov.Count,
	}
}

// Chart is the doughnut chart payload. Empty tells the client to clear it.
type Chart struct {
	Labels      []string  `json:"labels"`
	Data        []float64 `json:"data"`
	Colors      []string  `json:"colors"`
	BorderColor string    `json:"borderColor"`
	TextColor   string    `json:"textColor"`
	Total       float64   `json:"total"`
	Empty       bool      `json:"empty"`
}

func NewChart(data core.ChartData, theme string) Chart {
	c := Chart{
		Labels:      make([]string, len(data.Categories)),
		Data:        make([]float64, len(data.Categories)),
		Colors:      chartColors,
		BorderColor: "#ffffff",
		TextColor:   "#334155",
		Total:       data.Total.InexactFloat64(),
		Empty:       data.Empty(),
	}
	if theme == "dark" {
		c.BorderColor = "#1e293b"
		c.TextColor = "#cbd5e1"
	}
	for i, ca := range data.Categories {
		c.Labels[i] = ca.Name
		c.Data[i] = ca.Amount.InexactFloat64()
	}
	return c
}

// ThemeIcon is the toggle button glyph: the sun switches back to light.
func ThemeIcon(theme string) string {
	if theme == "dark" {
		return "☀️"
	}
	return "🌙"
}

func rupiah(v any) string {
	switch d := v.(type) {
	case decimal.Decimal:
		return core.FormatRupiah(d)
	case int64:
		return core.FormatRupiah(decimal.NewFromInt(d))
	case int:
		return core.FormatRupiah(decimal.NewFromInt(int64(d)))
	default:
		return fmt.Sprint(v)
	}
}
