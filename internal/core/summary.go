package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds the all-time totals shown in the summary widget.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// QuickStats backs the quick statistics widget. TopCategory and
// AverageDailyExpense are placeholders with no formula behind them.
type QuickStats struct {
	MonthlyTransactions int             `json:"monthlyTransactions"`
	AverageDailyExpense decimal.Decimal `json:"averageDailyExpense"`
	TopCategory         string          `json:"topCategory"`
}

// CategoryAmount represents an expense amount aggregated by category.
type CategoryAmount struct {
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
}

// ChartData is the per-category expense breakdown fed to the chart.
type ChartData struct {
	Categories []CategoryAmount `json:"categories"`
	Total      decimal.Decimal  `json:"total"`
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"` // 1-12
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
	Count   int             `json:"count"`
}

// MonthOption is one entry of the month filter.
type MonthOption struct {
	Value string
	Label string
}

var monthNames = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// Totals sums income and expense. Anything that is not income counts as expense.
func Totals(txs []Transaction) Summary {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txs {
		if t.Type == Income {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return Summary{Income: income, Expense: expense, Balance: income.Sub(expense)}
}

// MonthlyCount counts transactions dated in the calendar month of now.
func MonthlyCount(txs []Transaction, now time.Time) int {
	count := 0
	for _, t := range txs {
		if t.Date.Year() == now.Year() && t.Date.Month() == now.Month() {
			count++
		}
	}
	return count
}

func ComputeQuickStats(txs []Transaction, now time.Time) QuickStats {
	return QuickStats{
		MonthlyTransactions: MonthlyCount(txs, now),
		AverageDailyExpense: decimal.Zero,
		TopCategory:         "-",
	}
}

// ExpenseByCategory aggregates expenses over the fixed expense categories.
// Transactions in categories outside that set are left out.
func ExpenseByCategory(txs []Transaction) ChartData {
	sums := make(map[string]decimal.Decimal, len(ExpenseCategories))
	for _, c := range ExpenseCategories {
		sums[c] = decimal.Zero
	}
	for _, t := range txs {
		if t.Type != Expense {
			continue
		}
		if cur, ok := sums[t.Category]; ok {
			sums[t.Category] = cur.Add(t.Amount)
		}
	}

	data := ChartData{Total: decimal.Zero}
	for _, c := range ExpenseCategories {
		data.Categories = append(data.Categories, CategoryAmount{
			Category: c,
			Name:     CategoryDisplayName(c),
			Amount:   sums[c],
		})
		data.Total = data.Total.Add(sums[c])
	}
	return data
}

// Empty reports whether there is nothing to draw.
func (c ChartData) Empty() bool {
	return c.Total.IsZero()
}

// Share returns the rounded percentage of one category in the total.
func (c ChartData) Share(amount decimal.Decimal) int64 {
	if c.Total.IsZero() {
		return 0
	}
	return amount.Div(c.Total).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func MonthOverviewFor(txs []Transaction, year, month int) MonthOverview {
	var inMonth []Transaction
	for _, t := range txs {
		if t.Date.Year() == year && int(t.Date.Month()) == month {
			inMonth = append(inMonth, t)
		}
	}
	s := Totals(inMonth)
	return MonthOverview{
		Year:    year,
		Month:   month,
		Income:  s.Income,
		Expense: s.Expense,
		Balance: s.Balance,
		Count:   len(inMonth),
	}
}

// MonthOptions lists every month of the current and previous year, newest year first.
func MonthOptions(now time.Time) []MonthOption {
	out := make([]MonthOption, 0, 24)
	for year := now.Year(); year >= now.Year()-1; year-- {
		for i, name := range monthNames {
			out = append(out, MonthOption{
				Value: fmt.Sprintf("%d-%d", year, i+1),
				Label: fmt.Sprintf("%s %d", name, year),
			})
		}
	}
	return out
}
