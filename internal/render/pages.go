package render

// TransactionList backs the transaction list fragment. Count is the number
// of transactions matching the active filter; HasAny is false only when no
// transaction exists at all.
type TransactionList struct {
	Page     Page[TransactionItem]
	Sentinel *Sentinel
	Count    int
	HasAny   bool
	// ShowCount adds an out-of-band swap of the counter badge.
	ShowCount bool
}

type GoalList struct {
	Page     Page[GoalCard]
	Sentinel *Sentinel
}

// Filters holds the current state of the filter bar.
type Filters struct {
	Type       string
	Sort       string
	Search     string
	Categories []Option
	Months     []Option
}

type IndexPage struct {
	Theme          string
	CurrentDate    string
	Today          string
	RefreshDelayMs int64
	ChartDelayMs   int64

	Summary       SummaryView
	QuickStats    QuickStatsView
	MonthOverview MonthOverviewView
	Transactions  TransactionList
	Goals         GoalList
	Filters       Filters

	IncomeCategories  []Option
	ExpenseCategories []Option
	GoalCategories    []Option
	QuickSave         []Option
}

// CreatedTransaction is the fragment appended after a successful add; Count
// refreshes the counter badge out of band.
type CreatedTransaction struct {
	Item  TransactionItem
	Count int
}
