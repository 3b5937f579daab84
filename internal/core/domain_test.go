package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTransaction() Transaction {
	return Transaction{
		ID:          1,
		Description: "Makan siang",
		Amount:      decimal.NewFromInt(25000),
		Type:        Expense,
		Category:    "makanan",
		Date:        NewDate(2025, 3, 10),
	}
}

func TestTransactionValidate(t *testing.T) {
	today := NewDate(2025, 3, 15)
	if err := validTransaction().Validate(today); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"blank description", func(tx *Transaction) { tx.Description = "   " }, ErrEmptyDescription},
		{"description too long", func(tx *Transaction) { tx.Description = strings.Repeat("a", 101) }, ErrDescriptionTooLong},
		{"zero amount", func(tx *Transaction) { tx.Amount = decimal.Zero }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = decimal.NewFromInt(-1) }, ErrInvalidAmount},
		{"amount over max", func(tx *Transaction) { tx.Amount = MaxAmount.Add(decimal.NewFromInt(1)) }, ErrAmountTooLarge},
		{"unknown type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidType},
		{"category of other type", func(tx *Transaction) { tx.Category = "gaji" }, ErrInvalidCategory},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
		{"future date", func(tx *Transaction) { tx.Date = NewDate(2025, 3, 16) }, ErrFutureDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			if err := tx.Validate(today); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTransactionValidateAcceptsToday(t *testing.T) {
	tx := validTransaction()
	tx.Date = NewDate(2025, 3, 15)
	if err := tx.Validate(NewDate(2025, 3, 15)); err != nil {
		t.Fatalf("expected today to be accepted, got %v", err)
	}
}

func TestSavingsGoalValidate(t *testing.T) {
	good := SavingsGoal{
		ID:           1,
		Name:         "Dana darurat",
		Category:     "dana-darurat",
		TargetAmount: decimal.NewFromInt(10_000_000),
		SavedAmount:  decimal.Zero,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(*SavingsGoal)
		want   error
	}{
		{func(g *SavingsGoal) { g.Name = "" }, ErrEmptyGoalName},
		{func(g *SavingsGoal) { g.Name = strings.Repeat("x", 51) }, ErrGoalNameTooLong},
		{func(g *SavingsGoal) { g.Category = "makanan" }, ErrInvalidGoalCategory},
		{func(g *SavingsGoal) { g.TargetAmount = decimal.Zero }, ErrInvalidAmount},
		{func(g *SavingsGoal) { g.SavedAmount = decimal.NewFromInt(-5) }, ErrNegativeSaved},
		{func(g *SavingsGoal) { g.Notes = strings.Repeat("n", 201) }, ErrNotesTooLong},
	}
	for i, tc := range bads {
		g := good
		tc.mutate(&g)
		if err := g.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d: got %v, want %v", i, err, tc.want)
		}
	}
}

func TestSavingsGoalProgress(t *testing.T) {
	g := SavingsGoal{TargetAmount: decimal.NewFromInt(200), SavedAmount: decimal.NewFromInt(50)}
	if !g.Progress().Equal(decimal.NewFromInt(25)) {
		t.Fatalf("progress = %s, want 25", g.Progress())
	}
	if g.Achieved() {
		t.Fatal("25% should not be achieved")
	}

	g.SavedAmount = decimal.NewFromInt(300)
	if !g.Achieved() {
		t.Fatal("150% should be achieved")
	}
	if !g.DisplayProgress().Equal(decimal.NewFromInt(100)) {
		t.Fatalf("display progress = %s, want clamped 100", g.DisplayProgress())
	}

	g.SavedAmount = decimal.NewFromInt(200)
	if !g.Achieved() {
		t.Fatal("exactly 100% should be achieved")
	}
}

func TestSavingsGoalOpen(t *testing.T) {
	tests := []struct {
		name          string
		saved, target int64
		want          bool
	}{
		{"nothing saved", 0, 100, true},
		{"partly funded", 99, 100, true},
		{"target reached", 100, 100, false},
		{"overfunded", 150, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := SavingsGoal{SavedAmount: decimal.NewFromInt(tt.saved), TargetAmount: decimal.NewFromInt(tt.target)}
			if got := g.Open(); got != tt.want {
				t.Errorf("Open() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, 1, 5))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-01-05"` {
		t.Fatalf("marshal = %s", b)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-12-31T10:00:00Z"`), &d); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	if !d.Equal(NewDate(2024, 12, 31).Time) {
		t.Fatalf("unexpected date %v", d)
	}
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Fatal("expected error for garbage date")
	}
}

func TestTransactionDecodesNumericAmount(t *testing.T) {
	// Snapshots written by older clients store amounts as bare numbers.
	raw := `{"id":1700000000000,"description":"Gaji","amount":5000000,"type":"income","category":"gaji","date":"2025-02-01","createdAt":"2025-02-01T08:00:00Z"}`
	var tx Transaction
	if err := json.Unmarshal([]byte(raw), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(5_000_000)) || tx.Type != Income {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if !tx.CreatedAt.Equal(time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected createdAt %v", tx.CreatedAt)
	}
}

func TestCategoryHelpers(t *testing.T) {
	if CategoryDisplayName("tagihan") != "Tagihan & Utilitas" {
		t.Fatalf("unexpected display name %q", CategoryDisplayName("tagihan"))
	}
	if CategoryDisplayName("unknown") != "unknown" {
		t.Fatal("unknown categories should display as themselves")
	}
	if CategoryIcon("unknown") != "💰" {
		t.Fatal("unknown categories should use the default icon")
	}
	if len(AllCategories()) != len(IncomeCategories)+len(ExpenseCategories) {
		t.Fatal("AllCategories should concatenate both sets")
	}
	if !IsValidCategory(Income, "freelance") || IsValidCategory(Expense, "freelance") {
		t.Fatal("category membership mismatch")
	}
}
