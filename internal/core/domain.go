package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	MaxDescriptionLength = 100
	MaxGoalNameLength    = 50
	MaxNotesLength       = 200

	dateLayout = "2006-01-02"
)

// MaxAmount caps any single transaction or goal amount.
var MaxAmount = decimal.NewFromInt(1_000_000_000)

// Stored records carry amounts as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	TransactionType string

	// Date is a calendar date stored at UTC midnight and encoded as YYYY-MM-DD.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64           `json:"id"` // creation timestamp in ms
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	SavingsGoal struct {
		ID           int64           `json:"id"`
		Name         string          `json:"name"`
		Category     string          `json:"category"`
		TargetAmount decimal.Decimal `json:"targetAmount"`
		SavedAmount  decimal.Decimal `json:"savedAmount"`
		Notes        string          `json:"notes"`
	}
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrFutureDate          = errors.New("date cannot be in the future")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrAmountTooLarge      = errors.New("amount too large")
	ErrEmptyDescription    = errors.New("empty description")
	ErrDescriptionTooLong  = fmt.Errorf("description too long (max %d characters)", MaxDescriptionLength)
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidCategory     = errors.New("invalid category")
	ErrEmptyGoalName       = errors.New("empty goal name")
	ErrGoalNameTooLong     = fmt.Errorf("goal name too long (max %d characters)", MaxGoalNameLength)
	ErrInvalidGoalCategory = errors.New("invalid goal category")
	ErrNegativeSaved       = errors.New("saved amount cannot be negative")
	ErrNotesTooLong        = fmt.Errorf("notes too long (max %d characters)", MaxNotesLength)
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MonthKey identifies the date's month the way the month filter does ("2025-3").
func (d Date) MonthKey() string {
	return fmt.Sprintf("%d-%d", d.Year(), int(d.Month()))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	if parsed, err := ParseDate(s); err == nil {
		*d = parsed
		return nil
	}
	// Older snapshots may carry a full ISO timestamp.
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, ErrInvalidDate)
	}
	*d = DateOf(t)
	return nil
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Validate checks a transaction against the record invariants; today bounds the date.
func (t Transaction) Validate(today Date) error {
	desc := strings.TrimSpace(t.Description)
	if desc == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if err := validateAmount(t.Amount); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !IsValidCategory(t.Type, t.Category) {
		return ErrInvalidCategory
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if t.Date.After(today.Time) {
		return ErrFutureDate
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	name := strings.TrimSpace(g.Name)
	if name == "" {
		return ErrEmptyGoalName
	}
	if utf8.RuneCountInString(name) > MaxGoalNameLength {
		return ErrGoalNameTooLong
	}
	if !IsGoalCategory(g.Category) {
		return ErrInvalidGoalCategory
	}
	if err := validateAmount(g.TargetAmount); err != nil {
		return err
	}
	if g.SavedAmount.IsNegative() {
		return ErrNegativeSaved
	}
	if utf8.RuneCountInString(g.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// Progress returns saved/target as a percentage, unclamped.
func (g SavingsGoal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return g.SavedAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
}

// DisplayProgress is Progress clamped to 100.
func (g SavingsGoal) DisplayProgress() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	p := g.Progress()
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

func (g SavingsGoal) Achieved() bool {
	return g.Progress().GreaterThanOrEqual(decimal.NewFromInt(100))
}

// Open reports whether the goal still accepts contributions.
func (g SavingsGoal) Open() bool {
	return g.SavedAmount.LessThan(g.TargetAmount)
}

func validateAmount(a decimal.Decimal) error {
	if !a.IsPositive() {
		return ErrInvalidAmount
	}
	if a.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	return nil
}
