package core

import (
	"sort"
	"strings"
)

const (
	SortDateDesc   SortOrder = "date-desc"
	SortDateAsc    SortOrder = "date-asc"
	SortAmountDesc SortOrder = "amount-desc"
	SortAmountAsc  SortOrder = "amount-asc"
)

type SortOrder string

// Query selects and orders transactions. Empty or "all" fields match everything;
// an empty Sort keeps insertion order.
type Query struct {
	Type     string
	Category string
	Month    string // "YYYY-M"
	Search   string
	Sort     SortOrder
}

// ParseSortOrder maps unknown values to date-desc.
func ParseSortOrder(s string) SortOrder {
	switch o := SortOrder(strings.TrimSpace(s)); o {
	case SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
		return o
	case "":
		return ""
	default:
		return SortDateDesc
	}
}

func (q Query) Match(t Transaction) bool {
	if !matchAll(q.Type) && string(t.Type) != q.Type {
		return false
	}
	if !matchAll(q.Category) && t.Category != q.Category {
		return false
	}
	if !matchAll(q.Month) && t.Date.MonthKey() != q.Month {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		if !strings.Contains(strings.ToLower(t.Description), term) {
			return false
		}
	}
	return true
}

// Apply filters then sorts. The input slice is not modified.
func (q Query) Apply(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if q.Match(t) {
			out = append(out, t)
		}
	}
	if q.Sort != "" {
		SortTransactions(out, q.Sort)
	}
	return out
}

// SortTransactions sorts in place; ties keep their relative order.
func SortTransactions(txs []Transaction, order SortOrder) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		switch order {
		case SortDateAsc:
			return a.Date.Before(b.Date.Time)
		case SortAmountDesc:
			return a.Amount.GreaterThan(b.Amount)
		case SortAmountAsc:
			return a.Amount.LessThan(b.Amount)
		default:
			return a.Date.After(b.Date.Time)
		}
	})
}

func matchAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "all"
}
