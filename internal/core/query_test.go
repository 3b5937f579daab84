package core

import "testing"

func sampleTransactions() []Transaction {
	a := tx(1, Expense, "makanan", 300, NewDate(2025, 3, 5))
	a.Description = "Nasi Goreng"
	b := tx(2, Income, "gaji", 5000, NewDate(2025, 3, 1))
	b.Description = "Gaji Maret"
	c := tx(3, Expense, "transportasi", 100, NewDate(2025, 2, 20))
	c.Description = "Ojek ke kantor"
	d := tx(4, Expense, "makanan", 900, NewDate(2025, 3, 7))
	d.Description = "Makan malam goreng"
	return []Transaction{a, b, c, d}
}

func ids(txs []Transaction) []int64 {
	out := make([]int64, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueryApply(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []int64
	}{
		{"no filter keeps insertion order", Query{}, []int64{1, 2, 3, 4}},
		{"all is a wildcard", Query{Type: "all", Category: "all", Month: "all"}, []int64{1, 2, 3, 4}},
		{"by type", Query{Type: "expense"}, []int64{1, 3, 4}},
		{"by category", Query{Category: "makanan"}, []int64{1, 4}},
		{"by month", Query{Month: "2025-3"}, []int64{1, 2, 4}},
		{"search is case-insensitive", Query{Search: "GORENG"}, []int64{1, 4}},
		{"filters compose", Query{Type: "expense", Month: "2025-3", Search: "malam"}, []int64{4}},
		{"date desc", Query{Sort: SortDateDesc}, []int64{4, 1, 2, 3}},
		{"date asc", Query{Sort: SortDateAsc}, []int64{3, 2, 1, 4}},
		{"amount desc", Query{Sort: SortAmountDesc}, []int64{2, 4, 1, 3}},
		{"amount asc with filter", Query{Type: "expense", Sort: SortAmountAsc}, []int64{3, 1, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.query.Apply(sampleTransactions()))
			if !equalIDs(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryApplyDoesNotMutateInput(t *testing.T) {
	in := sampleTransactions()
	Query{Sort: SortAmountDesc}.Apply(in)
	if !equalIDs(ids(in), []int64{1, 2, 3, 4}) {
		t.Fatalf("input reordered: %v", ids(in))
	}
}

func TestParseSortOrder(t *testing.T) {
	cases := map[string]SortOrder{
		"":            "",
		"date-asc":    SortDateAsc,
		"amount-desc": SortAmountDesc,
		"bogus":       SortDateDesc,
	}
	for in, want := range cases {
		if got := ParseSortOrder(in); got != want {
			t.Errorf("ParseSortOrder(%q) = %q, want %q", in, got, want)
		}
	}
}
