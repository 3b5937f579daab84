package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"moneytracker/internal/core"
)

func TestWriteCSV(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Description: `Makan "enak"`, Amount: decimal.NewFromInt(25000), Type: core.Expense, Category: "makanan", Date: core.NewDate(2025, 3, 5)},
		{ID: 2, Description: "Gaji, Maret", Amount: decimal.RequireFromString("5000000.5"), Type: core.Income, Category: "gaji", Date: core.NewDate(2025, 12, 31)},
		{ID: 3, Description: "Lain", Amount: decimal.NewFromInt(1), Type: core.Expense, Category: "misteri", Date: core.NewDate(2025, 1, 1)},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, txs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	want := "Tanggal,Keterangan,Kategori,Jenis,Jumlah (Rp)\n" +
		`5/3/2025,"Makan ""enak""",Makanan & Minuman,Pengeluaran,25000` + "\n" +
		`31/12/2025,"Gaji, Maret",Gaji,Pemasukan,5000000.5` + "\n" +
		`1/1/2025,"Lain",misteri,Pengeluaran,1`
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("got %v, want ErrNothingToExport", err)
	}
	if buf.Len() != 0 {
		t.Fatal("nothing should be written for an empty export")
	}
}

func TestFilename(t *testing.T) {
	got := Filename(time.Date(2025, 7, 4, 23, 0, 0, 0, time.FixedZone("WIB", 7*3600)))
	if got != "money-tracker-2025-07-04.csv" {
		t.Fatalf("Filename = %q", got)
	}
}
