// Package export renders the transaction list as a spreadsheet-friendly CSV.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"moneytracker/internal/core"
)

// ErrNothingToExport is returned for an empty transaction list; nothing is written.
var ErrNothingToExport = errors.New("no transactions to export")

var header = []string{"Tanggal", "Keterangan", "Kategori", "Jenis", "Jumlah (Rp)"}

// Filename is money-tracker-YYYY-MM-DD.csv for the UTC date of now.
func Filename(now time.Time) string {
	return "money-tracker-" + now.UTC().Format("2006-01-02") + ".csv"
}

// WriteCSV writes a header and one row per transaction, in order. Rows are
// joined with "\n" and the description is always quoted. encoding/csv only
// quotes when needed, so rows are built by hand.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	if len(txs) == 0 {
		return ErrNothingToExport
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(header, ",")); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		row := []string{
			localDate(tx.Date),
			quote(tx.Description),
			core.CategoryDisplayName(tx.Category),
			core.TypeDisplayName(tx.Type),
			tx.Amount.String(),
		}
		if _, err := bw.WriteString("\n" + strings.Join(row, ",")); err != nil {
			return fmt.Errorf("write csv row %d: %w", tx.ID, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// localDate formats d the Indonesian way: d/m/yyyy without padding.
func localDate(d core.Date) string {
	return fmt.Sprintf("%d/%d/%d", d.Day(), int(d.Month()), d.Year())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
