package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"moneytracker/internal/core"
)

var (
	errBodyTooLarge = errors.New("request body too large")
	errInvalidID    = errors.New("invalid id")
)

// Notification texts shown to the user.
const (
	msgInvalidForm        = "Harap isi semua field dengan benar"
	msgInvalidRequest     = "Format permintaan tidak valid"
	msgSaveFailed         = "Gagal menyimpan data"
	msgRenderFailed       = "Gagal menampilkan data"
	msgTransactionAdded   = "Transaksi berhasil ditambahkan!"
	msgTransactionDeleted = "Transaksi berhasil dihapus"
	msgTransactionMissing = "Transaksi tidak ditemukan"
	msgGoalCreated        = "Target tabungan berhasil dibuat!"
	msgGoalUpdated        = "Target tabungan berhasil diperbarui"
	msgGoalDeleted        = "Target tabungan berhasil dihapus"
	msgGoalMissing        = "Target tabungan tidak ditemukan"
	msgQuickSaveInvalid   = "Pilih target dan isi jumlah"
	msgNothingToExport    = "Tidak ada data untuk diexport"
	msgExported           = "Data berhasil diexport"
)

// validationMessage turns a record validation error into user-facing text.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrEmptyDescription):
		return "Keterangan harus diisi"
	case errors.Is(err, core.ErrDescriptionTooLong):
		return "Keterangan maksimal 100 karakter"
	case errors.Is(err, core.ErrAmountTooLarge):
		return "Jumlah terlalu besar (maksimal Rp 1.000.000.000)"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Jumlah harus lebih dari 0"
	case errors.Is(err, core.ErrInvalidType):
		return "Jenis transaksi tidak valid"
	case errors.Is(err, core.ErrInvalidCategory), errors.Is(err, core.ErrInvalidGoalCategory):
		return "Kategori tidak valid"
	case errors.Is(err, core.ErrFutureDate):
		return "Tanggal tidak boleh di masa depan"
	case errors.Is(err, core.ErrInvalidDate):
		return "Tanggal tidak valid"
	case errors.Is(err, core.ErrEmptyGoalName):
		return "Nama target harus diisi"
	case errors.Is(err, core.ErrGoalNameTooLong):
		return "Nama target maksimal 50 karakter"
	case errors.Is(err, core.ErrNegativeSaved):
		return "Jumlah terkumpul tidak boleh negatif"
	case errors.Is(err, core.ErrNotesTooLong):
		return "Catatan maksimal 200 karakter"
	default:
		return msgInvalidForm
	}
}

// parseID reads the {id} path segment.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// sanitizeInput removes control characters except tab, newline and carriage
// return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
