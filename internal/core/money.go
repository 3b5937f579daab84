// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing amounts from form input and
// formatting them as Indonesian Rupiah.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var rupiahPrinter = message.NewPrinter(language.Indonesian)

// ParseAmount converts a user-entered amount into a positive decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and rounds
// half-up to two decimal places. Signs, exponents, zero and non-digit input
// are rejected with ErrInvalidAmount; values above MaxAmount with
// ErrAmountTooLarge.
//
// Examples:
//
//	ParseAmount("15000")  -> 15000, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-5")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.Count(s, ".") > 1 {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if r != '.' && !unicode.IsDigit(r) {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if err := validateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// FormatRupiah formats an amount with Indonesian digit grouping and no
// fraction digits, e.g. "Rp 1.500.000".
func FormatRupiah(d decimal.Decimal) string {
	whole := d.Round(0).IntPart()
	if whole < 0 {
		return "-Rp " + rupiahPrinter.Sprintf("%d", -whole)
	}
	return "Rp " + rupiahPrinter.Sprintf("%d", whole)
}
