package invoicing

import (
	"fmt"
	"strconv"
	"strings"

	"invoice_ledger/internal/domain/entities"
)

// ParseNumberFormat maps a configured format name; empty means numeric.
func ParseNumberFormat(s string) (entities.NumberFormat, error) {
	switch entities.NumberFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", entities.NumberFormatNumeric:
		return entities.NumberFormatNumeric, nil
	case entities.NumberFormatYearly:
		return entities.NumberFormatYearly, nil
	}
	return "", NewValidationError("number_format", fmt.Sprintf("unknown format %q", s))
}

// NumberPrefix is the prefix shared by every number of the format in the given year.
// Storage uses it to narrow the candidate scan.
func NumberPrefix(format entities.NumberFormat, year int) string {
	if format == entities.NumberFormatYearly {
		return fmt.Sprintf("%d-", year)
	}
	return ""
}

// NextInvoiceNumber proposes the next number after the ones already in use.
//
// The result is a candidate only: callers must persist it under a uniqueness
// constraint and ask again when another writer won the number.
func NextInvoiceNumber(format entities.NumberFormat, year int, existing []string) (string, error) {
	switch format {
	case entities.NumberFormatNumeric:
		var max int64
		for _, n := range existing {
			v, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
			if err != nil || v < 0 {
				continue
			}
			if v > max {
				max = v
			}
		}
		return strconv.FormatInt(max+1, 10), nil

	case entities.NumberFormatYearly:
		prefix := NumberPrefix(format, year)
		var max int64
		for _, n := range existing {
			n = strings.TrimSpace(n)
			if !strings.HasPrefix(n, prefix) {
				continue
			}
			v, err := strconv.ParseInt(n[strings.LastIndex(n, "-")+1:], 10, 64)
			if err != nil || v < 0 {
				continue
			}
			if v > max {
				max = v
			}
		}
		return fmt.Sprintf("%s%04d", prefix, max+1), nil
	}
	return "", NewValidationError("number_format", fmt.Sprintf("unknown format %q", format))
}
