package ledger

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// RawRecord is one unvalidated row as produced by an external source, keyed
// by column name. Keys are matched case-insensitively so "Date" and "date"
// are equivalent.
type RawRecord map[string]string

// dateFormats is the accepted set of date layouts, tried in order.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
}

// Normalize coerces raw records into canonical transactions. Rows with an
// unparseable date or a non-finite amount are dropped; a bad row never fails
// the batch. Rows without a category keep an empty category for Categorize
// to fill in.
func Normalize(records []RawRecord) []Transaction {
	out := make([]Transaction, 0, len(records))
	for _, r := range records {
		date, ok := parseDate(field(r, "date"))
		if !ok {
			continue
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(field(r, "amount")), 64)
		if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
			continue
		}
		out = append(out, Transaction{
			Date:     date,
			Merchant: strings.TrimSpace(field(r, "merchant")),
			Category: strings.TrimSpace(field(r, "category")),
			Amount:   amount,
		})
	}
	return out
}

func field(r RawRecord, name string) string {
	if v, ok := r[name]; ok {
		return v
	}
	for k, v := range r {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return v
		}
	}
	return ""
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
