package server

import (
	"regexp"
	"sort"
	"strings"

	"github.com/doughdash/backend/internal/ledger"
)

// Area numbers exclude 000, 666, and 9xx; group and serial exclude all-zero.
var ssnPattern = regexp.MustCompile(`\b(?:00[1-9]|0[1-9]\d|[1-578]\d{2}|6[0-57-9]\d|66[0-57-9])-(?:0[1-9]|[1-9]\d)-(?:000[1-9]|00[1-9]\d|0[1-9]\d{2}|[1-9]\d{3})\b`)

var nonDigits = regexp.MustCompile(`\D`)

const piiScanLimit = 2000

// detectPII scans non-required columns of uploaded rows for SSN-like and
// card-number-like values (Luhn-validated to cut false positives) and
// returns the offending column names. Uploads carrying such columns are
// rejected before anything is stored.
func detectPII(records []ledger.RawRecord) []string {
	flagged := make(map[string]bool)
	scanned := 0
	for _, rec := range records {
		if scanned >= piiScanLimit {
			break
		}
		scanned++
		for col, value := range rec {
			lower := strings.ToLower(col)
			if lower == "date" || lower == "amount" || flagged[col] {
				continue
			}
			v := strings.TrimSpace(value)
			if v == "" {
				continue
			}
			if ssnPattern.MatchString(v) {
				flagged[col] = true
				continue
			}
			digits := nonDigits.ReplaceAllString(v, "")
			if len(digits) >= 13 && len(digits) <= 16 && luhnOK(digits) {
				flagged[col] = true
			}
		}
	}

	out := make([]string, 0, len(flagged))
	for col := range flagged {
		out = append(out, col)
	}
	sort.Strings(out)
	return out
}

// luhnOK reports whether a digit string passes the Luhn checksum.
func luhnOK(num string) bool {
	total := 0
	alt := false
	for i := len(num) - 1; i >= 0; i-- {
		c := num[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if alt {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		total += d
		alt = !alt
	}
	return total%10 == 0
}
