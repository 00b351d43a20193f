package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doughdash/backend/internal/ledger"
)

func TestDetectPIISSN(t *testing.T) {
	records := []ledger.RawRecord{
		{"date": "2025-09-02", "merchant": "STARBUCKS", "amount": "4.95", "notes": "ssn 123-45-6789"},
	}
	assert.Equal(t, []string{"notes"}, detectPII(records))
}

func TestDetectPIISSNAreaRanges(t *testing.T) {
	flag := func(ssn string) []string {
		return detectPII([]ledger.RawRecord{
			{"date": "2025-09-02", "merchant": "STARBUCKS", "amount": "4.95", "notes": ssn},
		})
	}
	// 6xx areas outside 666 are valid and must be caught.
	assert.Equal(t, []string{"notes"}, flag("689-24-1357"))
	assert.Equal(t, []string{"notes"}, flag("612-45-6789"))
	// 000, 666, and 9xx areas are never issued.
	assert.Empty(t, flag("000-45-6789"))
	assert.Empty(t, flag("666-45-6789"))
	assert.Empty(t, flag("900-45-6789"))
}

func TestDetectPIICardNumber(t *testing.T) {
	// 4111111111111111 is the classic Luhn-valid test PAN.
	records := []ledger.RawRecord{
		{"date": "2025-09-02", "merchant": "STARBUCKS", "amount": "4.95", "card": "4111 1111 1111 1111"},
	}
	assert.Equal(t, []string{"card"}, detectPII(records))
}

func TestDetectPIIIgnoresLuhnInvalidDigits(t *testing.T) {
	records := []ledger.RawRecord{
		{"date": "2025-09-02", "merchant": "STARBUCKS", "amount": "4.95", "ref": "4111111111111112"},
	}
	assert.Empty(t, detectPII(records))
}

func TestDetectPIISkipsDateAndAmountColumns(t *testing.T) {
	records := []ledger.RawRecord{
		{"date": "123-45-6789", "merchant": "SAFEWAY", "amount": "4111111111111111"},
	}
	assert.Empty(t, detectPII(records))
}

func TestDetectPIICleanUpload(t *testing.T) {
	records := []ledger.RawRecord{
		{"date": "2025-09-02", "merchant": "STARBUCKS #123", "category": "Coffee", "amount": "4.95"},
		{"date": "2025-09-05", "merchant": "SAFEWAY", "category": "Groceries", "amount": "65.20"},
	}
	assert.Empty(t, detectPII(records))
}

func TestLuhnOK(t *testing.T) {
	assert.True(t, luhnOK("4111111111111111"))
	assert.True(t, luhnOK("79927398713"))
	assert.False(t, luhnOK("4111111111111112"))
	assert.False(t, luhnOK("411111111111111x"))
}
