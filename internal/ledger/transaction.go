// Package ledger defines the canonical transaction model and the ingestion
// helpers that turn loosely-typed raw records into it.
package ledger

import (
	"fmt"
	"time"
)

// CategoryUncategorized is assigned when a record carries no category and no
// keyword rule matches its merchant.
const CategoryUncategorized = "Uncategorized"

// CategoryIncome marks payroll/deposit style rows. Transactions in this
// category are treated as income regardless of sign.
const CategoryIncome = "Income"

// Transaction is one normalized ledger row. Amount > 0 is an expense;
// Amount <= 0 is income or a refund.
type Transaction struct {
	ID       string    `json:"id,omitempty"`
	Date     time.Time `json:"date"`
	Merchant string    `json:"merchant"`
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
}

// IsExpense reports whether the transaction counts toward expense-side
// analytics. Income-categorized rows are excluded even when positive.
func (t Transaction) IsExpense() bool {
	return t.Amount > 0 && t.Category != CategoryIncome
}

// IsIncome is the complement of IsExpense for rows with a usable amount.
func (t Transaction) IsIncome() bool {
	return t.Amount < 0 || t.Category == CategoryIncome
}

// Period identifies one calendar month, formatted "YYYY-MM". The string form
// sorts chronologically.
type Period string

// PeriodOf returns the calendar month containing t.
func PeriodOf(t time.Time) Period {
	return Period(fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month())))
}

// Time returns midnight UTC on the first day of the period. Invalid periods
// return the zero time.
func (p Period) Time() time.Time {
	t, err := time.Parse("2006-01", string(p))
	if err != nil {
		return time.Time{}
	}
	return t
}

// Days returns the number of calendar days in the period, or 0 when the
// period is malformed.
func (p Period) Days() int {
	start := p.Time()
	if start.IsZero() {
		return 0
	}
	return start.AddDate(0, 1, -1).Day()
}

// Prev returns the period one month earlier.
func (p Period) Prev() Period {
	start := p.Time()
	if start.IsZero() {
		return p
	}
	return PeriodOf(start.AddDate(0, -1, 0))
}
