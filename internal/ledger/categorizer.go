package ledger

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// categoryKeywords maps a category to merchant keywords that imply it.
// Matching is case-insensitive substring containment, first category wins in
// the order listed by categoryOrder.
var categoryKeywords = map[string][]string{
	"Coffee":        {"STARBUCKS", "PEET", "COFFEE", "DUTCH BROS"},
	"Groceries":     {"SAFEWAY", "WHOLE FOODS", "TRADER JOE", "KROGER", "RALPHS", "SPROUTS"},
	"Dining":        {"UBEREATS", "DOORDASH", "GRUBHUB", "RESTAURANT", "DINER", "PIZZA"},
	"Transport":     {"UBER", "LYFT", "SHELL", "CHEVRON", "EXXON", "BP", "GAS"},
	"Shopping":      {"AMAZON", "TARGET", "WALMART", "BEST BUY", "APPLE", "NIKE"},
	"Entertainment": {"SPOTIFY", "NETFLIX", "HULU", "DISNEY", "YOUTUBE PREMIUM"},
	"Utilities":     {"COMCAST", "XFINITY", "AT&T", "T-MOBILE", "VERIZON", "PG&E", "WATER"},
	"Rent":          {"APARTMENTS", "RENT", "PROPERTY MGMT"},
	CategoryIncome:  {"PAYROLL", "DIRECT DEPOSIT", "VENMO CREDIT", "ZELLE CREDIT", "REFUND"},
}

// categoryOrder fixes the matching precedence. Coffee comes before Dining so
// "PIZZA COFFEE HOUSE" classifies as coffee, matching the keyword tables the
// suggestion copy is written against.
var categoryOrder = []string{
	"Coffee", "Groceries", "Dining", "Transport", "Shopping",
	"Entertainment", "Utilities", "Rent", CategoryIncome,
}

var titleCaser = cases.Title(language.English)

// CategorizeAll fills in missing categories by merchant keyword. Rows that
// already carry a category are left alone; unmatched rows become
// Uncategorized.
func CategorizeAll(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	for i, t := range txs {
		if t.Category == "" {
			t.Category = CategorizeMerchant(t.Merchant)
		}
		out[i] = t
	}
	return out
}

// CategorizeMerchant maps a merchant label to a category via the keyword
// tables, returning Uncategorized when nothing matches.
func CategorizeMerchant(merchant string) string {
	upper := strings.ToUpper(merchant)
	for _, cat := range categoryOrder {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(upper, kw) {
				return cat
			}
		}
	}
	return CategoryUncategorized
}

// DisplayName renders an all-caps statement merchant ("TRADER JOE'S #512")
// in title case for presentation.
func DisplayName(merchant string) string {
	return titleCaser.String(strings.ToLower(strings.TrimSpace(merchant)))
}
