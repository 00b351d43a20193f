package insights

// Masker replaces merchant names with stable pseudonyms for one response.
// The same merchant always maps to the same label within a Masker's
// lifetime; labels are assigned in first-seen order and carry no meaning
// across responses. Masking never touches amounts, so aggregation math is
// unchanged.
type Masker struct {
	names map[string]string
}

// NewMasker returns an empty per-response masker.
func NewMasker() *Masker {
	return &Masker{names: make(map[string]string)}
}

// Name returns the pseudonym for a merchant, assigning one on first use:
// "Merchant A" through "Merchant Z", then "Merchant AA" and so on.
func (m *Masker) Name(merchant string) string {
	if label, ok := m.names[merchant]; ok {
		return label
	}
	label := "Merchant " + alphaLabel(len(m.names))
	m.names[merchant] = label
	return label
}

// MaskTotals rewrites a merchant-keyed totals map, preserving values.
func (m *Masker) MaskTotals(totals map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(totals))
	for merchant, v := range totals {
		out[m.Name(merchant)] = v
	}
	return out
}

// MaskRanked rewrites merchant names in a ranked breakdown in place order.
func (m *Masker) MaskRanked(rows []Ranked) []Ranked {
	out := make([]Ranked, len(rows))
	for i, r := range rows {
		out[i] = Ranked{Name: m.Name(r.Name), Total: r.Total}
	}
	return out
}

// alphaLabel converts 0,1,2,... to A,B,...,Z,AA,AB,... like spreadsheet
// columns.
func alphaLabel(n int) string {
	label := ""
	n++
	for n > 0 {
		n--
		label = string(rune('A'+n%26)) + label
		n /= 26
	}
	return label
}
