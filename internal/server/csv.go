package server

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/doughdash/backend/internal/ledger"
)

// requiredColumns must all be present (case-insensitively) in an uploaded
// CSV header.
var requiredColumns = []string{"date", "merchant", "amount"}

// parseCSV reads an uploaded ledger CSV into raw records keyed by the
// header row. Column presence is validated here; per-row validity is the
// normalizer's job.
func parseCSV(r io.Reader) ([]ledger.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	have := make(map[string]bool, len(header))
	for _, col := range header {
		have[strings.ToLower(col)] = true
	}
	for _, col := range requiredColumns {
		if !have[col] {
			return nil, fmt.Errorf("CSV must include columns: date, merchant, amount")
		}
	}

	var records []ledger.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rec := make(ledger.RawRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[strings.ToLower(col)] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
