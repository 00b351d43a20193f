package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	in := strings.Join([]string{
		"Date,Merchant,Category,Amount",
		"2025-09-02,STARBUCKS #123,Coffee,4.95",
		"2025-09-05,SAFEWAY,,65.20",
	}, "\n")

	records, err := parseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Keys are lowercased regardless of header casing.
	assert.Equal(t, "STARBUCKS #123", records[0]["merchant"])
	assert.Equal(t, "4.95", records[0]["amount"])
	assert.Equal(t, "", records[1]["category"])
}

func TestParseCSVMissingColumn(t *testing.T) {
	in := "date,description,amount\n2025-09-02,coffee,4.95\n"
	_, err := parseCSV(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date, merchant, amount")
}

func TestParseCSVHeaderOnly(t *testing.T) {
	records, err := parseCSV(strings.NewReader("date,merchant,amount\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCSVRaggedRow(t *testing.T) {
	in := "date,merchant,amount\n2025-09-02,STARBUCKS\n"
	_, err := parseCSV(strings.NewReader(in))
	assert.Error(t, err)
}
