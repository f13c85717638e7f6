package validate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmerge-dev/docmerge/internal/domain"
)

func vars(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func TestValidateSubsetOfColumnsIsValid(t *testing.T) {
	records := []domain.Record{
		{"name": "Alice", "amount": "10", "city": "Riga"},
		{"name": "Bob", "amount": "20", "city": "Oslo"},
	}

	result := NewDataValidator(0).Validate(records, vars("name", "amount"))

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateMissingColumnsSortedError(t *testing.T) {
	records := []domain.Record{{"name": "Alice"}}

	result := NewDataValidator(0).Validate(records, vars("name", "zip", "city_district", "amount"))

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "amount, city_district, zip")
}

func TestValidateEmptyRecords(t *testing.T) {
	result := NewDataValidator(0).Validate(nil, vars("name"))

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no data")
}

func TestValidateRowLimit(t *testing.T) {
	records := make([]domain.Record, 6)
	for i := range records {
		records[i] = domain.Record{"name": fmt.Sprintf("r%d", i)}
	}

	result := NewDataValidator(5).Validate(records, vars("name"))

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Empty(t, result.Warnings)
	assert.Contains(t, result.Errors[0], "row limit exceeded: 6 > 5")
}

func TestValidateUnusedColumnsWarning(t *testing.T) {
	records := []domain.Record{{"name": "Alice", "zz": "1", "aa": "2"}}

	result := NewDataValidator(0).Validate(records, vars("name"))

	require.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "aa, zz")
}

func TestValidateBlankCellsWarning(t *testing.T) {
	records := []domain.Record{
		{"name": "Alice", "amount": "10"},
		{"name": "Bob", "amount": ""},
		{"name": "", "amount": "30"},
	}

	result := NewDataValidator(0).Validate(records, vars("name", "amount"))

	require.True(t, result.Valid, "blank cells warn, never block")
	require.Len(t, result.Warnings, 1)
	// Header is row 1, first data row is row 2.
	assert.Contains(t, result.Warnings[0], "rows: 3, 4")
}

func TestValidateBlankCellsWarningTruncatesAtTen(t *testing.T) {
	records := make([]domain.Record, 15)
	for i := range records {
		records[i] = domain.Record{"name": ""}
	}

	result := NewDataValidator(0).Validate(records, vars("name"))

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "and 5 more")
}

func TestValidateDerivedWordsVariable(t *testing.T) {
	records := []domain.Record{{"amount": "10.50"}}

	// amount_words is satisfied by the amount column; amount itself is
	// then not reported as unused.
	result := NewDataValidator(0).Validate(records, vars("amount_words"))

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestValidateDerivedVariableWithoutBaseColumn(t *testing.T) {
	records := []domain.Record{{"name": "Alice"}}

	result := NewDataValidator(0).Validate(records, vars("total_words"))

	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "total_words")
}
