// Package validate decides whether a loaded table is compatible with a
// template's placeholder set before any rendering starts.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docmerge-dev/docmerge/internal/domain"
)

// DefaultMaxRows caps one generation run, preventing runaway jobs.
const DefaultMaxRows = 5000

// wordsSuffix mirrors the render-time derived field convention: a
// template variable amount_words is satisfied by an amount column.
const wordsSuffix = "_words"

// DataValidator checks records against a template's placeholder set.
// Fatal errors block generation; warnings only inform.
type DataValidator struct {
	maxRows int
}

// NewDataValidator returns a validator with the given row limit, falling
// back to DefaultMaxRows when maxRows is not positive.
func NewDataValidator(maxRows int) *DataValidator {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &DataValidator{maxRows: maxRows}
}

// Validate runs all checks. The first record's columns define the schema;
// all records are assumed to share it.
func (v *DataValidator) Validate(records []domain.Record, templateVars map[string]struct{}) domain.ValidationResult {
	if len(records) == 0 {
		return domain.ValidationFailure([]string{"the spreadsheet contains no data"}, nil)
	}

	if len(records) > v.maxRows {
		return domain.ValidationFailure([]string{fmt.Sprintf(
			"row limit exceeded: %d > %d; split the file into smaller parts",
			len(records), v.maxRows)}, nil)
	}

	available := make(map[string]struct{}, len(records[0]))
	for col := range records[0] {
		available[col] = struct{}{}
	}

	var errors, warnings []string

	if missing := missingColumns(templateVars, available); len(missing) > 0 {
		errors = append(errors, fmt.Sprintf(
			"the spreadsheet is missing columns for template variables: %s",
			strings.Join(missing, ", ")))
	}

	if unused := unusedColumns(available, templateVars); len(unused) > 0 {
		warnings = append(warnings, fmt.Sprintf(
			"columns not used by the template: %s", strings.Join(unused, ", ")))
	}

	if blank := blankCellRows(records, templateVars); len(blank) > 0 {
		warnings = append(warnings, blankCellWarning(blank))
	}

	if len(errors) > 0 {
		return domain.ValidationFailure(errors, warnings)
	}
	return domain.ValidationSuccess(warnings)
}

// missingColumns returns template variables with no backing column,
// sorted ascending. A derived X_words variable counts as backed when
// column X exists.
func missingColumns(templateVars, available map[string]struct{}) []string {
	var missing []string
	for name := range templateVars {
		if _, ok := available[name]; ok {
			continue
		}
		if base, isDerived := strings.CutSuffix(name, wordsSuffix); isDerived {
			if _, ok := available[base]; ok {
				continue
			}
		}
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}

// unusedColumns returns columns the template never references, sorted.
func unusedColumns(available, templateVars map[string]struct{}) []string {
	var unused []string
	for col := range available {
		if _, ok := templateVars[col]; ok {
			continue
		}
		if _, ok := templateVars[col+wordsSuffix]; ok {
			continue
		}
		unused = append(unused, col)
	}
	sort.Strings(unused)
	return unused
}

// blankCellRows returns the 1-based spreadsheet row numbers (header is
// row 1) where at least one template-referenced column is blank.
func blankCellRows(records []domain.Record, templateVars map[string]struct{}) []int {
	var rows []int
	for i, rec := range records {
		for col := range templateVars {
			value, ok := rec[col]
			if ok && strings.TrimSpace(value) == "" {
				rows = append(rows, i+2)
				break
			}
		}
	}
	return rows
}

// blankCellWarning summarizes up to the first 10 affected rows.
func blankCellWarning(rows []int) string {
	const maxListed = 10

	listed := rows
	if len(listed) > maxListed {
		listed = listed[:maxListed]
	}
	parts := make([]string, len(listed))
	for i, row := range listed {
		parts[i] = fmt.Sprintf("%d", row)
	}

	msg := fmt.Sprintf("blank values found in rows: %s", strings.Join(parts, ", "))
	if rest := len(rows) - maxListed; rest > 0 {
		msg += fmt.Sprintf(" and %d more", rest)
	}
	return msg
}
