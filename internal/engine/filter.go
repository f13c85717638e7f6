package engine

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/docmerge-dev/docmerge/internal/domain"
)

// CompileFilter compiles a boolean record-filter expression. Column names
// are the expression's environment, so `amount != "" && name != "Bob"`
// selects rows by cell value.
func CompileFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression,
		expr.Env(map[string]string{}),
		expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return program, nil
}

// filterRecords keeps the records the program selects, preserving order.
func filterRecords(records []domain.Record, program *vm.Program) ([]domain.Record, error) {
	if program == nil {
		return records, nil
	}

	kept := make([]domain.Record, 0, len(records))
	for i, rec := range records {
		out, err := expr.Run(program, map[string]string(rec))
		if err != nil {
			return nil, fmt.Errorf("filter failed on row %d: %w", i+2, err)
		}
		if keep, ok := out.(bool); ok && keep {
			kept = append(kept, rec)
		}
	}
	return kept, nil
}
