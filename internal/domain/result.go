package domain

import "fmt"

// ValidationResult is the outcome of pre-run validation. Errors are fatal
// (generation must not start); warnings are advisory.
type ValidationResult struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ValidationSuccess builds a passing result carrying optional warnings.
func ValidationSuccess(warnings []string) ValidationResult {
	return ValidationResult{Valid: true, Warnings: warnings}
}

// ValidationFailure builds a failing result.
func ValidationFailure(errors, warnings []string) ValidationResult {
	return ValidationResult{Valid: false, Errors: errors, Warnings: warnings}
}

// GenerationResult is the aggregate outcome of one generation run. Error
// messages are appended in task completion order, which is not record order.
type GenerationResult struct {
	RunID        string   `json:"run_id" yaml:"run_id"`
	SuccessCount int      `json:"success_count" yaml:"success_count"`
	ErrorCount   int      `json:"error_count" yaml:"error_count"`
	TotalCount   int      `json:"total_count" yaml:"total_count"`
	Errors       []string `json:"errors,omitempty" yaml:"errors,omitempty"`
	OutputDir    string   `json:"output_dir" yaml:"output_dir"`
	Cancelled    bool     `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
}

// IsComplete reports whether every record was rendered and saved.
func (r GenerationResult) IsComplete() bool {
	return r.ErrorCount == 0 && !r.Cancelled
}

// Summary returns the one-line outcome shown to the operator.
func (r GenerationResult) Summary() string {
	if r.Cancelled {
		return fmt.Sprintf("Cancelled: %d of %d documents created", r.SuccessCount, r.TotalCount)
	}
	if r.ErrorCount == 0 {
		return fmt.Sprintf("Successfully created %d documents", r.SuccessCount)
	}
	return fmt.Sprintf("Created %d of %d documents, %d errors",
		r.SuccessCount, r.TotalCount, r.ErrorCount)
}
