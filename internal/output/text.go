// Package output renders generation results for the terminal or for
// machine consumption.
package output

import (
	"fmt"
	"io"

	"github.com/docmerge-dev/docmerge/internal/domain"
)

// TextFormatter prints the human-readable run summary.
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the summary line, the output location and any per-row
// error messages.
func (f *TextFormatter) Format(result *domain.GenerationResult) error {
	if _, err := fmt.Fprintln(f.writer, result.Summary()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Output: %s\n", result.OutputDir); err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		if _, err := fmt.Fprintln(f.writer, "Errors:"); err != nil {
			return err
		}
		for _, msg := range result.Errors {
			if _, err := fmt.Fprintf(f.writer, "  - %s\n", msg); err != nil {
				return err
			}
		}
	}
	return nil
}
