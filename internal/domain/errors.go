package domain

import "fmt"

// LoadError indicates the source table could not be read: missing file,
// unsupported extension, corrupt workbook, or no data rows.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load data from %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to load data from %s", e.Path)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// TemplateError indicates a bad template: missing file, wrong extension,
// placeholder syntax error, or a rendering failure.
type TemplateError struct {
	Path    string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("template %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("template %s: %v", e.Path, e.Cause)
}

func (e *TemplateError) Unwrap() error { return e.Cause }

// ExportError indicates a filesystem failure creating the output directory
// or writing a rendered document.
type ExportError struct {
	Path  string
	Cause error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s failed: %v", e.Path, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

// GenerationError is the single failure kind surfaced to callers of the
// generator. It wraps load, template, validation and export failures as
// well as anything unexpected, so callers never see a raw internal error.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Cause.Error()
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// NewGenerationError wraps err, keeping its text as the user-facing message.
func NewGenerationError(err error) *GenerationError {
	return &GenerationError{Message: err.Error(), Cause: err}
}
