// Package engine coordinates one generation run: loading records,
// analyzing the template, validating, then fanning per-record rendering
// out across a bounded worker pool.
package engine

import (
	"github.com/docmerge-dev/docmerge/internal/domain"
)

// Loader reads tabular records from a spreadsheet file.
type Loader interface {
	Load(path string) ([]domain.Record, error)
}

// Template wraps one template document. Render must be safe for
// concurrent calls; all mutable render state stays on the call's stack.
type Template interface {
	Variables() (map[string]struct{}, error)
	Render(rec domain.Record) ([]byte, error)
}

// TemplateFactory opens a template document.
type TemplateFactory func(path string) (Template, error)

// Validator decides whether generation may proceed.
type Validator interface {
	Validate(records []domain.Record, templateVars map[string]struct{}) domain.ValidationResult
}

// Exporter writes rendered documents into the output directory. Save
// must be safe under concurrent calls targeting the same directory.
type Exporter interface {
	Save(content []byte, filename string) (string, error)
	GenerateFilename(pattern string, rec domain.Record, index int) string
	OutputDir() string
}

// ExporterFactory binds an exporter to an output directory, creating it
// as needed.
type ExporterFactory func(outputDir string) (Exporter, error)
