package output

import (
	"encoding/json"
	"io"

	"github.com/docmerge-dev/docmerge/internal/domain"
)

// JSONFormatter formats generation results as JSON.
type JSONFormatter struct {
	writer io.Writer
	pretty bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(w io.Writer, pretty bool) *JSONFormatter {
	return &JSONFormatter{writer: w, pretty: pretty}
}

// Format writes the result as a JSON document.
func (f *JSONFormatter) Format(result *domain.GenerationResult) error {
	encoder := json.NewEncoder(f.writer)
	if f.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(result)
}
