package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/docmerge-dev/docmerge/internal/domain"
)

// YAMLFormatter formats generation results as YAML.
type YAMLFormatter struct {
	writer io.Writer
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer) *YAMLFormatter {
	return &YAMLFormatter{writer: w}
}

// Format writes the result as a YAML document.
func (f *YAMLFormatter) Format(result *domain.GenerationResult) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))
	if err := encoder.Encode(result); err != nil {
		return err
	}
	return encoder.Close()
}
