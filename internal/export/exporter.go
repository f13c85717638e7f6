// Package export writes rendered documents into the output directory,
// sanitizing filenames and resolving collisions deterministically.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/docmerge-dev/docmerge/internal/domain"
)

const (
	// DefaultName replaces filenames left empty after sanitization.
	DefaultName = "document"

	maxNameLength = 250
)

var (
	invalidCharRe      = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	repeatUnderscoreRe = regexp.MustCompile(`_{2,}`)
)

// Exporter saves documents into one output directory. Save is safe to
// call concurrently from multiple workers targeting the same directory:
// unique-path probing uses exclusive create, so two racing saves with the
// same base name can never claim the same path.
type Exporter struct {
	outputDir string
	extension string
}

// NewExporter binds an exporter to outputDir, creating it (and parents)
// as needed.
func NewExporter(outputDir, extension string) (*Exporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, &domain.ExportError{Path: outputDir, Cause: fmt.Errorf("cannot create output directory: %w", err)}
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Exporter{outputDir: outputDir, extension: extension}, nil
}

// OutputDir returns the bound output directory.
func (e *Exporter) OutputDir() string { return e.outputDir }

// Save writes content under filename, appending the configured extension
// when absent and resolving collisions by probing name, name_1, name_2, …
// with O_EXCL creates. Returns the path actually written.
func (e *Exporter) Save(content []byte, filename string) (string, error) {
	name := SanitizeFilename(filename)
	if !strings.HasSuffix(strings.ToLower(name), e.extension) {
		name += e.extension
	}

	stem := strings.TrimSuffix(name, e.extension)
	for attempt := 0; ; attempt++ {
		candidate := stem
		if attempt > 0 {
			candidate = stem + "_" + strconv.Itoa(attempt)
		}
		path := filepath.Join(e.outputDir, candidate+e.extension)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", &domain.ExportError{Path: path, Cause: err}
		}

		if _, err := f.Write(content); err != nil {
			_ = f.Close()
			_ = os.Remove(path)
			return "", &domain.ExportError{Path: path, Cause: err}
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return "", &domain.ExportError{Path: path, Cause: err}
		}
		return path, nil
	}
}

// GenerateFilename substitutes {key} markers in pattern from the record's
// fields plus an injected index field (the record's 1-based processing
// order), then sanitizes the result. Markers without a matching field are
// left as-is.
func (e *Exporter) GenerateFilename(pattern string, rec domain.Record, index int) string {
	name := strings.ReplaceAll(pattern, "{index}", strconv.Itoa(index))
	for key, value := range rec {
		name = strings.ReplaceAll(name, "{"+key+"}", value)
	}
	return SanitizeFilename(name)
}

// SanitizeFilename replaces characters that are invalid in filenames with
// underscores, collapses runs of underscores, trims leading and trailing
// underscores and caps the length. An empty result falls back to
// DefaultName. Sanitizing an already-sanitized name is a no-op.
func SanitizeFilename(name string) string {
	sanitized := invalidCharRe.ReplaceAllString(name, "_")
	sanitized = repeatUnderscoreRe.ReplaceAllString(sanitized, "_")
	sanitized = strings.Trim(sanitized, "_")
	if len(sanitized) > maxNameLength {
		sanitized = strings.Trim(sanitized[:maxNameLength], "_")
	}
	if sanitized == "" {
		return DefaultName
	}
	return sanitized
}
