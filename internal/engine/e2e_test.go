package engine

import (
	"archive/zip"
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docmerge-dev/docmerge/internal/domain"
	"github.com/docmerge-dev/docmerge/internal/export"
	"github.com/docmerge-dev/docmerge/internal/loader"
	"github.com/docmerge-dev/docmerge/internal/template"
	"github.com/docmerge-dev/docmerge/internal/validate"
)

// writeXLSX builds a workbook from rows in a temp dir.
func writeXLSX(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

// writeDOCX builds a single-paragraph-per-line template document.
func writeDOCX(t *testing.T, lines ...string) string {
	t.Helper()

	var body bytes.Buffer
	for _, line := range lines {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(line)
		body.WriteString(`</w:t></w:r></w:p>`)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	doc, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write([]byte(
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			`<w:body>` + body.String() + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func newRealGenerator(opts Options) *Generator {
	opts.Loader = loader.NewExcelLoader()
	opts.Validator = validate.NewDataValidator(0)
	opts.NewTemplate = func(path string) (Template, error) {
		return template.NewDocx(path)
	}
	opts.NewExporter = func(dir string) (Exporter, error) {
		return export.NewExporter(dir, ".docx")
	}
	opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewGenerator(opts)
}

func TestEndToEndBlankCellWarnsButSucceeds(t *testing.T) {
	dataPath := writeXLSX(t, [][]any{
		{"name", "amount"},
		{"Alice", "100"},
		{"Bob", ""},
		{"Carol", "300"},
	})
	templatePath := writeDOCX(t, "Dear {{ name }}, you owe {{ amount }}.")
	outDir := filepath.Join(t.TempDir(), "out")

	gen := newRealGenerator(Options{FilenamePattern: "letter_{name}"})

	result, err := gen.Generate(context.Background(), dataPath, templatePath, outDir, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 0, result.ErrorCount)
	assert.True(t, result.IsComplete())

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t,
		[]string{"letter_Alice.docx", "letter_Bob.docx", "letter_Carol.docx"}, names)
}

func TestEndToEndMissingColumnAbortsBeforeAnyWrite(t *testing.T) {
	dataPath := writeXLSX(t, [][]any{
		{"name", "amount"},
		{"Alice", "100"},
	})
	templatePath := writeDOCX(t, "{{ name }} lives in {{ city_district }}.")
	outDir := filepath.Join(t.TempDir(), "out")

	gen := newRealGenerator(Options{})

	_, err := gen.Generate(context.Background(), dataPath, templatePath, outDir, nil)

	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, err.Error(), "city_district")

	// Validation fails before the exporter ever touches the directory.
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestEndToEndDerivedAmountWords(t *testing.T) {
	dataPath := writeXLSX(t, [][]any{
		{"name", "amount"},
		{"Alice", "1250.75"},
	})
	templatePath := writeDOCX(t, "Amount: {{ amount }} ({{ amount_words }})")
	outDir := filepath.Join(t.TempDir(), "out")

	gen := newRealGenerator(Options{FilenamePattern: "invoice_{index}"})

	result, err := gen.Generate(context.Background(), dataPath, templatePath, outDir, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.SuccessCount)

	rendered, err := os.ReadFile(filepath.Join(outDir, "invoice_1.docx"))
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(rendered), int64(len(rendered)))
	require.NoError(t, err)
	for _, file := range r.File {
		if file.Name != "word/document.xml" {
			continue
		}
		fr, err := file.Open()
		require.NoError(t, err)
		content := new(bytes.Buffer)
		_, err = content.ReadFrom(fr)
		require.NoError(t, err)
		require.NoError(t, fr.Close())
		assert.Contains(t, content.String(),
			"one thousand two hundred fifty and 75/100")
	}
}
