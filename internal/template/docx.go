// Package template renders DOCX templates containing {{ name }} style
// placeholders from tabular records.
package template

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/docmerge-dev/docmerge/internal/domain"
)

// Parts of the archive that may carry placeholder text. Everything else
// (styles, media, relationships) is copied through untouched.
var templatePartRe = regexp.MustCompile(`^word/(document|header\d+|footer\d+)\.xml$`)

var (
	paragraphRe   = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	runTextRe     = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?(?:/>|>.*?</w:t>)`)
	placeholderRe = regexp.MustCompile(`\{\{([^{}]*)\}\}`)
	nameRe        = regexp.MustCompile(`^[^\s{}]+$`)
)

// Docx wraps one template document. Variable discovery is computed once
// and cached; Render is reentrant because each call re-reads the source
// archive and keeps all mutable state on its own stack.
type Docx struct {
	path string

	varsOnce sync.Once
	vars     map[string]struct{}
	varsErr  error
}

// NewDocx opens a template, failing when the file is missing or is not a
// .docx document.
func NewDocx(path string) (*Docx, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &domain.TemplateError{Path: path, Message: "template file not found", Cause: err}
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".docx" {
		return nil, &domain.TemplateError{
			Path:    path,
			Message: fmt.Sprintf("unsupported template format %q, only .docx is supported", ext),
		}
	}
	return &Docx{path: path}, nil
}

// Path returns the template's file path.
func (d *Docx) Path() string { return d.path }

// Variables returns the set of placeholder names referenced anywhere in
// the document body, headers or footers. The scan runs once; later calls
// return the cached set.
func (d *Docx) Variables() (map[string]struct{}, error) {
	d.varsOnce.Do(func() {
		d.vars, d.varsErr = d.extractVariables()
	})
	return d.vars, d.varsErr
}

// VariableNames returns the discovered placeholder names sorted ascending.
func (d *Docx) VariableNames() ([]string, error) {
	vars, err := d.Variables()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Render substitutes the record's fields into every placeholder and
// returns the finished document's bytes. Monetary-looking values gain a
// derived <field>_words sibling before substitution; the caller's record
// is never mutated.
func (d *Docx) Render(rec domain.Record) ([]byte, error) {
	data := withDerivedFields(rec)

	reader, err := zip.OpenReader(d.path)
	if err != nil {
		return nil, &domain.TemplateError{Path: d.path, Message: "cannot open document archive", Cause: err}
	}
	defer func() {
		_ = reader.Close() // Best-effort cleanup
	}()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	for _, file := range reader.File {
		content, err := readPart(file)
		if err != nil {
			return nil, &domain.TemplateError{Path: d.path, Message: "cannot read " + file.Name, Cause: err}
		}

		if templatePartRe.MatchString(file.Name) {
			rendered, err := renderPart(string(content), data)
			if err != nil {
				return nil, &domain.TemplateError{Path: d.path, Cause: err,
					Message: fmt.Sprintf("rendering %s failed: %v", file.Name, err)}
			}
			content = []byte(rendered)
		}

		w, err := writer.CreateHeader(&zip.FileHeader{Name: file.Name, Method: zip.Deflate})
		if err != nil {
			return nil, &domain.TemplateError{Path: d.path, Message: "cannot write " + file.Name, Cause: err}
		}
		if _, err := w.Write(content); err != nil {
			return nil, &domain.TemplateError{Path: d.path, Message: "cannot write " + file.Name, Cause: err}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, &domain.TemplateError{Path: d.path, Message: "cannot finalize document", Cause: err}
	}
	return buf.Bytes(), nil
}

func (d *Docx) extractVariables() (map[string]struct{}, error) {
	reader, err := zip.OpenReader(d.path)
	if err != nil {
		return nil, &domain.TemplateError{Path: d.path, Message: "cannot open document archive", Cause: err}
	}
	defer func() {
		_ = reader.Close() // Best-effort cleanup
	}()

	vars := make(map[string]struct{})
	for _, file := range reader.File {
		if !templatePartRe.MatchString(file.Name) {
			continue
		}
		content, err := readPart(file)
		if err != nil {
			return nil, &domain.TemplateError{Path: d.path, Message: "cannot read " + file.Name, Cause: err}
		}
		if err := collectVariables(string(content), vars); err != nil {
			return nil, &domain.TemplateError{Path: d.path, Message: err.Error(), Cause: err}
		}
	}
	return vars, nil
}

// collectVariables scans every paragraph of one XML part and records the
// placeholder names it finds, validating the syntax along the way.
func collectVariables(part string, vars map[string]struct{}) error {
	for _, para := range paragraphRe.FindAllString(part, -1) {
		text := paragraphText(para)
		names, err := placeholderNames(text)
		if err != nil {
			return err
		}
		for _, name := range names {
			vars[name] = struct{}{}
		}
	}
	return nil
}

// placeholderNames extracts and validates placeholder names from the
// merged text of one paragraph.
func placeholderNames(text string) ([]string, error) {
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if nameRe.MatchString(name) {
			names = append(names, name)
			continue
		}
		if strings.ContainsAny(name, " \t") {
			return nil, fmt.Errorf(
				"placeholder name %q contains whitespace; "+
					"use underscores instead, e.g. {{ %s }}",
				name, strings.Join(strings.Fields(name), "_"))
		}
		return nil, fmt.Errorf("invalid placeholder syntax near %q", m[0])
	}

	// Anything left after removing well-formed placeholders means an
	// unbalanced or nested marker.
	leftover := placeholderRe.ReplaceAllString(text, "")
	if strings.Contains(leftover, "{{") || strings.Contains(leftover, "}}") {
		return nil, fmt.Errorf("unbalanced placeholder markers in %q", text)
	}
	return names, nil
}

// renderPart substitutes placeholders in every paragraph of one XML part.
// Runs within a paragraph are merged before matching, so a placeholder
// split across formatting runs is still resolved; the merged result lands
// in the paragraph's first text run.
func renderPart(part string, data domain.Record) (string, error) {
	var renderErr error
	out := paragraphRe.ReplaceAllStringFunc(part, func(para string) string {
		if renderErr != nil {
			return para
		}
		text := paragraphText(para)
		if !strings.Contains(text, "{{") && !strings.Contains(text, "}}") {
			return para
		}

		substituted, err := substitute(text, data)
		if err != nil {
			renderErr = err
			return para
		}
		return rewriteParagraph(para, substituted)
	})
	if renderErr != nil {
		return "", renderErr
	}
	return out, nil
}

// substitute resolves each placeholder in the merged paragraph text.
func substitute(text string, data domain.Record) (string, error) {
	names, err := placeholderNames(text)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if _, ok := data[name]; !ok {
			return "", fmt.Errorf("no value for placeholder %q", name)
		}
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		name := strings.TrimSpace(placeholderRe.FindStringSubmatch(m)[1])
		return data[name]
	}), nil
}

// paragraphText joins the unescaped content of every text run.
func paragraphText(para string) string {
	var sb strings.Builder
	for _, t := range runTextRe.FindAllString(para, -1) {
		sb.WriteString(runContent(t))
	}
	return sb.String()
}

// rewriteParagraph puts text into the paragraph's first text run and
// empties the rest, preserving the first run's formatting.
func rewriteParagraph(para, text string) string {
	first := true
	return runTextRe.ReplaceAllStringFunc(para, func(string) string {
		if first {
			first = false
			return `<w:t xml:space="preserve">` + escapeXML(text) + `</w:t>`
		}
		return `<w:t xml:space="preserve"></w:t>`
	})
}

// runContent strips the <w:t> wrapper and unescapes the enclosed text.
func runContent(t string) string {
	if strings.HasSuffix(t, "/>") {
		return ""
	}
	open := strings.Index(t, ">")
	closing := strings.LastIndex(t, "</w:t>")
	if open < 0 || closing < 0 || closing < open {
		return ""
	}
	return unescapeXML(t[open+1 : closing])
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

var xmlUnescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

func escapeXML(s string) string   { return xmlEscaper.Replace(s) }
func unescapeXML(s string) string { return xmlUnescaper.Replace(s) }

func readPart(file *zip.File) ([]byte, error) {
	r, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close() // Best-effort cleanup
	}()
	return io.ReadAll(r)
}
