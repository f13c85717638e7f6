package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Job is a saved generation request: the three paths plus per-run
// overrides. Anything left empty falls back to flags, settings or
// interactive prompts.
type Job struct {
	Data     string `yaml:"data"`
	Template string `yaml:"template"`
	Output   string `yaml:"output"`
	Pattern  string `yaml:"pattern,omitempty"`
	Workers  int    `yaml:"workers,omitempty"`
	Filter   string `yaml:"filter,omitempty"`
}

// LoadJob loads a job file from disk.
func LoadJob(path string) (*Job, error) {
	// Resolve through os.Root so a job file cannot point the open
	// outside its own directory.
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open job directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(base)
	if err != nil {
		return nil, fmt.Errorf("failed to open job file: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	return LoadJobFromReader(file)
}

// LoadJobFromReader parses a job from YAML. Useful for in-memory tests.
func LoadJobFromReader(r io.Reader) (*Job, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	var job Job
	if err := yaml.UnmarshalWithOptions(data, &job, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse job YAML: %w", err)
	}
	return &job, nil
}
