package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := Default()

	assert.Equal(t, 5000, d.MaxRows)
	assert.Equal(t, 4, d.Workers)
	assert.Equal(t, "document_{index}", d.FilenamePattern)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	BindDefaults(v)
	v.Set("workers", 8)
	v.Set("filename_pattern", "contract_{name}")

	s := FromViper(v)

	assert.Equal(t, 8, s.Workers)
	assert.Equal(t, "contract_{name}", s.FilenamePattern)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5000, s.MaxRows)
	assert.Equal(t, "docmerge.log", s.LogFile)
}

func TestLoadJobFromReader(t *testing.T) {
	yaml := `
data: clients.xlsx
template: contract.docx
output: out/contracts
pattern: contract_{name}_{index}
workers: 2
filter: amount != ""
`

	job, err := LoadJobFromReader(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, "clients.xlsx", job.Data)
	assert.Equal(t, "contract.docx", job.Template)
	assert.Equal(t, "out/contracts", job.Output)
	assert.Equal(t, "contract_{name}_{index}", job.Pattern)
	assert.Equal(t, 2, job.Workers)
	assert.Equal(t, `amount != ""`, job.Filter)
}

func TestLoadJobFromReaderRejectsUnknownFields(t *testing.T) {
	yaml := `
data: clients.xlsx
template: contract.docx
outptu: typo-here
`

	_, err := LoadJobFromReader(strings.NewReader(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse job YAML")
}

func TestLoadJobMissingFile(t *testing.T) {
	_, err := LoadJob(t.TempDir() + "/missing.yaml")
	require.Error(t, err)
}
