package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/charmbracelet/huh"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cobra"

	"github.com/docmerge-dev/docmerge/internal/config"
	"github.com/docmerge-dev/docmerge/internal/domain"
	"github.com/docmerge-dev/docmerge/internal/engine"
	"github.com/docmerge-dev/docmerge/internal/export"
	"github.com/docmerge-dev/docmerge/internal/loader"
	"github.com/docmerge-dev/docmerge/internal/output"
	"github.com/docmerge-dev/docmerge/internal/progress"
	"github.com/docmerge-dev/docmerge/internal/template"
	"github.com/docmerge-dev/docmerge/internal/validate"
)

var (
	dataPath      string
	templatePath  string
	outputDir     string
	pattern       string
	workers       int
	filterExpr    string
	format        string
	jobFile       string
	noInteractive bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one document per spreadsheet row",
	Long: `Load records from a spreadsheet, validate them against the template's
placeholders, and render one document per row into the output directory.

The filename pattern may reference spreadsheet columns plus the row's
processing order:
  --pattern "contract_{name}_{index}"

Rows can be filtered with an expression over column values:
  --filter 'amount != "" && city == "Riga"'`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runGenerate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&dataPath, "data", "", "spreadsheet file with one record per row (.xlsx)")
	generateCmd.Flags().StringVar(&templatePath, "template", "", "DOCX template with {{ name }} placeholders")
	generateCmd.Flags().StringVarP(&outputDir, "out", "o", "", "output directory (created if absent)")
	generateCmd.Flags().StringVar(&pattern, "pattern", "", "output filename pattern")
	generateCmd.Flags().IntVar(&workers, "workers", 0, "render worker count")
	generateCmd.Flags().StringVar(&filterExpr, "filter", "", "record filter expression")
	generateCmd.Flags().StringVar(&format, "format", "text", "summary format: text, json, yaml")
	generateCmd.Flags().StringVar(&jobFile, "job", "", "job file with saved paths and options")
	generateCmd.Flags().BoolVar(&noInteractive, "no-interactive", false, "never prompt for missing paths")
}

// runGenerate implements the core logic for the generate command.
func runGenerate(ctx context.Context) error {
	if jobFile != "" {
		job, err := config.LoadJob(jobFile)
		if err != nil {
			return err
		}
		applyJob(job)
	}
	applySettingsDefaults()

	if err := promptForMissingPaths(); err != nil {
		return err
	}
	if dataPath == "" || templatePath == "" {
		return fmt.Errorf("both --data and --template are required")
	}

	var program *vm.Program
	if filterExpr != "" {
		var err error
		program, err = engine.CompileFilter(filterExpr)
		if err != nil {
			return err
		}
	}

	gen := engine.NewGenerator(engine.Options{
		Loader:          loader.NewExcelLoader(),
		Validator:       validate.NewDataValidator(settings.MaxRows),
		NewTemplate:     func(path string) (engine.Template, error) { return template.NewDocx(path) },
		NewExporter:     func(dir string) (engine.Exporter, error) { return export.NewExporter(dir, ".docx") },
		Logger:          slog.Default(),
		Workers:         workers,
		FilenamePattern: pattern,
		Filter:          program,
	})

	// Ctrl-C flips the cooperative cancellation flag; running renders
	// finish naturally so no half-written document is left behind.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	result, err := gen.Generate(ctx, dataPath, templatePath, outputDir, consoleProgress)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	if err := formatResult(result, format); err != nil {
		return fmt.Errorf("failed to format result: %w", err)
	}

	if result.ErrorCount > 0 {
		return fmt.Errorf("generation finished with %d failed rows", result.ErrorCount)
	}
	return nil
}

// applyJob fills unset flags from the job file; explicit flags win.
func applyJob(job *config.Job) {
	if dataPath == "" {
		dataPath = job.Data
	}
	if templatePath == "" {
		templatePath = job.Template
	}
	if outputDir == "" {
		outputDir = job.Output
	}
	if pattern == "" {
		pattern = job.Pattern
	}
	if workers == 0 {
		workers = job.Workers
	}
	if filterExpr == "" {
		filterExpr = job.Filter
	}
}

func applySettingsDefaults() {
	if outputDir == "" {
		outputDir = settings.OutputDir
	}
	if pattern == "" {
		pattern = settings.FilenamePattern
	}
	if workers == 0 {
		workers = settings.Workers
	}
}

// promptForMissingPaths asks for any path the flags and job file left
// empty, mirroring the original file-picker dialogs.
func promptForMissingPaths() error {
	if noInteractive {
		return nil
	}

	if dataPath == "" {
		if err := huh.NewInput().
			Title("Spreadsheet file (.xlsx)").
			Value(&dataPath).
			Run(); err != nil {
			return err
		}
	}

	if templatePath == "" {
		if err := huh.NewInput().
			Title("Template file (.docx)").
			Value(&templatePath).
			Run(); err != nil {
			return err
		}
	}

	return nil
}

// consoleProgress redraws a single progress line on stderr. It runs on
// the generator's coordinating goroutine and never blocks.
func consoleProgress(e progress.Event) {
	fmt.Fprintf(os.Stderr, "\r[%3.0f%%] %-40s", e.Percentage(), e.Message)
}

// formatResult writes the run summary in the requested format.
func formatResult(result *domain.GenerationResult, format string) error {
	switch format {
	case "text":
		return output.NewTextFormatter(os.Stdout).Format(result)
	case "json":
		return output.NewJSONFormatter(os.Stdout, true).Format(result)
	case "yaml":
		return output.NewYAMLFormatter(os.Stdout).Format(result)
	default:
		return fmt.Errorf("unknown format: %s (supported: text, json, yaml)", format)
	}
}
