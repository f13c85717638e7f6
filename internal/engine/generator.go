package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/expr-lang/expr/vm"
	"github.com/google/uuid"

	"github.com/docmerge-dev/docmerge/internal/domain"
	"github.com/docmerge-dev/docmerge/internal/progress"
)

// DefaultWorkers is the render pool width when none is configured.
const DefaultWorkers = 4

// DefaultFilenamePattern names output files by processing order.
const DefaultFilenamePattern = "document_{index}"

// Progress checkpoints on the logical 0-100 scale. Loading, template
// analysis and validation cover the first 20 points; the export phase
// spans the remaining 80 linearly over processed records.
const (
	progressLoading   = 5
	progressAnalyzing = 10
	progressValidated = 15
	progressExporting = 20
)

// Options configures a Generator. Zero-value fields fall back to
// defaults; Loader, Validator, NewTemplate and NewExporter are required.
type Options struct {
	Loader      Loader
	Validator   Validator
	NewTemplate TemplateFactory
	NewExporter ExporterFactory
	Logger      *slog.Logger

	Workers         int
	FilenamePattern string
	Filter          *vm.Program
}

// Generator orchestrates one generation run at a time: load, analyze,
// validate, then render-and-save every record on a bounded worker pool
// with progress reporting and cooperative cancellation.
type Generator struct {
	loader      Loader
	validator   Validator
	newTemplate TemplateFactory
	newExporter ExporterFactory
	logger      *slog.Logger

	workers int
	pattern string
	filter  *vm.Program

	cancelled atomic.Bool
}

// NewGenerator builds a generator from opts.
func NewGenerator(opts Options) *Generator {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	pattern := opts.FilenamePattern
	if pattern == "" {
		pattern = DefaultFilenamePattern
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		loader:      opts.Loader,
		validator:   opts.Validator,
		newTemplate: opts.NewTemplate,
		newExporter: opts.NewExporter,
		logger:      logger,
		workers:     workers,
		pattern:     pattern,
		filter:      opts.Filter,
	}
}

// Cancel requests cooperative cancellation: no further records are
// dispatched or counted, while already-running renders finish naturally
// so no partially-written file is left behind.
func (g *Generator) Cancel() {
	g.cancelled.Store(true)
	g.logger.Info("generation cancelled by user")
}

// Cancelled reports whether cancellation has been requested.
func (g *Generator) Cancelled() bool { return g.cancelled.Load() }

// Generate runs the whole pipeline. Failures before any rendering begins
// (load, template analysis, validation, output directory creation) abort
// the run with no output; per-record failures are isolated, counted and
// attached to the result in completion order. Every failure surfaces as a
// *domain.GenerationError.
func (g *Generator) Generate(
	ctx context.Context,
	dataPath, templatePath, outputDir string,
	observer progress.Observer,
) (result *domain.GenerationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("unexpected failure", "panic", r)
			result = nil
			err = &domain.GenerationError{Message: fmt.Sprintf("unexpected failure: %v", r)}
		}
	}()

	g.cancelled.Store(false)
	runID := uuid.NewString()
	tracker := progress.NewTracker(observer)

	logger := g.logger.With("run_id", runID)
	logger.Info("starting generation",
		"data", dataPath, "template", templatePath, "output", outputDir)

	tracker.SetTotal(100)
	tracker.SetProgress(progressLoading, "Loading data...")

	records, err := g.loader.Load(dataPath)
	if err != nil {
		logger.Error("data load failed", "error", err)
		return nil, domain.NewGenerationError(err)
	}
	logger.Info("data loaded", "rows", len(records))

	records, err = filterRecords(records, g.filter)
	if err != nil {
		logger.Error("record filter failed", "error", err)
		return nil, domain.NewGenerationError(err)
	}
	if g.filter != nil {
		logger.Info("records filtered", "rows", len(records))
	}

	tracker.SetProgress(progressAnalyzing, "Analyzing template...")

	tmpl, err := g.newTemplate(templatePath)
	if err != nil {
		logger.Error("template open failed", "error", err)
		return nil, domain.NewGenerationError(err)
	}
	templateVars, err := tmpl.Variables()
	if err != nil {
		logger.Error("template analysis failed", "error", err)
		return nil, domain.NewGenerationError(err)
	}
	logger.Info("template analyzed", "variables", len(templateVars))

	tracker.SetProgress(progressValidated, "Validating data...")

	validation := g.validator.Validate(records, templateVars)
	for _, warning := range validation.Warnings {
		logger.Warn(warning)
	}
	if !validation.Valid {
		for _, msg := range validation.Errors {
			logger.Error(msg)
		}
		return nil, &domain.GenerationError{Message: strings.Join(validation.Errors, "\n")}
	}

	exporter, err := g.newExporter(outputDir)
	if err != nil {
		logger.Error("output directory setup failed", "error", err)
		return nil, domain.NewGenerationError(err)
	}

	tracker.SetProgress(progressExporting, "Generating documents...")

	res := g.renderAll(ctx, logger, tracker, tmpl, exporter, records)
	res.RunID = runID

	tracker.Complete(res.Summary())
	logger.Info("generation finished",
		"success", res.SuccessCount, "errors", res.ErrorCount, "cancelled", res.Cancelled)
	return res, nil
}
