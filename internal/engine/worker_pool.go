package engine

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/docmerge-dev/docmerge/internal/domain"
	"github.com/docmerge-dev/docmerge/internal/progress"
)

// renderJob is one record queued for rendering. Index is the record's
// 1-based processing order, injected into the filename pattern.
type renderJob struct {
	index  int
	record domain.Record
}

// renderResult is one completed task, delivered in completion order.
type renderResult struct {
	index int
	path  string
	err   error
}

// renderAll fans the records out across the worker pool and aggregates
// results as they complete. The coordinator (this goroutine) owns all
// counters; workers are stateless and only send over the results channel.
//
// Cancellation is checked before each submission and before each result
// is consumed. Once set, no new work is dispatched; running renders
// finish naturally and their results are drained uncounted.
func (g *Generator) renderAll(
	ctx context.Context,
	logger *slog.Logger,
	tracker *progress.Tracker,
	tmpl Template,
	exporter Exporter,
	records []domain.Record,
) *domain.GenerationResult {
	total := len(records)

	jobs := make(chan renderJob, g.workers)
	// Buffered to the record count so a worker never blocks delivering a
	// result after the coordinator stops consuming.
	results := make(chan renderResult, total)

	var group errgroup.Group
	for w := 0; w < g.workers; w++ {
		group.Go(func() error {
			for job := range jobs {
				results <- g.processRecord(tmpl, exporter, job)
			}
			return nil
		})
	}

	go func() {
		defer close(jobs)
		for i, rec := range records {
			if g.cancelled.Load() || ctx.Err() != nil {
				return
			}
			jobs <- renderJob{index: i + 1, record: rec}
		}
	}()

	go func() {
		_ = group.Wait()
		close(results)
	}()

	res := &domain.GenerationResult{
		TotalCount: total,
		OutputDir:  exporter.OutputDir(),
	}

	for r := range results {
		if g.cancelled.Load() || ctx.Err() != nil {
			break
		}

		if r.err != nil {
			res.ErrorCount++
			msg := fmt.Sprintf("row %d: %v", r.index, r.err)
			res.Errors = append(res.Errors, msg)
			logger.Error("record failed", "row", r.index, "error", r.err)
		} else {
			res.SuccessCount++
			logger.Debug("record saved", "row", r.index, "path", r.path)
		}

		processed := res.SuccessCount + res.ErrorCount
		percent := progressExporting + processed*(100-progressExporting)/total
		tracker.SetProgress(percent, fmt.Sprintf("Processed %d of %d...", processed, total))
	}

	res.Cancelled = g.cancelled.Load() || ctx.Err() != nil
	return res
}

// processRecord is the per-record task boundary: render, name, save. Any
// failure (including a panic inside rendering) is converted to an error
// result so one bad record never aborts the run.
func (g *Generator) processRecord(tmpl Template, exporter Exporter, job renderJob) (result renderResult) {
	result.index = job.index
	defer func() {
		if r := recover(); r != nil {
			result.err = fmt.Errorf("render panicked: %v", r)
		}
	}()

	content, err := tmpl.Render(job.record)
	if err != nil {
		result.err = err
		return result
	}

	filename := exporter.GenerateFilename(g.pattern, job.record, job.index)
	path, err := exporter.Save(content, filename)
	if err != nil {
		result.err = err
		return result
	}

	result.path = path
	return result
}
