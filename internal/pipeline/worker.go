package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/notekit/chartparse/internal/loader"
)

// Worker processes a single note job: load the file into text, then run
// the parse pipeline.
type Worker struct {
	parser *Parser
	stats  *ParseStats
	log    *slog.Logger
}

func NewWorker(parser *Parser, stats *ParseStats, log *slog.Logger) *Worker {
	return &Worker{parser: parser, stats: stats, log: log}
}

// Process runs load and parse for one job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	job.SetStatus(StatusLoading, "loading")
	l, err := loader.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "loading")
		return
	}

	text, err := l.Load(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("load failed", "error", err)
		job.AddError(fmt.Sprintf("load: %s", err))
		job.SetStatus(StatusFailed, "loading")
		return
	}

	// Parse never fails: any problem surfaces as warnings and low
	// confidence in the result itself.
	job.SetStatus(StatusParsing, "parsing")
	start := time.Now()
	parsed := w.parser.Parse(ctx, text)
	w.stats.Record(time.Since(start), WasTruncated(parsed))

	job.SetResult(parsed)
	job.SetStatus(StatusCompleted, "done")
	log.Info("note parsed",
		"sections", parsed.Sections.Len(),
		"confidence", parsed.Confidence,
		"warnings", len(parsed.Warnings),
	)
}
