package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/semchunk/internal/chunker"
	"github.com/dgallion1/semchunk/internal/document"
	"github.com/dgallion1/semchunk/internal/stats"
	"github.com/dgallion1/semchunk/internal/store"
)

// Worker processes a single chunking job: pages chunked with bounded
// concurrency, then the cross-page merge serialized on page order, then
// persistence.
type Worker struct {
	store *store.Store
	log   *slog.Logger

	maxConcurrentPages int
}

func NewWorker(st *store.Store, log *slog.Logger, maxPages int) *Worker {
	if maxPages <= 0 {
		maxPages = 4
	}
	return &Worker{
		store:              st,
		log:                log,
		maxConcurrentPages: maxPages,
	}
}

// Process runs the full pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "document", job.Document)

	doc := job.Doc()
	if doc == nil || len(doc.Pages) == 0 {
		log.Error("job has no pages")
		job.AddError("no pages to process")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	eng := chunker.New(job.Config(), w.log)

	// Phase 1: chunk pages independently with bounded concurrency. Each
	// page is a pure transform over already-resident text.
	job.SetStatus(StatusChunking, "chunking")

	type pageResult struct {
		idx int
		res chunker.PageResult
	}
	results := make(chan pageResult, len(doc.Pages))
	sem := make(chan struct{}, w.maxConcurrentPages)

	for i, page := range doc.Pages {
		sem <- struct{}{}
		go func(i int, page document.Page) {
			defer func() { <-sem }()
			results <- pageResult{idx: i, res: eng.ChunkPage(doc.Name, page)}
		}(i, page)
	}

	perPage := make([][]document.Chunk, len(doc.Pages))
	var counters stats.Counters
	for range doc.Pages {
		r := <-results
		perPage[r.idx] = r.res.Chunks
		counters.DuplicatesPrevented += r.res.Counters.DuplicatesPrevented
		counters.ValidationFailures += r.res.Counters.ValidationFailures
		job.IncrPagesProcessed()
	}

	// Phase 2: cross-page merge needs completed neighbor lists, so it runs
	// serially in page order inside Assemble.
	job.SetStatus(StatusMerging, "merging")
	res := eng.Assemble(doc, perPage, counters)
	job.RecordResult(res)
	log.Info("chunking complete",
		"chunks", res.TotalChunks,
		"duplicates_prevented", res.Statistics.Processing.DuplicatesPrevented,
		"validation_failures", res.Statistics.Processing.ValidationFailures,
		"cross_page_merges", res.Statistics.Processing.CrossPageMerges,
	)

	if res.TotalChunks == 0 {
		log.Warn("no chunks produced")
		job.AddError("no chunkable content")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	// Phase 3: persist the run.
	job.SetStatus(StatusStoring, "storing")
	if err := w.store.SaveRun(ctx, job.ID, res); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusPartial, "storing")
		return
	}

	job.SetStatus(StatusCompleted, "done")
}
