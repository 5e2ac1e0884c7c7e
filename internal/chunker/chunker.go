package chunker

import (
	"log/slog"

	"github.com/dgallion1/semchunk/internal/document"
	"github.com/dgallion1/semchunk/internal/stats"
)

// Config controls chunking behavior. These are the only tunables; each
// invocation is parameterized explicitly.
type Config struct {
	TargetSize    int  `json:"target_size"`
	MinSize       int  `json:"min_size"`
	MaxSize       int  `json:"max_size"`
	EnableMerging bool `json:"merging_enabled"`
}

// DefaultConfig returns the standard chunk size bounds.
func DefaultConfig() Config {
	return Config{
		TargetSize:    1500,
		MinSize:       800,
		MaxSize:       2500,
		EnableMerging: true,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TargetSize <= 0 {
		c.TargetSize = d.TargetSize
	}
	if c.MinSize <= 0 {
		c.MinSize = d.MinSize
	}
	if c.MaxSize <= 0 {
		c.MaxSize = d.MaxSize
	}
	return c
}

// PageCounters tracks per-page validation outcomes.
type PageCounters struct {
	DuplicatesPrevented int
	ValidationFailures  int
}

// PageResult is the outcome of chunking one page.
type PageResult struct {
	Chunks   []document.Chunk
	Counters PageCounters
}

// Result is the self-contained output document for one chunking run.
type Result struct {
	Document    string           `json:"document"`
	TotalChunks int              `json:"total_chunks"`
	Config      Config           `json:"chunking_config"`
	Statistics  stats.Detailed   `json:"detailed_statistics"`
	Chunks      []document.Chunk `json:"chunks"`
}

// Engine runs the chunking pipeline: detector, section parser, paragraph
// consolidator, accumulator, validator, and the cross-page merger. It holds
// no mutable state between calls; pages may be chunked concurrently and the
// merge pass serializes on page order.
type Engine struct {
	cfg Config
	log *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{cfg: cfg.withDefaults(), log: log}
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config { return e.cfg }

// ChunkPage runs the full single-page pipeline and returns the accepted
// chunks in document order.
func (e *Engine) ChunkPage(source string, page document.Page) PageResult {
	regions := DetectProtectedRegions(page.Text)
	sections := ParseSections(page.Text, regions)
	consolidated := ConsolidateParagraphs(sections)
	drafts := AccumulateChunks(consolidated, e.cfg, source, page.Number)

	v := NewValidator(e.cfg, e.log)
	accepted := make([]document.Chunk, 0, len(drafts))
	for _, d := range drafts {
		if v.Accept(d) {
			accepted = append(accepted, d)
		}
	}

	return PageResult{
		Chunks: accepted,
		Counters: PageCounters{
			DuplicatesPrevented: v.DuplicatesPrevented(),
			ValidationFailures:  v.ValidationFailures(),
		},
	}
}

// ChunkDocument chunks every page sequentially, applies the cross-page
// merge pass, and assembles the output document.
func (e *Engine) ChunkDocument(doc *document.Extracted) *Result {
	perPage := make([][]document.Chunk, len(doc.Pages))
	var counters stats.Counters

	for i, page := range doc.Pages {
		r := e.ChunkPage(doc.Name, page)
		perPage[i] = r.Chunks
		counters.DuplicatesPrevented += r.Counters.DuplicatesPrevented
		counters.ValidationFailures += r.Counters.ValidationFailures
	}

	return e.Assemble(doc, perPage, counters)
}

// Assemble runs the serialized cross-page merge over completed per-page
// chunk lists and builds the final result. It is the join point for
// callers that chunk pages in parallel.
func (e *Engine) Assemble(doc *document.Extracted, perPage [][]document.Chunk, counters stats.Counters) *Result {
	if e.cfg.EnableMerging {
		counters.CrossPageMerges = MergeAcrossPages(doc.Pages, perPage, doc.Name)
	}

	var chunks []document.Chunk
	for _, pc := range perPage {
		chunks = append(chunks, pc...)
	}

	return &Result{
		Document:    doc.Name,
		TotalChunks: len(chunks),
		Config:      e.cfg,
		Statistics:  stats.Compute(chunks, counters),
		Chunks:      chunks,
	}
}
