package pipeline

import (
	"sync"
	"time"

	"github.com/dgallion1/semchunk/internal/chunker"
	"github.com/dgallion1/semchunk/internal/document"
)

// JobStatus represents the state of a chunking job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusChunking  JobStatus = "chunking"
	StatusMerging   JobStatus = "merging"
	StatusStoring   JobStatus = "storing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// Job tracks one document's trip through the chunking pipeline. The job id
// doubles as the stored-run key.
type Job struct {
	mu sync.Mutex

	ID       string    `json:"job_id"`
	Document string    `json:"document"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	doc    *document.Extracted
	config chunker.Config
	errors []string
}

// Progress tracks per-phase counts.
type Progress struct {
	TotalPages          int      `json:"total_pages"`
	PagesProcessed      int      `json:"pages_processed"`
	ChunksProduced      int      `json:"chunks_produced"`
	DuplicatesPrevented int      `json:"duplicates_prevented"`
	ValidationFailures  int      `json:"validation_failures"`
	CrossPageMerges     int      `json:"cross_page_merges"`
	Errors              []string `json:"errors"`
}

// NewJob builds a queued job for one extracted document.
func NewJob(doc *document.Extracted, cfg chunker.Config) *Job {
	now := time.Now()
	j := &Job{
		ID:        NewRunID(),
		Document:  doc.Name,
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: now,
		UpdatedAt: now,
		doc:       doc,
		config:    cfg,
	}
	j.Progress.TotalPages = len(doc.Pages)
	return j
}

// Doc returns the job's document.
func (j *Job) Doc() *document.Extracted {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.doc
}

// Config returns the job's chunking configuration.
func (j *Job) Config() chunker.Config {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.config
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records a processing error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrPagesProcessed bumps the processed-page counter.
func (j *Job) IncrPagesProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.PagesProcessed++
	j.UpdatedAt = time.Now()
}

// RecordResult captures the assembled run's headline numbers.
func (j *Job) RecordResult(res *chunker.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksProduced = res.TotalChunks
	j.Progress.DuplicatesPrevented = res.Statistics.Processing.DuplicatesPrevented
	j.Progress.ValidationFailures = res.Statistics.Processing.ValidationFailures
	j.Progress.CrossPageMerges = res.Statistics.Processing.CrossPageMerges
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Document string    `json:"document"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:       j.ID,
		Document: j.Document,
		Status:   j.Status,
		Phase:    j.Phase,
		Progress: p,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}
