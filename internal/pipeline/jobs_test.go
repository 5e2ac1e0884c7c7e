package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/semchunk/internal/chunker"
	"github.com/dgallion1/semchunk/internal/document"
)

func testDoc(pages int) *document.Extracted {
	doc := &document.Extracted{Name: "report.pdf"}
	for i := 1; i <= pages; i++ {
		doc.Pages = append(doc.Pages, document.Page{Number: i, Text: "Some text."})
	}
	return doc
}

func TestNewJob_InitialState(t *testing.T) {
	job := NewJob(testDoc(3), chunker.DefaultConfig())

	if job.ID == "" {
		t.Fatal("expected non-empty job id")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if job.Document != "report.pdf" {
		t.Errorf("expected document %q, got %q", "report.pdf", job.Document)
	}
	if job.Progress.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", job.Progress.TotalPages)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob(testDoc(1), chunker.DefaultConfig())

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusChunking, "chunking pages"},
		{StatusMerging, "merging page boundaries"},
		{StatusStoring, "storing run"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob(testDoc(1), chunker.DefaultConfig())
	job.AddError("page 3 failed")
	job.AddError("page 7 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "page 3 failed" {
		t.Errorf("expected first error %q, got %q", "page 3 failed", snap.Progress.Errors[0])
	}
}

func TestJob_IncrPagesProcessed(t *testing.T) {
	job := NewJob(testDoc(3), chunker.DefaultConfig())
	job.IncrPagesProcessed()
	job.IncrPagesProcessed()
	job.IncrPagesProcessed()

	snap := job.Snapshot()
	if snap.Progress.PagesProcessed != 3 {
		t.Errorf("expected 3 pages processed, got %d", snap.Progress.PagesProcessed)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return a non-nil errors slice.
	job := NewJob(testDoc(1), chunker.DefaultConfig())
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob(testDoc(1), chunker.DefaultConfig())
	store.Put(job)

	got := store.Get(job.ID)
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != job.ID {
		t.Errorf("expected ID %q, got %q", job.ID, got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob(testDoc(1), chunker.DefaultConfig())
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob(testDoc(1), chunker.DefaultConfig())
	store.Put(fresh)

	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestNewRunID_UniqueAndSorted(t *testing.T) {
	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 100; i++ {
		id := NewRunID()
		if len(id) != 26 {
			t.Fatalf("expected 26-char ULID, got %d chars: %q", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate ULID generated: %q", id)
		}
		seen[id] = true
		if prev != "" && id <= prev {
			// Same-millisecond ids are ordered by the embedded sequence.
			t.Fatalf("ULIDs not monotonic: %q after %q", id, prev)
		}
		prev = id
	}
}
