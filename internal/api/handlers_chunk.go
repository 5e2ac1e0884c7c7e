package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dgallion1/semchunk/internal/chunker"
	"github.com/dgallion1/semchunk/internal/document"
	"github.com/dgallion1/semchunk/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// chunkRequest is the POST /api/chunk body: an extracted document handed
// over inline by the upstream extraction stage, with optional config
// overrides.
type chunkRequest struct {
	Document string      `json:"document"`
	Pages    []pageInput `json:"pages"`

	TargetSize    *int  `json:"target_size,omitempty"`
	MinSize       *int  `json:"min_size,omitempty"`
	MaxSize       *int  `json:"max_size,omitempty"`
	EnableMerging *bool `json:"enable_merging,omitempty"`
}

type pageInput struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Document) == "" {
		jsonError(w, "document is required", http.StatusBadRequest)
		return
	}
	if len(req.Pages) == 0 {
		jsonError(w, "at least one page is required", http.StatusBadRequest)
		return
	}
	for i, p := range req.Pages {
		if p.PageNumber <= 0 {
			jsonError(w, fmt.Sprintf("pages[%d]: page_number must be positive", i), http.StatusBadRequest)
			return
		}
	}

	doc := &document.Extracted{Name: req.Document}
	for _, p := range req.Pages {
		doc.Pages = append(doc.Pages, document.Page{Number: p.PageNumber, Text: p.Text})
	}
	// Pages must arrive at the merger in page order.
	sort.Slice(doc.Pages, func(i, j int) bool { return doc.Pages[i].Number < doc.Pages[j].Number })

	cfg := chunker.Config{
		TargetSize:    s.cfg.TargetSize,
		MinSize:       s.cfg.MinSize,
		MaxSize:       s.cfg.MaxSize,
		EnableMerging: s.cfg.EnableMerging,
	}
	if req.TargetSize != nil && *req.TargetSize > 0 {
		cfg.TargetSize = *req.TargetSize
	}
	if req.MinSize != nil && *req.MinSize > 0 {
		cfg.MinSize = *req.MinSize
	}
	if req.MaxSize != nil && *req.MaxSize > 0 {
		cfg.MaxSize = *req.MaxSize
	}
	if req.EnableMerging != nil {
		cfg.EnableMerging = *req.EnableMerging
	}

	job := pipeline.NewJob(doc, cfg)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"document": job.Document,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/chunk/%s/status", job.ID),
	})
}

func (s *Server) handleChunkStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"document": snap.Document,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
