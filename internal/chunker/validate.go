package chunker

import (
	"log/slog"
	"strings"

	"github.com/dgallion1/semchunk/internal/document"
)

// DedupWindow is how many recently accepted chunks a new draft is compared
// against. Duplicates from overlapping detector patterns occur locally, so
// a small trailing window catches them without a global index.
const DedupWindow = 5

// Validator gatekeeps chunk drafts: hard failures discard the draft,
// content-hash duplicates within the trailing window are dropped, and
// oversized protected blocks only warn.
type Validator struct {
	cfg Config
	log *slog.Logger

	recent     []string
	duplicates int
	failures   int
}

func NewValidator(cfg Config, log *slog.Logger) *Validator {
	if log == nil {
		log = slog.Default()
	}
	return &Validator{cfg: cfg, log: log}
}

// Accept reports whether the draft passes validation and deduplication.
// Rejected drafts are never retried or repaired.
func (v *Validator) Accept(c document.Chunk) bool {
	if !v.valid(c) {
		v.failures++
		return false
	}

	for _, id := range v.recent {
		if id == c.ID {
			v.duplicates++
			return false
		}
	}

	if c.Metadata.CharCount > v.cfg.MaxSize*3/2 {
		// Protected blocks cannot be shrunk; keep them oversized.
		v.log.Warn("oversized chunk accepted",
			"page", c.Metadata.PageNumber,
			"type", c.Metadata.Type,
			"char_count", c.Metadata.CharCount,
			"max_size", v.cfg.MaxSize,
		)
	}

	v.recent = append(v.recent, c.ID)
	if len(v.recent) > DedupWindow {
		v.recent = v.recent[len(v.recent)-DedupWindow:]
	}
	return true
}

func (v *Validator) valid(c document.Chunk) bool {
	if c.ID == "" || c.Text == "" || c.ContentOnly == "" {
		return false
	}
	m := c.Metadata
	if m.Source == "" || m.PageNumber <= 0 || m.Type == "" || m.Breadcrumbs == nil {
		return false
	}
	if strings.TrimSpace(c.ContentOnly) == "" {
		return false
	}
	return true
}

// DuplicatesPrevented returns how many drafts the window dropped.
func (v *Validator) DuplicatesPrevented() int { return v.duplicates }

// ValidationFailures returns how many drafts failed hard checks.
func (v *Validator) ValidationFailures() int { return v.failures }
