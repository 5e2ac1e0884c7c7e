package stats

import (
	"testing"

	"github.com/dgallion1/semchunk/internal/document"
)

func chunkOfSize(page, size int, kind document.Kind) document.Chunk {
	return document.Chunk{
		ID:          "id",
		Text:        "text",
		ContentOnly: "content",
		Metadata: document.Metadata{
			Source:     "doc.pdf",
			PageNumber: page,
			Type:       kind,
			CharCount:  size,
			Quality:    document.QualityMetrics{WordCount: size / 5},
		},
	}
}

func TestCompute_Empty(t *testing.T) {
	d := Compute(nil, Counters{DuplicatesPrevented: 2})
	if d.Processing.DuplicatesPrevented != 2 {
		t.Error("counters must pass through even with no chunks")
	}
	if d.TypeHistogram == nil || d.ChunksPerPage == nil {
		t.Error("maps must be initialized")
	}
}

func TestCompute(t *testing.T) {
	chunks := []document.Chunk{
		chunkOfSize(1, 100, document.KindText),
		chunkOfSize(1, 200, document.KindTable),
		chunkOfSize(2, 300, document.KindText),
		chunkOfSize(2, 400, document.KindText),
	}
	counters := Counters{DuplicatesPrevented: 1, ValidationFailures: 2, CrossPageMerges: 3}

	d := Compute(chunks, counters)

	if d.Processing != counters {
		t.Errorf("counters not carried: %+v", d.Processing)
	}
	if d.TypeHistogram[document.KindText] != 3 || d.TypeHistogram[document.KindTable] != 1 {
		t.Errorf("unexpected histogram %v", d.TypeHistogram)
	}
	if d.ChunksPerPage[1] != 2 || d.ChunksPerPage[2] != 2 {
		t.Errorf("unexpected chunks per page %v", d.ChunksPerPage)
	}

	s := d.SizeDistribution
	if s.Min != 100 || s.Max != 400 {
		t.Errorf("expected min/max 100/400, got %d/%d", s.Min, s.Max)
	}
	if s.Mean != 250 {
		t.Errorf("expected mean 250, got %f", s.Mean)
	}
	if s.Median != 250 {
		t.Errorf("expected median 250, got %f", s.Median)
	}
	if s.P25 != 175 || s.P75 != 325 {
		t.Errorf("expected p25/p75 175/325, got %f/%f", s.P25, s.P75)
	}

	if d.Quality.AvgWordCount != 50 {
		t.Errorf("expected avg word count 50, got %f", d.Quality.AvgWordCount)
	}
}

func TestCompute_QualityCounts(t *testing.T) {
	c1 := chunkOfSize(1, 100, document.KindText)
	c1.Metadata.Quality.HasNumericalData = true
	c1.Metadata.Quality.HasDates = true
	c1.Metadata.HasCitations = true

	c2 := chunkOfSize(1, 100, document.KindText)
	c2.Metadata.Quality.HasNamedEntities = true
	c2.Metadata.Quality.HasExhibits = true

	d := Compute([]document.Chunk{c1, c2}, Counters{})
	q := d.Quality
	if q.WithNumericalData != 1 || q.WithDates != 1 || q.WithNamedEntities != 1 ||
		q.WithExhibits != 1 || q.WithCitations != 1 {
		t.Errorf("unexpected quality aggregate %+v", q)
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	tests := []struct {
		pct  float64
		want float64
	}{
		{0, 1},
		{25, 1.75},
		{50, 2.5},
		{75, 3.25},
		{100, 4},
	}
	for _, tt := range tests {
		if got := percentile(sorted, tt.pct); got != tt.want {
			t.Errorf("percentile(%v) = %f, want %f", tt.pct, got, tt.want)
		}
	}
}

func TestPercentile_Degenerate(t *testing.T) {
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("expected 0 for empty input, got %f", got)
	}
	if got := percentile([]float64{7}, 50); got != 7 {
		t.Errorf("expected 7 for single value, got %f", got)
	}
}
