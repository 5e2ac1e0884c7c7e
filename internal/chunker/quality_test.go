package chunker

import (
	"reflect"
	"testing"
)

func TestComputeQuality(t *testing.T) {
	q := ComputeQuality("Acme Corp grew 12% in 2023. See Exhibit 4 for details. A third sentence follows.")

	if q.SentenceCount != 3 {
		t.Errorf("expected 3 sentences, got %d", q.SentenceCount)
	}
	if q.WordCount != 15 {
		t.Errorf("expected 15 words, got %d", q.WordCount)
	}
	if q.AvgSentenceLength != 5 {
		t.Errorf("expected avg sentence length 5, got %f", q.AvgSentenceLength)
	}
	if !q.HasNumericalData {
		t.Error("expected numerical-data flag")
	}
	if !q.HasDates {
		t.Error("expected dates flag for the year")
	}
	if !q.HasNamedEntities {
		t.Error("expected named-entity flag for Acme Corp")
	}
	if !q.HasExhibits {
		t.Error("expected exhibits flag")
	}
}

func TestComputeQuality_PlainProse(t *testing.T) {
	q := ComputeQuality("nothing remarkable happens in this sentence.")
	if q.HasNumericalData || q.HasDates || q.HasNamedEntities || q.HasExhibits {
		t.Errorf("expected all flags clear, got %+v", q)
	}
}

func TestHasCitations(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"Growth was strong [12] across regions.", true},
		{"**Source:** Annual Report 2023", true},
		{"Source: internal survey", true},
		{"No references anywhere here.", false},
	}
	for _, tt := range tests {
		if got := hasCitations(tt.content); got != tt.want {
			t.Errorf("hasCitations(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestExtractSourceAttribution(t *testing.T) {
	got := extractSourceAttribution("Table data.\n**Source:** Annual Report 2023\nMore text.")
	if got != "Annual Report 2023" {
		t.Errorf("expected %q, got %q", "Annual Report 2023", got)
	}
	if extractSourceAttribution("no attribution") != "" {
		t.Error("expected empty attribution")
	}
}

func TestExtractImagePath(t *testing.T) {
	if got := extractImagePath("![chart](figures/chart1.png)"); got != "figures/chart1.png" {
		t.Errorf("expected figures/chart1.png, got %q", got)
	}
	if extractImagePath("no image markup") != "" {
		t.Error("expected empty path")
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One is first. Two follows! Three ends?")
	want := []string{"One is first.", "Two follows!", "Three ends?"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSplitSentences_NoTerminator(t *testing.T) {
	got := splitSentences("a fragment without punctuation")
	if len(got) != 1 {
		t.Fatalf("expected 1 piece, got %d", len(got))
	}
}

func TestSplitSentences_Empty(t *testing.T) {
	if got := splitSentences(""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
