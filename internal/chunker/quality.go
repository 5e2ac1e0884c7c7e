package chunker

import (
	"regexp"
	"strings"

	"github.com/dgallion1/semchunk/internal/document"
)

var (
	numericalData = regexp.MustCompile(`\d[\d,.]*%?`)
	datePattern   = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\b|` +
		`\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}\b|` +
		`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	namedEntity = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)
	exhibitRef  = regexp.MustCompile(`(?i)\b(?:exhibit|figure|table|appendix|schedule)\s+[0-9IVXLC]+\b`)
	citation    = regexp.MustCompile(`\[\d+\]|\([A-Z][A-Za-z.&\s]+,?\s+(?:19|20)\d{2}\)`)
	sourceLine  = regexp.MustCompile(`(?mi)^\*{0,2}source[:\s]\s*\*{0,2}\s*(.+?)\s*\*{0,2}\s*$`)
	inlineImage = regexp.MustCompile(`!\[[^\]]*\]\(([^)\s]+)`)
)

// ComputeQuality derives the per-chunk content heuristics.
func ComputeQuality(content string) document.QualityMetrics {
	words := len(strings.Fields(content))
	sentences := len(splitSentences(content))

	var avg float64
	if sentences > 0 {
		avg = float64(words) / float64(sentences)
	}

	return document.QualityMetrics{
		WordCount:         words,
		SentenceCount:     sentences,
		AvgSentenceLength: avg,
		HasNumericalData:  numericalData.MatchString(content),
		HasDates:          datePattern.MatchString(content),
		HasNamedEntities:  namedEntity.MatchString(content),
		HasExhibits:       exhibitRef.MatchString(content),
	}
}

func hasCitations(content string) bool {
	return citation.MatchString(content) || sourceLine.MatchString(content)
}

// extractSourceAttribution pulls a "Source: ..." line out of the content,
// if the extractor emitted one.
func extractSourceAttribution(content string) string {
	if m := sourceLine.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// extractImagePath pulls the first inline image target from the content.
func extractImagePath(content string) string {
	if m := inlineImage.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return ""
}

// splitSentences splits on whitespace that follows sentence-ending
// punctuation. The pieces, joined by single spaces, reconstruct the
// normalized input.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\n' || text[i+1] == '\t') {
			s := strings.TrimSpace(current.String())
			if s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
