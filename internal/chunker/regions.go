package chunker

import (
	"regexp"
	"sort"

	"github.com/dgallion1/semchunk/internal/document"
)

// Pattern families for protected content. Compiled once, owned by the
// package. The extractor emits several alternative image/figure banner
// conventions; each start pattern anchors a region that runs to the next
// major header, horizontal rule, or end of text.
var (
	imageStartPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?mi)^\*\*images? (?:found )?on this page[:.]?\*\*`),
		regexp.MustCompile(`(?mi)^\*\*image \d+[:.]?\*\*`),
		regexp.MustCompile(`(?mi)^\*\*visual content[:.]?\*\*`),
		regexp.MustCompile(`(?mi)^\*\*complete page visual analysis[:.]?\*\*`),
		regexp.MustCompile(`(?mi)^>\s*\*\*figure \d+`),
	}

	// imageBoundary is the non-consumed lookahead: region ends where the
	// next major header (level 1-2) or horizontal rule begins. Minor
	// sub-headings inside an image-analysis block stay part of the region.
	imageBoundary = regexp.MustCompile(`(?m)^(?:#{1,2} |---+[ \t]*$|\*\*\*+[ \t]*$|___+[ \t]*$)`)

	// tablePattern requires a pipe header row, a separator row, and one or
	// more data rows, then optionally a caption line and a summary line.
	tablePattern = regexp.MustCompile(
		`(?m)^\|[^\n]+\|[ \t]*\n` + // header row
			`\|[ \t:|-]+\|[ \t]*\n` + // separator row
			`(?:\|[^\n]+\|[ \t]*\n?)+` + // data rows
			`(?:\n?\*{0,2}Table \d+:\*{0,2}[^\n]*\n?)?` + // optional caption
			`(?:\n?\*{0,2}Table \d+ Summary:\*{0,2}[^\n]*\n?)?`) // optional summary

	// fencedCode matches triple-backtick fences non-greedily so adjacent
	// fences never merge into one region.
	fencedCode = regexp.MustCompile("(?s)```.*?```")
)

// DetectProtectedRegions scans raw page text and returns a sorted,
// non-overlapping list of regions that must never be split. Banner text
// from an unfamiliar extractor variant simply fails to match and falls
// through to plain-text parsing.
func DetectProtectedRegions(text string) []document.ProtectedRegion {
	var regions []document.ProtectedRegion

	for _, p := range imageStartPatterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			end := scanBoundary(text, loc[1])
			regions = append(regions, document.ProtectedRegion{
				Start:   loc[0],
				End:     end,
				Kind:    document.KindImage,
				Content: text[loc[0]:end],
			})
		}
	}

	for _, loc := range tablePattern.FindAllStringIndex(text, -1) {
		regions = append(regions, document.ProtectedRegion{
			Start:   loc[0],
			End:     loc[1],
			Kind:    document.KindTable,
			Content: text[loc[0]:loc[1]],
		})
	}

	for _, loc := range fencedCode.FindAllStringIndex(text, -1) {
		regions = append(regions, document.ProtectedRegion{
			Start:   loc[0],
			End:     loc[1],
			Kind:    document.KindCode,
			Content: text[loc[0]:loc[1]],
		})
	}

	return mergeRegions(text, regions)
}

// scanBoundary finds where a banner-anchored region ends: the start of the
// next major header or horizontal rule at or after from, or end of text.
// The boundary itself is not consumed.
func scanBoundary(text string, from int) int {
	if from >= len(text) {
		return len(text)
	}
	if loc := imageBoundary.FindStringIndex(text[from:]); loc != nil {
		return from + loc[0]
	}
	return len(text)
}

// mergeRegions sorts matches by start offset and folds overlapping or
// contained matches into the earliest enclosing region. The surviving
// region keeps its kind; its content is recut from the original text.
func mergeRegions(text string, regions []document.ProtectedRegion) []document.ProtectedRegion {
	if len(regions) == 0 {
		return nil
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Start != regions[j].Start {
			return regions[i].Start < regions[j].Start
		}
		return regions[i].End > regions[j].End
	})

	merged := regions[:1:1]
	for _, r := range regions[1:] {
		prev := &merged[len(merged)-1]
		if r.Start < prev.End {
			if r.End > prev.End {
				prev.End = r.End
				prev.Content = text[prev.Start:prev.End]
			}
			// Contained matches are absorbed with no state change.
			continue
		}
		merged = append(merged, r)
	}
	return merged
}
