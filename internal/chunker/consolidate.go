package chunker

import (
	"github.com/dgallion1/semchunk/internal/document"
)

// ConsolidateParagraphs merges maximal runs of consecutive Text sections
// into single paragraph groups, joining contents with a blank line. Text
// sections whose content still looks like a list item are excluded from
// runs (some Text sections are flushed list buffers). All other section
// kinds pass through untouched and terminate the current run.
func ConsolidateParagraphs(sections []document.SemanticSection) []document.SemanticSection {
	var out []document.SemanticSection
	var run []document.SemanticSection

	flush := func() {
		if len(run) == 0 {
			return
		}
		merged := run[0]
		for _, s := range run[1:] {
			merged.Content += "\n\n" + s.Content
			merged.End = s.End
		}
		out = append(out, merged)
		run = nil
	}

	for _, s := range sections {
		if s.Kind == document.KindText && !listItemLine.MatchString(s.Content) {
			run = append(run, s)
			continue
		}
		flush()
		out = append(out, s)
	}
	flush()

	return out
}
