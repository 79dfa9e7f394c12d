package segment

import (
	"log/slog"
	"regexp"
	"strings"
)

// Section is one marker-delimited span of a converted document.
// Indices are 1-based.
type Section struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Split divides text into sections at each case-insensitive occurrence of
// marker. A section runs from one occurrence to the start of the next, or
// to the end of the text for the last one. Span boundaries are trimmed.
// A document without the marker is returned whole as section 1; that is a
// degraded-but-successful outcome, logged as a warning, not an error.
func Split(text, marker string, logger *slog.Logger) []Section {
	if logger == nil {
		logger = slog.Default()
	}

	starts := markerOffsets(text, marker)
	if len(starts) == 0 {
		logger.Warn("segment.marker_not_found", "marker", marker)
		return []Section{{Index: 1, Text: strings.TrimSpace(text)}}
	}

	sections := make([]Section, 0, len(starts))
	for i, start := range starts {
		end := len(text)
		if i < len(starts)-1 {
			end = starts[i+1]
		}
		sections = append(sections, Section{
			Index: i + 1,
			Text:  strings.TrimSpace(text[start:end]),
		})
	}

	logger.Debug("segment.split", "marker", marker, "sections", len(sections))
	return sections
}

// markerOffsets returns the byte offsets of all non-overlapping,
// case-insensitive occurrences of marker. Matching runs on the original
// text: case folding can change a rune's encoded length, so offsets
// taken on a lowered copy would not index text correctly.
func markerOffsets(text, marker string) []int {
	if marker == "" {
		return nil
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(marker))

	matches := re.FindAllStringIndex(text, -1)
	offsets := make([]int, 0, len(matches))
	for _, m := range matches {
		offsets = append(offsets, m[0])
	}
	return offsets
}
