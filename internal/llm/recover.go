package llm

import (
	"regexp"
	"strings"

	"github.com/mvbarbosa/pdfdigest/internal/common"
)

// Models occasionally annotate their JSON with //-style comments.
var lineComment = regexp.MustCompile(`//[^\n]*\n`)

func stripLineComments(s string) string {
	return lineComment.ReplaceAllString(s, "\n")
}

// RecoverJSON extracts a syntactically plausible JSON object from an
// arbitrary agent response. Four strategies are tried in order, first
// success wins:
//
//  1. the trimmed content is already {...}
//  2. a ```json fenced block
//  3. any fenced block whose interior starts with { (language tag skipped)
//  4. the slice from the first { to the last }
//
// The returned string still has to survive json parsing at the caller;
// failure here is a ParseError carrying a 200-char snippet.
func RecoverJSON(content string) (string, error) {
	c := strings.TrimSpace(content)

	if strings.HasPrefix(c, "{") && strings.HasSuffix(c, "}") {
		return stripLineComments(c), nil
	}

	if i := strings.Index(c, "```json"); i >= 0 {
		start := i + len("```json")
		if end := strings.Index(c[start:], "```"); end >= 0 {
			if s := strings.TrimSpace(c[start : start+end]); s != "" {
				return stripLineComments(s), nil
			}
		}
	}

	if i := strings.Index(c, "```"); i >= 0 {
		start := i + 3
		// Skip a possible language tag on the fence line.
		if nl := strings.Index(c[start:], "\n"); nl >= 0 {
			start += nl + 1
		}
		if end := strings.Index(c[start:], "```"); end >= 0 {
			if s := strings.TrimSpace(c[start : start+end]); strings.HasPrefix(s, "{") {
				return stripLineComments(s), nil
			}
		}
	}

	first := strings.Index(c, "{")
	last := strings.LastIndex(c, "}")
	if first >= 0 && last > first {
		return stripLineComments(c[first : last+1]), nil
	}

	return "", common.NewParseError("no JSON object found in agent response", c)
}
