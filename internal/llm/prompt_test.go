package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptTierZero(t *testing.T) {
	in := PromptInput{DocumentText: "full statement text here", FilePath: "/notes/n.pdf"}

	p := BuildPrompt(0, in)

	assert.Contains(t, p, "=== DOCUMENT CONTENT ===")
	assert.Contains(t, p, in.DocumentText)
	assert.Contains(t, p, `"operationType"`)
	assert.Contains(t, p, "ONLY valid JSON")
}

func TestBuildPromptTierZeroWithoutText(t *testing.T) {
	p := BuildPrompt(0, PromptInput{FilePath: "/notes/n.pdf"})

	assert.Contains(t, p, "/notes/n.pdf")
	assert.NotContains(t, p, "=== DOCUMENT CONTENT ===")
}

func TestBuildPromptTierOneTruncates(t *testing.T) {
	long := strings.Repeat("a", ExcerptLimit+500)

	p := BuildPrompt(1, PromptInput{DocumentText: long})

	assert.Contains(t, p, "…(truncated)")
	assert.NotContains(t, p, long, "tier 1 must not embed the full text")
	assert.Contains(t, p, long[:ExcerptLimit])
}

func TestBuildPromptTierOneShortTextIntact(t *testing.T) {
	p := BuildPrompt(1, PromptInput{DocumentText: "short text"})

	assert.Contains(t, p, "short text")
	assert.NotContains(t, p, "…(truncated)")
}

func TestBuildPromptFallbackCarriesNoContent(t *testing.T) {
	in := PromptInput{DocumentText: "SUZANO PAPEL 100 7.28", FilePath: "/notes/n.pdf"}

	for _, attempt := range []int{2, 3, 7} {
		p := BuildPrompt(attempt, in)
		assert.NotContains(t, p, in.DocumentText, "fallback tier must not embed document text")
		assert.NotContains(t, p, in.FilePath)
		assert.Contains(t, p, `"trades"`)
		assert.Contains(t, p, `"fees"`)
	}
}

func TestBuildPromptStateless(t *testing.T) {
	in := PromptInput{DocumentText: "text"}
	require.Equal(t, BuildPrompt(1, in), BuildPrompt(1, in))
}
