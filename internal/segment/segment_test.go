package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = "NOTA DE NEGOCIAÇÃO"

func TestSplitNoMarker(t *testing.T) {
	text := "  just some statement text without the boundary  "

	secs := Split(text, marker, nil)

	require.Len(t, secs, 1)
	assert.Equal(t, 1, secs[0].Index)
	assert.Equal(t, strings.TrimSpace(text), secs[0].Text)
}

func TestSplitMultipleMarkers(t *testing.T) {
	text := "preamble\n" +
		"NOTA DE NEGOCIAÇÃO\nfirst note body\n" +
		"NOTA DE NEGOCIAÇÃO\nsecond note body\n" +
		"NOTA DE NEGOCIAÇÃO\nthird note body\n"

	secs := Split(text, marker, nil)

	require.Len(t, secs, 3)
	for i, sec := range secs {
		assert.Equal(t, i+1, sec.Index)
		assert.True(t, strings.HasPrefix(sec.Text, marker), "section %d must start at the marker", i+1)
	}
	assert.Contains(t, secs[0].Text, "first note body")
	assert.NotContains(t, secs[0].Text, "second note body")
	assert.Contains(t, secs[1].Text, "second note body")
	assert.Contains(t, secs[2].Text, "third note body")
}

func TestSplitCaseInsensitive(t *testing.T) {
	text := "nota de negociação\none\nNota De Negociação\ntwo"

	secs := Split(text, marker, nil)

	require.Len(t, secs, 2)
	assert.Contains(t, secs[0].Text, "one")
	assert.Contains(t, secs[1].Text, "two")
}

func TestSplitTrimsBoundaries(t *testing.T) {
	text := "NOTA DE NEGOCIAÇÃO\nbody\n\n\nNOTA DE NEGOCIAÇÃO\ntail\n\n"

	secs := Split(text, marker, nil)

	require.Len(t, secs, 2)
	assert.Equal(t, "NOTA DE NEGOCIAÇÃO\nbody", secs[0].Text)
	assert.Equal(t, "NOTA DE NEGOCIAÇÃO\ntail", secs[1].Text)
}

func TestSplitCoversWholeRange(t *testing.T) {
	text := "NOTA DE NEGOCIAÇÃO alpha NOTA DE NEGOCIAÇÃO beta"

	secs := Split(text, marker, nil)

	require.Len(t, secs, 2)
	assert.Contains(t, secs[0].Text, "alpha")
	assert.Contains(t, secs[1].Text, "beta")
	// Nothing from one span bleeds into the other.
	assert.NotContains(t, secs[0].Text, "beta")
	assert.NotContains(t, secs[1].Text, "alpha")
}

func TestSplitOffsetsSurviveCaseFolding(t *testing.T) {
	// Runes whose lowercase form has a different UTF-8 length (İ lowers
	// to i plus a combining dot, Ⱥ lowers to a 3-byte rune) must not
	// shift the marker offsets or push the span bounds past the text.
	tests := []struct {
		name   string
		prefix string
	}{
		{name: "capital I with dot above", prefix: strings.Repeat("İ", 30)},
		{name: "capital A with stroke", prefix: strings.Repeat("Ⱥ", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := tt.prefix + marker + "\nfirst body\n" + marker + "\nsecond body"

			secs := Split(text, marker, nil)

			require.Len(t, secs, 2)
			assert.True(t, strings.HasPrefix(secs[0].Text, marker),
				"section must start exactly at the marker")
			assert.Contains(t, secs[0].Text, "first body")
			assert.NotContains(t, secs[0].Text, string([]rune(tt.prefix)[0]),
				"no prefix bytes may bleed into the section")
			assert.True(t, strings.HasPrefix(secs[1].Text, marker))
			assert.Contains(t, secs[1].Text, "second body")
		})
	}
}

func TestSplitEmptyMarker(t *testing.T) {
	secs := Split("anything", "", nil)

	require.Len(t, secs, 1)
	assert.Equal(t, "anything", secs[0].Text)
}
