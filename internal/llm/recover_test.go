package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvbarbosa/pdfdigest/internal/common"
)

func TestRecoverJSONStrategies(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "bare object",
			content: `{"trades": [], "fees": []}`,
		},
		{
			name:    "bare object with surrounding whitespace",
			content: "\n  {\"trades\": [], \"fees\": []}  \n",
		},
		{
			name:    "json fence",
			content: "Here is the result:\n```json\n{\"trades\": [], \"fees\": []}\n```\nDone.",
		},
		{
			name:    "generic fence with language tag",
			content: "```javascript\n{\"trades\": [], \"fees\": []}\n```",
		},
		{
			name:    "generic fence without tag",
			content: "```\n{\"trades\": [], \"fees\": []}\n```",
		},
		{
			name:    "noise around braces",
			content: "The extraction produced {\"trades\": [], \"fees\": []} as requested.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RecoverJSON(tt.content)
			require.NoError(t, err)

			var v map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &v), "recovered string must be parseable")
			assert.Contains(t, v, "trades")
			assert.Contains(t, v, "fees")
		})
	}
}

func TestRecoverJSONStripsComments(t *testing.T) {
	content := "{\n// session 2014-05-08\n\"trades\": [],\n\"fees\": []\n}"

	out, err := RecoverJSON(content)
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &v))
}

func TestRecoverJSONNoObject(t *testing.T) {
	_, err := RecoverJSON("I could not read the file, sorry.")

	require.Error(t, err)
	assert.True(t, common.IsParse(err))
}

func TestRecoverJSONSnippetTruncated(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}

	_, err := RecoverJSON(string(long))
	require.Error(t, err)

	var perr *common.ParseError
	require.ErrorAs(t, err, &perr)
	assert.LessOrEqual(t, len(perr.Snippet), 200)
}
