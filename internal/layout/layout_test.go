package layout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDataUnmarshalGrid(t *testing.T) {
	var d TableData
	require.NoError(t, json.Unmarshal([]byte(`[["ticker", "qty"], ["SUZB3", 100], [null, 7.28]]`), &d))

	assert.Equal(t, KindGrid, d.Kind)
	assert.Equal(t, [][]string{
		{"ticker", "qty"},
		{"SUZB3", "100"},
		{"", "7.28"},
	}, d.Grid, "numbers and nulls must stringify")
}

func TestTableDataUnmarshalRows(t *testing.T) {
	var d TableData
	require.NoError(t, json.Unmarshal([]byte(`{"rows": [{"cells": ["a", 1]}, {"cells": ["b", 2]}]}`), &d))

	assert.Equal(t, KindRows, d.Kind)
	require.Len(t, d.Rows, 2)
	assert.Equal(t, []string{"a", "1"}, d.Rows[0].Cells)
	assert.Equal(t, []string{"b", "2"}, d.Rows[1].Cells)
}

func TestTableDataUnmarshalWrappedGrid(t *testing.T) {
	var d TableData
	require.NoError(t, json.Unmarshal([]byte(`{"data": [["h"], ["v"]]}`), &d))

	assert.Equal(t, KindGrid, d.Kind)
	assert.Equal(t, [][]string{{"h"}, {"v"}}, d.Grid)
}

func TestTableDataUnmarshalText(t *testing.T) {
	var d TableData
	require.NoError(t, json.Unmarshal([]byte(`"a\tb\n1\t2"`), &d))

	assert.Equal(t, KindText, d.Kind)
	assert.Equal(t, "a\tb\n1\t2", d.Text)
}

func TestTableDataUnmarshalTextObject(t *testing.T) {
	var d TableData
	require.NoError(t, json.Unmarshal([]byte(`{"text": "raw table text"}`), &d))

	assert.Equal(t, KindText, d.Kind)
	assert.Equal(t, "raw table text", d.Text)
}

func TestTableDataUnmarshalNull(t *testing.T) {
	var d TableData
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.Equal(t, TableData{}, d)
}

func TestTableDataUnmarshalRejectsScalars(t *testing.T) {
	var d TableData
	err := json.Unmarshal([]byte(`42`), &d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized table shape")
}

func TestTableDataMarshalRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "grid", in: `[["a","b"],["1","2"]]`},
		{name: "rows", in: `{"rows":[{"cells":["a","b"]}]}`},
		{name: "text", in: `"loose text"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d TableData
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))

			out, err := json.Marshal(d)
			require.NoError(t, err)
			assert.JSONEq(t, tt.in, string(out))
		})
	}
}

func TestElementDecodesTablePayload(t *testing.T) {
	raw := `{
		"text": "page text",
		"elements": [
			{"label": "table", "page": 1, "bbox": [1, 2, 3, 4], "confidence": 0.92,
			 "data": [["h1", "h2"], ["v1", "v2"]]},
			{"label": "text", "page": 1, "text": "a paragraph"}
		]
	}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	require.Len(t, doc.Elements, 2)
	tab := doc.Elements[0]
	require.NotNil(t, tab.Table)
	assert.Equal(t, KindGrid, tab.Table.Kind)
	assert.Equal(t, [][]string{{"h1", "h2"}, {"v1", "v2"}}, tab.Table.Grid)
	assert.Equal(t, []float64{1, 2, 3, 4}, tab.BBox)
	require.NotNil(t, tab.Confidence)
	assert.InDelta(t, 0.92, *tab.Confidence, 1e-9)

	assert.Nil(t, doc.Elements[1].Table)
}
