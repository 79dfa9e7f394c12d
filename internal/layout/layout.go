package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Document is the layout engine's view of one converted file: the full
// extracted text plus the ordered layout elements.
type Document struct {
	Text     string    `json:"text"`
	Elements []Element `json:"elements"`
}

// Element is one node of the layout tree. BBox and Confidence are
// optional geometry/quality hints, opaque to this core.
type Element struct {
	Label      string     `json:"label"`
	Text       string     `json:"text"`
	Page       int        `json:"page"`
	BBox       []float64  `json:"bbox,omitempty"`
	Confidence *float64   `json:"confidence,omitempty"`
	Table      *TableData `json:"data,omitempty"`
}

// TableKind tags the shape a table arrived in from the layout engine.
type TableKind int

const (
	KindGrid TableKind = iota
	KindRows
	KindText
)

// TableRow is one row of a row/cell-bearing table structure.
type TableRow struct {
	Cells []string `json:"cells"`
}

// TableData is a tagged union over the three table shapes the layout
// engine produces. The variant is resolved once, at decode time; the
// export path only ever sees the resolved Kind.
type TableData struct {
	Kind TableKind
	Grid [][]string
	Rows []TableRow
	Text string
}

// UnmarshalJSON infers the variant from the JSON shape: an array of
// arrays is a grid, an object with "rows" is a row structure, a bare
// string (or an object with only "text") is raw text. An object with
// "data" is treated as a wrapped grid.
func (d *TableData) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return nil
	}

	switch t[0] {
	case '[':
		var raw [][]any
		if err := json.Unmarshal(t, &raw); err != nil {
			return fmt.Errorf("decode table grid: %w", err)
		}
		d.Kind = KindGrid
		d.Grid = stringifyGrid(raw)
		return nil

	case '"':
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return fmt.Errorf("decode table text: %w", err)
		}
		d.Kind = KindText
		d.Text = s
		return nil

	case '{':
		var obj struct {
			Rows []struct {
				Cells []any `json:"cells"`
			} `json:"rows"`
			Data [][]any `json:"data"`
			Text string  `json:"text"`
		}
		if err := json.Unmarshal(t, &obj); err != nil {
			return fmt.Errorf("decode table object: %w", err)
		}
		switch {
		case obj.Rows != nil:
			d.Kind = KindRows
			d.Rows = make([]TableRow, 0, len(obj.Rows))
			for _, r := range obj.Rows {
				d.Rows = append(d.Rows, TableRow{Cells: stringifyCells(r.Cells)})
			}
		case obj.Data != nil:
			d.Kind = KindGrid
			d.Grid = stringifyGrid(obj.Data)
		default:
			d.Kind = KindText
			d.Text = obj.Text
		}
		return nil

	default:
		return fmt.Errorf("unrecognized table shape: %s", firstBytes(t, 40))
	}
}

// MarshalJSON writes the resolved variant back out in its natural shape.
func (d TableData) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case KindGrid:
		return json.Marshal(d.Grid)
	case KindRows:
		return json.Marshal(struct {
			Rows []TableRow `json:"rows"`
		}{Rows: d.Rows})
	default:
		return json.Marshal(d.Text)
	}
}

func stringifyGrid(raw [][]any) [][]string {
	grid := make([][]string, 0, len(raw))
	for _, row := range raw {
		grid = append(grid, stringifyCells(row))
	}
	return grid
}

func stringifyCells(raw []any) []string {
	cells := make([]string, 0, len(raw))
	for _, c := range raw {
		switch v := c.(type) {
		case string:
			cells = append(cells, v)
		case nil:
			cells = append(cells, "")
		default:
			cells = append(cells, fmt.Sprintf("%v", v))
		}
	}
	return cells
}

func firstBytes(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

// Converter turns a file on disk into a layout Document. Implementations
// talk to the external layout engine; this core treats it as a black box.
type Converter interface {
	Convert(ctx context.Context, path string) (*Document, error)
}
