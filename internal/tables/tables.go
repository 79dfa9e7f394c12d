package tables

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/mvbarbosa/pdfdigest/internal/layout"
)

// Table is one table lifted out of the layout tree, normalized to the
// canonical row/column grid. Rows may be ragged; they pass through as-is.
type Table struct {
	ID         int
	Page       int
	BBox       []float64
	Confidence *float64
	Grid       [][]string
}

// Collect walks the document's layout elements and returns every element
// labelled "table" as a canonical Table, with 1-based IDs in document
// order. A table whose structure cannot be normalized keeps a nil Grid;
// filtering happens at export time so callers still see the true count.
func Collect(doc *layout.Document, logger *slog.Logger) []Table {
	if logger == nil {
		logger = slog.Default()
	}

	var tabs []Table
	for _, el := range doc.Elements {
		if el.Label != "table" {
			continue
		}
		t := Table{
			ID:         len(tabs) + 1,
			Page:       el.Page,
			BBox:       el.BBox,
			Confidence: el.Confidence,
		}
		if el.Table != nil {
			t.Grid = Normalize(el.Table)
		}
		if len(t.Grid) == 0 && el.Text != "" {
			t.Grid = ParseGridFromText(el.Text)
		}
		tabs = append(tabs, t)
		logger.Debug("tables.collect", "id", t.ID, "page", t.Page, "rows", len(t.Grid))
	}
	return tabs
}

// Normalize resolves the tagged table union into the canonical grid:
// grids pass through, row structures are flattened, raw text goes through
// the line-splitting heuristics.
func Normalize(td *layout.TableData) [][]string {
	switch td.Kind {
	case layout.KindGrid:
		return td.Grid
	case layout.KindRows:
		grid := make([][]string, 0, len(td.Rows))
		for _, row := range td.Rows {
			grid = append(grid, row.Cells)
		}
		return grid
	default:
		return ParseGridFromText(td.Text)
	}
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// ParseGridFromText splits raw table text into a grid, best effort. Per
// line the separators are tried in precedence order: tab, then pipe
// (dropping empty pipe cells), then runs of two or more spaces. Irregular
// input may well produce ragged or malformed grids; that is accepted.
func ParseGridFromText(text string) [][]string {
	var grid [][]string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var cells []string
		switch {
		case strings.Contains(line, "\t"):
			cells = strings.Split(line, "\t")
		case strings.Contains(line, "|"):
			for _, c := range strings.Split(line, "|") {
				if s := strings.TrimSpace(c); s != "" {
					cells = append(cells, s)
				}
			}
		default:
			cells = multiSpace.Split(strings.TrimSpace(line), -1)
		}

		if len(cells) == 0 {
			continue
		}
		row := make([]string, 0, len(cells))
		for _, c := range cells {
			row = append(row, strings.TrimSpace(c))
		}
		grid = append(grid, row)
	}
	return grid
}
