package tables

import (
	"encoding/csv"
	"log/slog"
	"strings"
)

// Format of one exported table payload.
type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatHTML  Format = "html"
)

// ParseFormat normalizes a user-supplied format name; unknown names fall
// back to json, matching the lenient export behavior.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV
	case FormatExcel:
		return FormatExcel
	case FormatHTML:
		return FormatHTML
	default:
		return FormatJSON
	}
}

// ExcelData is the spreadsheet-ready representation: row 0 as headers,
// the rest as data rows.
type ExcelData struct {
	Headers             []string   `json:"headers"`
	Rows                [][]string `json:"rows"`
	DataframeCompatible bool       `json:"dataframe_compatible"`
}

// Metadata describes one exported table.
type Metadata struct {
	BBox       []float64 `json:"bbox,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
}

// ExportedTable is one table serialized for the requested format. Data is
// [][]string for json, string for csv and html, *ExcelData for excel.
type ExportedTable struct {
	ID       int      `json:"id"`
	Page     int      `json:"page"`
	Format   Format   `json:"format"`
	Metadata Metadata `json:"metadata"`
	Data     any      `json:"data"`
}

// ResultMetadata summarizes one export run. TotalTables counts every
// table found in the document, including those filtered for having no
// usable grid.
type ResultMetadata struct {
	TotalTables  int    `json:"total_tables"`
	ExportFormat Format `json:"export_format"`
}

// Result is the extract-tables payload handed to callers.
type Result struct {
	Tables   []ExportedTable `json:"tables"`
	Metadata ResultMetadata  `json:"metadata"`
}

// ExportAll serializes every table with a non-empty grid into the target
// format. Tables without a grid are dropped, not emitted empty.
func ExportAll(tabs []Table, format Format, logger *slog.Logger) []ExportedTable {
	if logger == nil {
		logger = slog.Default()
	}

	exported := make([]ExportedTable, 0, len(tabs))
	for _, t := range tabs {
		if len(t.Grid) == 0 {
			logger.Debug("tables.export.skip_empty", "id", t.ID, "page", t.Page)
			continue
		}

		out := ExportedTable{
			ID:     t.ID,
			Page:   t.Page,
			Format: format,
			Metadata: Metadata{
				BBox:       t.BBox,
				Confidence: t.Confidence,
				Rows:       len(t.Grid),
				Cols:       len(t.Grid[0]),
			},
		}

		switch format {
		case FormatCSV:
			out.Data = ToCSV(t.Grid)
		case FormatExcel:
			out.Data = ToExcel(t.Grid)
		case FormatHTML:
			out.Data = ToHTML(t.Grid)
		default:
			out.Format = FormatJSON
			out.Data = t.Grid
		}
		exported = append(exported, out)
	}
	return exported
}

// ToCSV encodes the grid as CSV. Ragged rows are written as-is.
func ToCSV(grid [][]string) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, row := range grid {
		_ = w.Write(row)
	}
	w.Flush()
	return b.String()
}

// ToExcel splits the grid into header row and data rows for spreadsheet
// consumption. Row 0 is assumed to be the header; that is not verified.
func ToExcel(grid [][]string) *ExcelData {
	out := &ExcelData{
		Headers:             []string{},
		Rows:                [][]string{},
		DataframeCompatible: true,
	}
	if len(grid) == 0 {
		return out
	}
	out.Headers = grid[0]
	if len(grid) > 1 {
		out.Rows = grid[1:]
	}
	return out
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// ToHTML renders the grid as an HTML table: row 0 as <thead>, the rest as
// <tbody>, every cell escaped.
func ToHTML(grid [][]string) string {
	if len(grid) == 0 {
		return "<table></table>"
	}

	var b strings.Builder
	b.WriteString("<table border='1'>")

	b.WriteString("<thead><tr>")
	for _, cell := range grid[0] {
		b.WriteString("<th>")
		b.WriteString(htmlEscaper.Replace(cell))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead>")

	if len(grid) > 1 {
		b.WriteString("<tbody>")
		for _, row := range grid[1:] {
			b.WriteString("<tr>")
			for _, cell := range row {
				b.WriteString("<td>")
				b.WriteString(htmlEscaper.Replace(cell))
				b.WriteString("</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody>")
	}

	b.WriteString("</table>")
	return b.String()
}
