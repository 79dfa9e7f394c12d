package tables

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// Save persists one file per exported table into outputDir and returns
// the created paths grouped by format key. A failure on one table (for
// example a malformed excel payload) is logged and skipped; the rest of
// the set is still written.
func Save(res *Result, outputDir string, logger *slog.Logger) (map[string][]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outputDir, err)
	}

	saved := map[string][]string{
		"csv":   {},
		"excel": {},
		"json":  {},
		"html":  {},
	}

	for _, t := range res.Tables {
		path, err := saveTable(t, outputDir)
		if err != nil {
			logger.Warn("tables.save.table_error", "id", t.ID, "format", t.Format, "error", err)
			continue
		}
		saved[string(t.Format)] = append(saved[string(t.Format)], path)
	}

	logger.Info("tables.save.ok",
		"output_dir", outputDir,
		"tables", len(res.Tables),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return saved, nil
}

func saveTable(t ExportedTable, outputDir string) (string, error) {
	switch t.Format {
	case FormatCSV:
		content, ok := t.Data.(string)
		if !ok {
			return "", fmt.Errorf("csv payload is %T, want string", t.Data)
		}
		path := filepath.Join(outputDir, fmt.Sprintf("table_%d.csv", t.ID))
		return path, os.WriteFile(path, []byte(content), 0o644)

	case FormatHTML:
		content, ok := t.Data.(string)
		if !ok {
			return "", fmt.Errorf("html payload is %T, want string", t.Data)
		}
		path := filepath.Join(outputDir, fmt.Sprintf("table_%d.html", t.ID))
		return path, os.WriteFile(path, []byte(content), 0o644)

	case FormatExcel:
		data, ok := t.Data.(*ExcelData)
		if !ok {
			return "", fmt.Errorf("excel payload is %T, want *ExcelData", t.Data)
		}
		path := filepath.Join(outputDir, fmt.Sprintf("table_%d.xlsx", t.ID))
		return path, writeWorkbook(data, path)

	default:
		b, err := json.MarshalIndent(t.Data, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json payload: %w", err)
		}
		path := filepath.Join(outputDir, fmt.Sprintf("table_%d.json", t.ID))
		return path, os.WriteFile(path, b, 0o644)
	}
}

func writeWorkbook(data *ExcelData, path string) error {
	f := excelize.NewFile()
	const sheet = "Sheet1"

	for i, h := range data.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, row := range data.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}
