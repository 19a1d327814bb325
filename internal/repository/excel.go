package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ConvertExcelToJSON reads the first sheet of a workbook and writes its
// rows to destPath as a JSON array of objects keyed by the header row.
// Empty cells become null and rows with no values are dropped. It returns
// the number of rows written.
func ConvertExcelToJSON(r io.Reader, destPath string) (int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return 0, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("sheet %q is empty", sheet)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	records := make([]map[string]interface{}, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]interface{}, len(header))
		hasValue := false
		for i, key := range header {
			if key == "" {
				continue
			}
			var cell string
			if i < len(row) {
				cell = strings.TrimSpace(row[i])
			}
			if cell == "" {
				record[key] = nil
				continue
			}
			record[key] = cell
			hasValue = true
		}
		if hasValue {
			records = append(records, record)
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode rows: %w", err)
	}
	if dir := filepath.Dir(destPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	tmp := destPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, destPath); err != nil {
		return 0, fmt.Errorf("failed to replace %s: %w", destPath, err)
	}
	return len(records), nil
}
