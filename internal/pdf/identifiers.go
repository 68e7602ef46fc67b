package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadIdentifiersFile loads an identifier list from disk. Spreadsheets
// (.xlsx) contribute the first non-empty cell of every row of the first
// sheet; anything else is read as text with one identifier per line. The
// result is the raw newline-separated block that ParseIdentifiers expects.
func ReadIdentifiersFile(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return "", fmt.Errorf("open xlsx: %w", err)
		}
		defer f.Close()
		return identifiersFromWorkbook(f)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadIdentifiers reads a text identifier list from r
func ReadIdentifiers(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func identifiersFromWorkbook(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	var sb strings.Builder
	for _, row := range rows {
		for _, cell := range row {
			if cell = strings.TrimSpace(cell); cell != "" {
				sb.WriteString(cell)
				sb.WriteString("\n")
				break
			}
		}
	}
	return sb.String(), nil
}
