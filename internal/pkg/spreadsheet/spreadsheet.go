package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row keyed by normalized column header.
type Row map[string]string

// NormalizeHeader canonicalizes a column header: lower case, trimmed,
// inner whitespace and dashes collapsed to single underscores. Uploaded
// sheets come from many sources, so "Date Of Birth", "date-of-birth" and
// "DOB " must land on the same key.
func NormalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.ReplaceAll(h, "-", " ")
	h = strings.Join(strings.Fields(h), "_")
	return h
}

// Parse reads the first sheet of an xlsx workbook. The first row is taken
// as the header row; every following row becomes a Row keyed by the
// normalized headers. Trailing empty cells are tolerated.
func Parse(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rawRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rawRows) == 0 {
		return nil, nil
	}

	headers := make([]string, len(rawRows[0]))
	for i, h := range rawRows[0] {
		headers[i] = NormalizeHeader(h)
	}

	rows := make([]Row, 0, len(rawRows)-1)
	for _, raw := range rawRows[1:] {
		row := make(Row, len(headers))
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if i < len(raw) {
				value = strings.TrimSpace(raw[i])
			}
			if value != "" {
				empty = false
			}
			row[header] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Pick returns the first non-empty value among the given column aliases.
func (r Row) Pick(aliases ...string) string {
	for _, alias := range aliases {
		if value := r[alias]; value != "" {
			return value
		}
	}
	return ""
}

// PickFloat returns the first alias value parsed as a float.
// The second return value is false when no alias holds a parseable number.
func (r Row) PickFloat(aliases ...string) (float64, bool) {
	raw := r.Pick(aliases...)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// PickInt returns the first alias value parsed as an int.
func (r Row) PickInt(aliases ...string) (int, bool) {
	raw := r.Pick(aliases...)
	if raw == "" {
		return 0, false
	}
	// Excel often renders integers as "2024.0"
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int(f)) {
		return int(f), true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

// Write builds an xlsx workbook with a single sheet holding the given
// header row and data rows, returning the serialized bytes.
func Write(headers []string, rows [][]any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headerRow := make([]any, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf, nil
}
