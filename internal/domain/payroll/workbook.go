package payroll

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ValidationResult carries the outcome of the structural checks that gate
// parsing. Errors is ordered and human-readable; it is surfaced verbatim to
// the uploader.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// OpenWorkbook opens an uploaded spreadsheet from its raw bytes. Corrupt or
// unsupported files come back as a wrapped error, never a panic.
func OpenWorkbook(data []byte) (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return f, nil
}

// ValidateWorkbook runs the structural checks, in order: at least one data
// row, all required columns present (named individually when missing), and no
// more than MaxDataRows data rows. It inspects only; no records are created.
func ValidateWorkbook(f *excelize.File) ValidationResult {
	rows, err := sheetRows(f)
	if err != nil {
		return invalid(fmt.Sprintf("error reading workbook: %v", err))
	}

	if len(rows) < 2 {
		return invalid("workbook is empty or has no data rows")
	}

	headers := normalizeHeaders(rows[0])
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := headers[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return invalid("missing required columns: " + strings.Join(missing, ", "))
	}

	if len(rows)-1 > MaxDataRows {
		return invalid(fmt.Sprintf("workbook contains more than %d employees. Maximum limit is %d.", MaxDataRows, MaxDataRows))
	}

	return ValidationResult{Valid: true}
}

func invalid(msgs ...string) ValidationResult {
	return ValidationResult{Valid: false, Errors: msgs}
}

// sheetRows reads the first sheet of the workbook.
func sheetRows(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// normalizeHeaders maps normalized header names to their column index.
// Normalization lower-cases and replaces spaces with underscores, so
// "Basic Pay" and "basic_pay" address the same column.
func normalizeHeaders(header []string) map[string]int {
	out := make(map[string]int, len(header))
	for idx, h := range header {
		name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if name == "" {
			continue
		}
		if _, seen := out[name]; !seen {
			out[name] = idx
		}
	}
	return out
}

// cellAt fetches a trimmed cell by normalized column name; rows shorter than
// the header (excelize drops trailing empties) read as blank.
func cellAt(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
