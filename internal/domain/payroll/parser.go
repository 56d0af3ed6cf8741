package payroll

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"paysheet/internal/money"
)

// ParseRows walks the data rows of a validated workbook in file order and
// returns one outcome per row. Rows missing an employee id or name are
// skipped; everything else parses into an EmployeeRecord plus a fully
// calculated CompensationBreakdown. Earning cells that fail coercion default
// to 0.00 rather than failing the row. Row numbers are 1-based sheet rows
// (the header is row 1) so they match what the uploader sees in their
// spreadsheet program.
func ParseRows(f *excelize.File) ([]RowOutcome, error) {
	rows, err := sheetRows(f)
	if err != nil {
		return nil, fmt.Errorf("read workbook rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	cols := normalizeHeaders(rows[0])

	outcomes := make([]RowOutcome, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2

		employeeCode := cellAt(row, cols, "employee_id")
		name := cellAt(row, cols, "name")
		if employeeCode == "" || name == "" {
			outcomes = append(outcomes, RowOutcome{
				Row:    rowNum,
				Status: RowSkipped,
				Reason: "empty employee id or name",
			})
			continue
		}

		record := EmployeeRecord{
			EmployeeCode: employeeCode,
			Name:         name,
			Email:        cellAt(row, cols, "email"),
			Department:   cellAt(row, cols, "department"),
			Designation:  cellAt(row, cols, "designation"),
		}

		breakdown := CompensationBreakdown{
			BasicPay:         money.Coerce(cellAt(row, cols, "basic_pay")),
			HRA:              money.Coerce(cellAt(row, cols, "hra")),
			VariablePay:      money.Coerce(cellAt(row, cols, "variable_pay")),
			SpecialAllowance: money.Coerce(cellAt(row, cols, "special_allowance")),
			OtherAllowances:  money.Coerce(cellAt(row, cols, "other_allowances")),
			OtherDeductions:  money.Zero,
		}
		Calculate(&breakdown)

		outcomes = append(outcomes, RowOutcome{
			Row:    rowNum,
			Status: RowOK,
			Parsed: &ParsedEmployee{Row: rowNum, Record: record, Breakdown: breakdown},
		})
	}
	return outcomes, nil
}
