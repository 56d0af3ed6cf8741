package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"paysheet/internal/domain/payroll"
)

var aggregateHeaders = []string{
	"Employee ID", "Name", "Email", "Department", "Designation",
	"Basic Pay", "HRA", "Variable Pay", "Special Allowance", "Other Allowances",
	"Gross Salary", "PF", "Professional Tax", "Income Tax", "Other Deductions",
	"Total Deductions", "Net Salary", "Take Home Pay",
}

// firstMoneyColumn is where the text columns end and the currency columns
// begin, 1-based.
const firstMoneyColumn = 6

// buildAggregateExcel renders the whole-batch spreadsheet: one styled header
// row, one row per employee with currency formatting from Basic Pay onward,
// and a SUMMARY block below the data. Employees without a breakdown are
// skipped.
func buildAggregateExcel(rows []payroll.EmployeeWithBreakdown) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Payroll Report"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	for col, header := range aggregateHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellStr(sheet, cell, header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, styles.header); err != nil {
			return nil, err
		}
	}

	rowNum := 2
	for _, row := range rows {
		b := row.Breakdown
		if b == nil {
			continue
		}
		values := []any{
			row.Employee.EmployeeCode, row.Employee.Name, row.Employee.Email,
			row.Employee.Department, row.Employee.Designation,
			b.BasicPay.InexactFloat64(), b.HRA.InexactFloat64(),
			b.VariablePay.InexactFloat64(), b.SpecialAllowance.InexactFloat64(),
			b.OtherAllowances.InexactFloat64(),
			b.GrossSalary.InexactFloat64(),
			b.ProvidentFund.InexactFloat64(), b.ProfessionalTax.InexactFloat64(),
			b.IncomeTax.InexactFloat64(), b.OtherDeductions.InexactFloat64(),
			b.TotalDeductions.InexactFloat64(),
			b.NetSalary.InexactFloat64(), b.TakeHomePay.InexactFloat64(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
			style := styles.text
			if col+1 >= firstMoneyColumn {
				style = styles.money
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return nil, err
			}
		}
		rowNum++
	}

	if err := f.SetColWidth(sheet, "A", "E", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "F", "R", 16); err != nil {
		return nil, err
	}

	if err := writeSummaryBlock(f, sheet, styles, rowNum+1, totalsOf(rows)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummaryBlock(f *excelize.File, sheet string, styles sheetStyles, startRow int, totals Totals) error {
	cell := fmt.Sprintf("A%d", startRow)
	if err := f.SetCellStr(sheet, cell, "SUMMARY"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell, cell, styles.sectionTitle); err != nil {
		return err
	}

	lines := []struct {
		label string
		value any
		money bool
	}{
		{"Total Employees", totals.Employees, false},
		{"Total Gross Salary", totals.Gross.InexactFloat64(), true},
		{"Total Deductions", totals.Deductions.InexactFloat64(), true},
		{"Total Net Salary", totals.Net.InexactFloat64(), true},
	}
	for i, line := range lines {
		row := startRow + i + 1
		labelCell := fmt.Sprintf("A%d", row)
		if err := f.SetCellStr(sheet, labelCell, line.label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, labelCell, labelCell, styles.bold); err != nil {
			return err
		}
		valueCell := fmt.Sprintf("B%d", row)
		if err := f.SetCellValue(sheet, valueCell, line.value); err != nil {
			return err
		}
		if line.money {
			if err := f.SetCellStyle(sheet, valueCell, valueCell, styles.moneyPlain); err != nil {
				return err
			}
		}
	}
	return nil
}

// sheetStyles carries the style ids shared by the workbook builders.
type sheetStyles struct {
	header       int
	text         int
	money        int
	moneyPlain   int
	bold         int
	sectionTitle int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	numFmt := currencyNumFmt
	border := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	if s.header, err = f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.text, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
		Border:       border,
	}); err != nil {
		return s, err
	}
	if s.moneyPlain, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &numFmt,
		Alignment:    &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return s, err
	}
	if s.bold, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return s, err
	}
	if s.sectionTitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	}); err != nil {
		return s, err
	}
	return s, nil
}
