package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"paysheet/internal/domain/payroll"
)

// buildSlipExcel renders one employee's payroll slip: a title bar, an
// employee information block, earnings and deductions sections with their
// totals emphasized, and a highlighted net salary callout.
func buildSlipExcel(e payroll.EmployeeRecord, b payroll.CompensationBreakdown, batch *payroll.PayrollBatch) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetNameFor(e.Name)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	styles, err := newSlipStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.MergeCell(sheet, "A1", "D1"); err != nil {
		return nil, err
	}
	if err := f.SetCellStr(sheet, "A1", "PAYROLL SLIP - "+strings.ToUpper(e.Name)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", styles.title); err != nil {
		return nil, err
	}

	uploaded := "N/A"
	if batch != nil {
		uploaded = batch.UploadedAt.Format("2006-01-02")
	}
	row := 3
	if err := writeSlipSection(f, sheet, styles, &row, "EMPLOYEE INFORMATION", [][2]string{
		{"Employee ID", e.EmployeeCode},
		{"Name", e.Name},
		{"Department", orNA(e.Department)},
		{"Designation", orNA(e.Designation)},
		{"Email", orNA(e.Email)},
		{"Upload Date", uploaded},
	}, ""); err != nil {
		return nil, err
	}

	if err := writeSlipSection(f, sheet, styles, &row, "EARNINGS", [][2]string{
		{"Basic Pay", inr(b.BasicPay)},
		{"HRA", inr(b.HRA)},
		{"Variable Pay", inr(b.VariablePay)},
		{"Special Allowance", inr(b.SpecialAllowance)},
		{"Other Allowances", inr(b.OtherAllowances)},
		{"GROSS SALARY", inr(b.GrossSalary)},
	}, "earnings"); err != nil {
		return nil, err
	}

	if err := writeSlipSection(f, sheet, styles, &row, "DEDUCTIONS", [][2]string{
		{"Provident Fund (12%)", inr(b.ProvidentFund)},
		{"Professional Tax", inr(b.ProfessionalTax)},
		{"Income Tax", inr(b.IncomeTax)},
		{"Other Deductions", inr(b.OtherDeductions)},
		{"TOTAL DEDUCTIONS", inr(b.TotalDeductions)},
	}, "deductions"); err != nil {
		return nil, err
	}

	row++
	netCell := fmt.Sprintf("A%d", row)
	if err := f.MergeCell(sheet, netCell, fmt.Sprintf("B%d", row)); err != nil {
		return nil, err
	}
	if err := f.SetCellStr(sheet, netCell, "NET SALARY: "+inr(b.NetSalary)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, netCell, netCell, styles.net); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "D", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeSlipSection writes a section header spanning A:D, then label/value
// pairs in columns A and B. The final pair of an earnings or deductions
// section is the section total and gets its tinted emphasis style. row is
// advanced past the section plus one spacer row.
func writeSlipSection(f *excelize.File, sheet string, styles slipStyles, row *int, title string, pairs [][2]string, tint string) error {
	header := fmt.Sprintf("A%d", *row)
	if err := f.MergeCell(sheet, header, fmt.Sprintf("D%d", *row)); err != nil {
		return err
	}
	if err := f.SetCellStr(sheet, header, title); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, header, header, styles.section); err != nil {
		return err
	}
	*row++

	for i, pair := range pairs {
		labelCell := fmt.Sprintf("A%d", *row)
		valueCell := fmt.Sprintf("B%d", *row)
		if err := f.SetCellStr(sheet, labelCell, pair[0]); err != nil {
			return err
		}
		if err := f.SetCellStr(sheet, valueCell, pair[1]); err != nil {
			return err
		}

		labelStyle, valueStyle := styles.label, styles.value
		if tint != "" && i == len(pairs)-1 {
			total := styles.earningsTotal
			if tint == "deductions" {
				total = styles.deductionsTotal
			}
			labelStyle, valueStyle = total, total
		}
		if err := f.SetCellStyle(sheet, labelCell, labelCell, labelStyle); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, valueCell, valueCell, valueStyle); err != nil {
			return err
		}
		*row++
	}
	*row++
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// sheetNameFor keeps the slip sheet title inside the 31-character xlsx limit.
func sheetNameFor(name string) string {
	title := name + " - Payroll"
	if len(title) > 31 {
		return title[:31]
	}
	return title
}

type slipStyles struct {
	title           int
	section         int
	label           int
	value           int
	earningsTotal   int
	deductionsTotal int
	net             int
}

func newSlipStyles(f *excelize.File) (slipStyles, error) {
	var s slipStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}

	if s.title, err = f.NewStyle(&excelize.Style{
		Fill:      fill("4472C4"),
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.section, err = f.NewStyle(&excelize.Style{
		Fill:   fill("D9E2F3"),
		Font:   &excelize.Font{Bold: true, Size: 11},
		Border: border,
	}); err != nil {
		return s, err
	}
	if s.label, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: border,
	}); err != nil {
		return s, err
	}
	if s.value, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	if s.earningsTotal, err = f.NewStyle(&excelize.Style{
		Fill:   fill("E2EFDA"),
		Font:   &excelize.Font{Bold: true},
		Border: border,
	}); err != nil {
		return s, err
	}
	if s.deductionsTotal, err = f.NewStyle(&excelize.Style{
		Fill:   fill("FCE4D6"),
		Font:   &excelize.Font{Bold: true},
		Border: border,
	}); err != nil {
		return s, err
	}
	if s.net, err = f.NewStyle(&excelize.Style{
		Fill:      fill("70AD47"),
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, err
	}
	return s, nil
}
