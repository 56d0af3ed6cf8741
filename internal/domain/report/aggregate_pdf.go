package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"paysheet/internal/domain/payroll"
)

// buildAggregatePDF renders the whole-batch PDF: a cover page with batch
// metadata, one page per employee with the full component table, and a
// closing summary page with totals and averages. Amounts use the "Rs."
// prefix; the core PDF fonts cannot draw the rupee glyph.
func buildAggregatePDF(batch payroll.PayrollBatch, rows []payroll.EmployeeWithBreakdown) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	totals := totalsOf(rows)

	pdf.AddPage()
	writeTitle(pdf, "Payroll Report")
	writeMetaLine(pdf, "Report Date", time.Now().Format("January 2, 2006"))
	writeMetaLine(pdf, "Source File", batch.Filename)
	writeMetaLine(pdf, "Batch", batch.ID)
	writeMetaLine(pdf, "Total Employees", fmt.Sprintf("%d", totals.Employees))

	for _, row := range rows {
		if row.Breakdown == nil {
			continue
		}
		pdf.AddPage()
		writeEmployeePage(pdf, row.Employee, *row.Breakdown)
	}

	pdf.AddPage()
	writeSummaryPage(pdf, totals)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(68, 114, 196)
	pdf.CellFormat(0, 14, title, "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)
}

func writeMetaLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(68, 114, 196)
	pdf.CellFormat(50, 8, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
}

func writeEmployeePage(pdf *gofpdf.Fpdf, e payroll.EmployeeRecord, b payroll.CompensationBreakdown) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(68, 114, 196)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s (%s)", e.Name, e.EmployeeCode), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	if e.Email != "" {
		writeMetaLine(pdf, "Email", e.Email)
	}
	if e.Department != "" {
		writeMetaLine(pdf, "Department", e.Department)
	}
	if e.Designation != "" {
		writeMetaLine(pdf, "Designation", e.Designation)
	}
	pdf.Ln(4)

	writeTableHeader(pdf, "Component", "Amount")
	writeAmountRow(pdf, "Basic Pay", b.BasicPay, false)
	writeAmountRow(pdf, "HRA", b.HRA, false)
	writeAmountRow(pdf, "Variable Pay", b.VariablePay, false)
	writeAmountRow(pdf, "Special Allowance", b.SpecialAllowance, false)
	writeAmountRow(pdf, "Other Allowances", b.OtherAllowances, false)
	writeAmountRow(pdf, "Gross Salary", b.GrossSalary, true)

	writeAmountRow(pdf, "Provident Fund", b.ProvidentFund, false)
	writeAmountRow(pdf, "Professional Tax", b.ProfessionalTax, false)
	writeAmountRow(pdf, "Income Tax", b.IncomeTax, false)
	writeAmountRow(pdf, "Other Deductions", b.OtherDeductions, false)
	writeAmountRow(pdf, "Total Deductions", b.TotalDeductions, true)

	writeAccentRow(pdf, "Net Salary", inr(b.NetSalary))
	writeAccentRow(pdf, "Take Home Pay", inr(b.TakeHomePay))
}

func writeSummaryPage(pdf *gofpdf.Fpdf, totals Totals) {
	writeTitle(pdf, "Summary")

	writeTableHeader(pdf, "Metric", "Value")
	writeTextRow(pdf, "Total Employees", fmt.Sprintf("%d", totals.Employees))
	writeAmountRow(pdf, "Total Gross Salary", totals.Gross, false)
	writeAmountRow(pdf, "Total Deductions", totals.Deductions, false)
	writeAmountRow(pdf, "Total Net Salary", totals.Net, false)
	writeAmountRow(pdf, "Average Gross Salary", totals.AverageGross, false)
	writeAmountRow(pdf, "Average Net Salary", totals.AverageNet, false)
}

const (
	tableLabelWidth  = 90.0
	tableAmountWidth = 60.0
)

func writeTableHeader(pdf *gofpdf.Fpdf, label, amount string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(tableLabelWidth, 8, label, "1", 0, "C", true, 0, "")
	pdf.CellFormat(tableAmountWidth, 8, amount, "1", 1, "C", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func writeAmountRow(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal, emphasized bool) {
	style := ""
	fill := false
	if emphasized {
		style = "B"
		fill = true
		pdf.SetFillColor(231, 230, 230)
	}
	pdf.SetFont("Helvetica", style, 9)
	pdf.CellFormat(tableLabelWidth, 7, label, "1", 0, "L", fill, 0, "")
	pdf.CellFormat(tableAmountWidth, 7, inr(amount), "1", 1, "R", fill, 0, "")
}

func writeTextRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(tableLabelWidth, 7, label, "1", 0, "L", false, 0, "")
	pdf.CellFormat(tableAmountWidth, 7, value, "1", 1, "R", false, 0, "")
}

func writeAccentRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(tableLabelWidth, 8, label, "1", 0, "L", true, 0, "")
	pdf.CellFormat(tableAmountWidth, 8, value, "1", 1, "R", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
