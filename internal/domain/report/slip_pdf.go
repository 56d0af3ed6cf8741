package report

import (
	"bytes"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"paysheet/internal/domain/payroll"
)

// buildSlipPDF renders one employee's payroll slip as a single-page PDF:
// employee information, earnings and deductions tables with emphasized
// totals, and a boxed net salary figure.
func buildSlipPDF(e payroll.EmployeeRecord, b payroll.CompensationBreakdown, batch *payroll.PayrollBatch) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(68, 114, 196)
	pdf.CellFormat(0, 12, "PAYROLL SLIP - "+strings.ToUpper(e.Name), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	payPeriod := "N/A"
	if batch != nil {
		payPeriod = batch.UploadedAt.Format("January 2006")
	}
	writeSlipHeading(pdf, "Employee Information")
	writeMetaLine(pdf, "Employee ID", e.EmployeeCode)
	writeMetaLine(pdf, "Name", e.Name)
	writeMetaLine(pdf, "Department", orNA(e.Department))
	writeMetaLine(pdf, "Designation", orNA(e.Designation))
	writeMetaLine(pdf, "Email", orNA(e.Email))
	writeMetaLine(pdf, "Pay Period", payPeriod)
	pdf.Ln(4)

	writeSlipHeading(pdf, "Earnings")
	writeTableHeader(pdf, "Component", "Amount")
	writeAmountRow(pdf, "Basic Pay", b.BasicPay, false)
	writeAmountRow(pdf, "HRA", b.HRA, false)
	writeAmountRow(pdf, "Variable Pay", b.VariablePay, false)
	writeAmountRow(pdf, "Special Allowance", b.SpecialAllowance, false)
	writeAmountRow(pdf, "Other Allowances", b.OtherAllowances, false)
	writeAmountRow(pdf, "GROSS SALARY", b.GrossSalary, true)
	pdf.Ln(4)

	writeSlipHeading(pdf, "Deductions")
	writeTableHeader(pdf, "Component", "Amount")
	writeAmountRow(pdf, "Provident Fund (12%)", b.ProvidentFund, false)
	writeAmountRow(pdf, "Professional Tax", b.ProfessionalTax, false)
	writeAmountRow(pdf, "Income Tax", b.IncomeTax, false)
	writeAmountRow(pdf, "Other Deductions", b.OtherDeductions, false)
	writeAmountRow(pdf, "TOTAL DEDUCTIONS", b.TotalDeductions, true)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(112, 173, 71)
	pdf.SetDrawColor(112, 173, 71)
	pdf.SetLineWidth(0.6)
	pdf.CellFormat(0, 14, "NET SALARY: "+inr(b.NetSalary), "1", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 6, "Generated on: "+time.Now().Format("January 2, 2006 at 3:04 PM"), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSlipHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(47, 85, 151)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}
