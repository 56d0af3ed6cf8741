package report

import (
	"time"

	"github.com/shopspring/decimal"

	"paysheet/internal/domain/payroll"
)

// Kind distinguishes whole-batch reports from single-employee slips.
type Kind string

const (
	KindAggregate  Kind = "aggregate"
	KindIndividual Kind = "individual"
)

// Format is the output file format.
type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// ParseFormat validates a format string from a request.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatExcel, FormatPDF:
		return Format(raw), nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ContentType returns the MIME type a download of this format is served with.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension returns the filename extension including the dot.
func (f Format) Extension() string {
	if f == FormatPDF {
		return ".pdf"
	}
	return ".xlsx"
}

// GeneratedReport is the stored record of one produced file. StoragePath
// points at the (possibly encrypted) file on disk; the payload itself never
// goes in the database.
type GeneratedReport struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	BatchID     *string   `json:"batchId,omitempty"`
	EmployeeID  *string   `json:"employeeId,omitempty"`
	Kind        Kind      `json:"kind"`
	Format      Format    `json:"format"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"-"`
	FileSize    int64     `json:"fileSize"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Totals aggregates a batch for the summary sections. Employees counts only
// rows carrying a breakdown, so the averages divide by what the builders
// actually render.
type Totals struct {
	Employees    int
	Gross        decimal.Decimal
	Deductions   decimal.Decimal
	Net          decimal.Decimal
	AverageGross decimal.Decimal
	AverageNet   decimal.Decimal
}

func totalsOf(rows []payroll.EmployeeWithBreakdown) Totals {
	var t Totals
	for _, row := range rows {
		if row.Breakdown == nil {
			continue
		}
		t.Employees++
		t.Gross = t.Gross.Add(row.Breakdown.GrossSalary)
		t.Deductions = t.Deductions.Add(row.Breakdown.TotalDeductions)
		t.Net = t.Net.Add(row.Breakdown.NetSalary)
	}
	if t.Employees > 0 {
		count := decimal.NewFromInt(int64(t.Employees))
		t.AverageGross = t.Gross.Div(count).Round(2)
		t.AverageNet = t.Net.Div(count).Round(2)
	}
	return t
}
