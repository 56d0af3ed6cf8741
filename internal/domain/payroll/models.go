package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollBatch tracks one spreadsheet ingestion attempt for an owner.
type PayrollBatch struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"ownerId"`
	Filename       string     `json:"filename"`
	Status         string     `json:"status"`
	TotalEmployees int        `json:"totalEmployees"`
	ErrorDetail    string     `json:"errorDetail,omitempty"`
	UploadedAt     time.Time  `json:"uploadedAt"`
	ProcessedAt    *time.Time `json:"processedAt,omitempty"`
}

// EmployeeRecord is an employee as known to one owner. The same employee code
// may exist under different owners as fully independent records.
type EmployeeRecord struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	EmployeeCode string    `json:"employeeCode"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Department   string    `json:"department,omitempty"`
	Designation  string    `json:"designation,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CompensationBreakdown is one computed salary snapshot. Derived fields are
// filled exactly once by Calculate and the row is never mutated afterwards; a
// later batch appends a new snapshot instead.
type CompensationBreakdown struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	BatchID    string `json:"batchId"`

	BasicPay         decimal.Decimal `json:"basicPay"`
	HRA              decimal.Decimal `json:"hra"`
	VariablePay      decimal.Decimal `json:"variablePay"`
	SpecialAllowance decimal.Decimal `json:"specialAllowance"`
	OtherAllowances  decimal.Decimal `json:"otherAllowances"`

	GrossSalary decimal.Decimal `json:"grossSalary"`

	ProvidentFund   decimal.Decimal `json:"providentFund"`
	ProfessionalTax decimal.Decimal `json:"professionalTax"`
	IncomeTax       decimal.Decimal `json:"incomeTax"`
	OtherDeductions decimal.Decimal `json:"otherDeductions"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`

	NetSalary   decimal.Decimal `json:"netSalary"`
	TakeHomePay decimal.Decimal `json:"takeHomePay"`

	CreatedAt time.Time `json:"createdAt"`
}

// ParsedEmployee is one successfully parsed data row, not yet persisted.
type ParsedEmployee struct {
	Row       int
	Record    EmployeeRecord
	Breakdown CompensationBreakdown
}

// RowStatus discriminates per-row parse outcomes.
type RowStatus string

const (
	RowOK      RowStatus = "ok"
	RowSkipped RowStatus = "skipped"
	RowFailed  RowStatus = "failed"
)

// RowOutcome records what happened to a single data row. Parsed is set only
// when Status is RowOK.
type RowOutcome struct {
	Row    int
	Status RowStatus
	Reason string
	Parsed *ParsedEmployee
}

// RowError is a per-row persistence failure; the batch still completes.
type RowError struct {
	Row     int
	Message string
}

// EmployeeWithBreakdown pairs an employee with one breakdown for listings.
type EmployeeWithBreakdown struct {
	Employee  EmployeeRecord         `json:"employee"`
	Breakdown *CompensationBreakdown `json:"breakdown,omitempty"`
}

// DashboardStats aggregates one owner's activity.
type DashboardStats struct {
	TotalUploads      int             `json:"totalUploads"`
	CompletedUploads  int             `json:"completedUploads"`
	FailedUploads     int             `json:"failedUploads"`
	ProcessingUploads int             `json:"processingUploads"`
	TotalEmployees    int             `json:"totalEmployees"`
	TotalReports      int             `json:"totalReports"`
	TotalDisbursement decimal.Decimal `json:"totalDisbursement"`
	RecentUploads     []PayrollBatch  `json:"recentUploads"`
}
