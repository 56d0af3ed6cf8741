package payroll

const (
	BatchStatusPending    = "pending"
	BatchStatusProcessing = "processing"
	BatchStatusCompleted  = "completed"
	BatchStatusFailed     = "failed"
)

// RequiredColumns are the header names every workbook must carry, after
// normalization (lower-cased, spaces replaced with underscores).
var RequiredColumns = []string{
	"employee_id", "name", "email", "department", "designation",
	"basic_pay", "hra", "variable_pay", "special_allowance", "other_allowances",
}

// MaxDataRows caps a single workbook at 100 employees; larger files are
// rejected outright rather than partially ingested.
const MaxDataRows = 100

// UpsertPolicy controls what happens when an uploaded row names an employee
// code the owner already has. Either way the existing record is reused and a
// new breakdown is appended; the policies differ only in whether descriptive
// fields (name, email, department, designation) are refreshed from the row.
type UpsertPolicy string

const (
	UpsertUpdate UpsertPolicy = "update"
	UpsertKeep   UpsertPolicy = "keep"
)
