package payroll

import "context"

// StoreAPI is the persistence seam for the ingest pipeline and the read-side
// handlers. The pgx implementation lives in store.go; tests use an in-memory
// fake.
type StoreAPI interface {
	CreateBatch(ctx context.Context, ownerID, filename string) (PayrollBatch, error)
	MarkBatchProcessing(ctx context.Context, batchID string) error
	MarkBatchFailed(ctx context.Context, batchID, detail string) error

	// PersistRows writes parsed rows inside one transaction, isolating each
	// row in a savepoint so a single failure (including an employee-code
	// uniqueness collision) never aborts the batch. It stamps the batch
	// completed with the surviving count and returns it.
	PersistRows(ctx context.Context, batch PayrollBatch, policy UpsertPolicy, rows []*ParsedEmployee) (PayrollBatch, []RowError, error)

	ListBatches(ctx context.Context, ownerID string) ([]PayrollBatch, error)
	GetBatch(ctx context.Context, ownerID, batchID string) (PayrollBatch, error)
	DeleteBatch(ctx context.Context, ownerID, batchID string) error

	ListEmployees(ctx context.Context, ownerID, batchID string) ([]EmployeeWithBreakdown, error)
	GetEmployee(ctx context.Context, ownerID, employeeID string) (EmployeeWithBreakdown, error)

	Stats(ctx context.Context, ownerID string) (DashboardStats, error)
}
