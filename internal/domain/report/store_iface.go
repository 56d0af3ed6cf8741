package report

import "context"

// StoreAPI is the persistence seam for report records. Payload bytes live in
// the FileStore; this tracks only the metadata rows.
type StoreAPI interface {
	Insert(ctx context.Context, r GeneratedReport) (GeneratedReport, error)
	List(ctx context.Context, ownerID string) ([]GeneratedReport, error)
	Get(ctx context.Context, ownerID, reportID string) (GeneratedReport, error)
	Delete(ctx context.Context, ownerID, reportID string) (GeneratedReport, error)
}
