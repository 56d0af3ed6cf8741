package report

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const reportColumns = `id, owner_id, batch_id, employee_id, kind, format, filename, storage_path, file_size, generated_at`

func (s *Store) Insert(ctx context.Context, r GeneratedReport) (GeneratedReport, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO generated_reports (owner_id, batch_id, employee_id, kind, format, filename, storage_path, file_size)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING `+reportColumns,
		r.OwnerID, r.BatchID, r.EmployeeID, r.Kind, r.Format, r.Filename, r.StoragePath, r.FileSize)
	return scanReport(row)
}

func (s *Store) List(ctx context.Context, ownerID string) ([]GeneratedReport, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+reportColumns+`
    FROM generated_reports
    WHERE owner_id = $1
    ORDER BY generated_at DESC
  `, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GeneratedReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, ownerID, reportID string) (GeneratedReport, error) {
	r, err := scanReport(s.DB.QueryRow(ctx, `
    SELECT `+reportColumns+`
    FROM generated_reports
    WHERE owner_id = $1 AND id = $2
  `, ownerID, reportID))
	if errors.Is(err, pgx.ErrNoRows) {
		return GeneratedReport{}, ErrReportNotFound
	}
	return r, err
}

func (s *Store) Delete(ctx context.Context, ownerID, reportID string) (GeneratedReport, error) {
	r, err := scanReport(s.DB.QueryRow(ctx, `
    DELETE FROM generated_reports
    WHERE owner_id = $1 AND id = $2
    RETURNING `+reportColumns, ownerID, reportID))
	if errors.Is(err, pgx.ErrNoRows) {
		return GeneratedReport{}, ErrReportNotFound
	}
	return r, err
}

func scanReport(row pgx.Row) (GeneratedReport, error) {
	var r GeneratedReport
	err := row.Scan(&r.ID, &r.OwnerID, &r.BatchID, &r.EmployeeID, &r.Kind, &r.Format,
		&r.Filename, &r.StoragePath, &r.FileSize, &r.GeneratedAt)
	return r, err
}
