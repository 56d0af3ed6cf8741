package payroll

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const batchColumns = `id, owner_id, filename, status, total_employees, COALESCE(error_detail, ''), uploaded_at, processed_at`

func (s *Store) CreateBatch(ctx context.Context, ownerID, filename string) (PayrollBatch, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_batches (owner_id, filename, status)
    VALUES ($1, $2, $3)
    RETURNING `+batchColumns, ownerID, filename, BatchStatusPending)
	return scanBatch(row)
}

func (s *Store) MarkBatchProcessing(ctx context.Context, batchID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_batches SET status = $1 WHERE id = $2
  `, BatchStatusProcessing, batchID)
	return err
}

func (s *Store) MarkBatchFailed(ctx context.Context, batchID, detail string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_batches SET status = $1, error_detail = $2, processed_at = now() WHERE id = $3
  `, BatchStatusFailed, detail, batchID)
	return err
}

// PersistRows writes the parsed rows inside one transaction. Each row runs in
// a savepoint so a failing row (bad data, employee-code collision from a
// concurrent ingest) rolls back alone and the loop continues. The final batch
// stamp commits atomically with the rows that survived, so the stored count
// can never disagree with the stored records.
func (s *Store) PersistRows(ctx context.Context, batch PayrollBatch, policy UpsertPolicy, rows []*ParsedEmployee) (PayrollBatch, []RowError, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return batch, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created := 0
	var rowErrs []RowError
	for _, row := range rows {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return batch, nil, err
		}
		if err := insertRow(ctx, sp, batch, policy, row); err != nil {
			_ = sp.Rollback(ctx)
			rowErrs = append(rowErrs, RowError{Row: row.Row, Message: err.Error()})
			continue
		}
		if err := sp.Commit(ctx); err != nil {
			return batch, nil, err
		}
		created++
	}

	completed, err := scanBatch(tx.QueryRow(ctx, `
    UPDATE payroll_batches
    SET status = $1, total_employees = $2, processed_at = now(), error_detail = NULL
    WHERE id = $3
    RETURNING `+batchColumns, BatchStatusCompleted, created, batch.ID))
	if err != nil {
		return batch, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return batch, nil, err
	}
	return completed, rowErrs, nil
}

func insertRow(ctx context.Context, tx pgx.Tx, batch PayrollBatch, policy UpsertPolicy, row *ParsedEmployee) error {
	var employeeID string
	err := tx.QueryRow(ctx, `
    SELECT id FROM employees WHERE owner_id = $1 AND employee_code = $2
  `, batch.OwnerID, row.Record.EmployeeCode).Scan(&employeeID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if err := tx.QueryRow(ctx, `
      INSERT INTO employees (owner_id, employee_code, name, email, department, designation)
      VALUES ($1,$2,$3,$4,$5,$6)
      RETURNING id
    `, batch.OwnerID, row.Record.EmployeeCode, row.Record.Name,
			nullIfEmpty(row.Record.Email), nullIfEmpty(row.Record.Department), nullIfEmpty(row.Record.Designation)).Scan(&employeeID); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if policy == UpsertUpdate {
			if _, err := tx.Exec(ctx, `
        UPDATE employees SET name = $1, email = $2, department = $3, designation = $4
        WHERE id = $5
      `, row.Record.Name, nullIfEmpty(row.Record.Email), nullIfEmpty(row.Record.Department), nullIfEmpty(row.Record.Designation), employeeID); err != nil {
				return err
			}
		}
	}

	b := row.Breakdown
	_, err = tx.Exec(ctx, `
    INSERT INTO salary_breakdowns (
      employee_id, batch_id,
      basic_pay, hra, variable_pay, special_allowance, other_allowances,
      gross_salary,
      provident_fund, professional_tax, income_tax, other_deductions, total_deductions,
      net_salary, take_home_pay
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
  `, employeeID, batch.ID,
		b.BasicPay, b.HRA, b.VariablePay, b.SpecialAllowance, b.OtherAllowances,
		b.GrossSalary,
		b.ProvidentFund, b.ProfessionalTax, b.IncomeTax, b.OtherDeductions, b.TotalDeductions,
		b.NetSalary, b.TakeHomePay)
	return err
}

func (s *Store) ListBatches(ctx context.Context, ownerID string) ([]PayrollBatch, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+batchColumns+`
    FROM payroll_batches
    WHERE owner_id = $1
    ORDER BY uploaded_at DESC
  `, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batches []PayrollBatch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

func (s *Store) GetBatch(ctx context.Context, ownerID, batchID string) (PayrollBatch, error) {
	batch, err := scanBatch(s.DB.QueryRow(ctx, `
    SELECT `+batchColumns+`
    FROM payroll_batches
    WHERE owner_id = $1 AND id = $2
  `, ownerID, batchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return PayrollBatch{}, ErrBatchNotFound
	}
	return batch, err
}

func (s *Store) DeleteBatch(ctx context.Context, ownerID, batchID string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM payroll_batches WHERE owner_id = $1 AND id = $2
  `, ownerID, batchID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBatchNotFound
	}
	return nil
}

const breakdownColumns = `b.id, b.employee_id, b.batch_id,
       b.basic_pay, b.hra, b.variable_pay, b.special_allowance, b.other_allowances,
       b.gross_salary,
       b.provident_fund, b.professional_tax, b.income_tax, b.other_deductions, b.total_deductions,
       b.net_salary, b.take_home_pay, b.created_at`

const employeeColumns = `e.id, e.owner_id, e.employee_code, e.name,
       COALESCE(e.email, ''), COALESCE(e.department, ''), COALESCE(e.designation, ''), e.created_at`

func (s *Store) ListEmployees(ctx context.Context, ownerID, batchID string) ([]EmployeeWithBreakdown, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+employeeColumns+`, `+breakdownColumns+`
    FROM salary_breakdowns b
    JOIN employees e ON b.employee_id = e.id
    WHERE e.owner_id = $1 AND b.batch_id = $2
    ORDER BY e.employee_code
  `, ownerID, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeeWithBreakdown
	for rows.Next() {
		var e EmployeeRecord
		var b CompensationBreakdown
		if err := rows.Scan(
			&e.ID, &e.OwnerID, &e.EmployeeCode, &e.Name, &e.Email, &e.Department, &e.Designation, &e.CreatedAt,
			&b.ID, &b.EmployeeID, &b.BatchID,
			&b.BasicPay, &b.HRA, &b.VariablePay, &b.SpecialAllowance, &b.OtherAllowances,
			&b.GrossSalary,
			&b.ProvidentFund, &b.ProfessionalTax, &b.IncomeTax, &b.OtherDeductions, &b.TotalDeductions,
			&b.NetSalary, &b.TakeHomePay, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, EmployeeWithBreakdown{Employee: e, Breakdown: &b})
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, ownerID, employeeID string) (EmployeeWithBreakdown, error) {
	var e EmployeeRecord
	err := s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    WHERE e.owner_id = $1 AND e.id = $2
  `, ownerID, employeeID).Scan(&e.ID, &e.OwnerID, &e.EmployeeCode, &e.Name, &e.Email, &e.Department, &e.Designation, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeWithBreakdown{}, ErrEmployeeNotFound
	}
	if err != nil {
		return EmployeeWithBreakdown{}, err
	}

	var b CompensationBreakdown
	err = s.DB.QueryRow(ctx, `
    SELECT `+breakdownColumns+`
    FROM salary_breakdowns b
    WHERE b.employee_id = $1
    ORDER BY b.created_at DESC
    LIMIT 1
  `, employeeID).Scan(
		&b.ID, &b.EmployeeID, &b.BatchID,
		&b.BasicPay, &b.HRA, &b.VariablePay, &b.SpecialAllowance, &b.OtherAllowances,
		&b.GrossSalary,
		&b.ProvidentFund, &b.ProfessionalTax, &b.IncomeTax, &b.OtherDeductions, &b.TotalDeductions,
		&b.NetSalary, &b.TakeHomePay, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeWithBreakdown{Employee: e}, nil
	}
	if err != nil {
		return EmployeeWithBreakdown{}, err
	}
	return EmployeeWithBreakdown{Employee: e, Breakdown: &b}, nil
}

func (s *Store) Stats(ctx context.Context, ownerID string) (DashboardStats, error) {
	var stats DashboardStats
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE status = 'completed'),
           COUNT(1) FILTER (WHERE status = 'failed'),
           COUNT(1) FILTER (WHERE status = 'processing')
    FROM payroll_batches
    WHERE owner_id = $1
  `, ownerID).Scan(&stats.TotalUploads, &stats.CompletedUploads, &stats.FailedUploads, &stats.ProcessingUploads)
	if err != nil {
		return stats, err
	}

	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM employees WHERE owner_id = $1
  `, ownerID).Scan(&stats.TotalEmployees); err != nil {
		return stats, err
	}

	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM generated_reports WHERE owner_id = $1
  `, ownerID).Scan(&stats.TotalReports); err != nil {
		return stats, err
	}

	if err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(b.net_salary), 0)
    FROM salary_breakdowns b
    JOIN employees e ON b.employee_id = e.id
    WHERE e.owner_id = $1
  `, ownerID).Scan(&stats.TotalDisbursement); err != nil {
		return stats, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT `+batchColumns+`
    FROM payroll_batches
    WHERE owner_id = $1
    ORDER BY uploaded_at DESC
    LIMIT 5
  `, ownerID)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return stats, err
		}
		stats.RecentUploads = append(stats.RecentUploads, batch)
	}
	return stats, rows.Err()
}

func scanBatch(row pgx.Row) (PayrollBatch, error) {
	var batch PayrollBatch
	err := row.Scan(&batch.ID, &batch.OwnerID, &batch.Filename, &batch.Status,
		&batch.TotalEmployees, &batch.ErrorDetail, &batch.UploadedAt, &batch.ProcessedAt)
	return batch, err
}

func nullIfEmpty(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
