package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"paysheet/internal/domain/payroll"
	"paysheet/internal/platform/metrics"
)

// Service builds report files from persisted payroll data and tracks them as
// GeneratedReport records. Aggregate reports require a completed batch;
// individual slips work from a chosen batch or the employee's latest
// breakdown.
type Service struct {
	batches payroll.StoreAPI
	store   StoreAPI
	files   *FileStore
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewService(batches payroll.StoreAPI, store StoreAPI, files *FileStore, collector *metrics.Collector, log *zap.Logger) *Service {
	return &Service{batches: batches, store: store, files: files, metrics: collector, log: log}
}

// GenerateBatchReport builds the aggregate report for a completed batch,
// stores the file and records it.
func (s *Service) GenerateBatchReport(ctx context.Context, ownerID, batchID string, format Format) (GeneratedReport, error) {
	batch, err := s.batches.GetBatch(ctx, ownerID, batchID)
	if err != nil {
		return GeneratedReport{}, err
	}
	if batch.Status != payroll.BatchStatusCompleted {
		return GeneratedReport{}, ErrBatchNotCompleted
	}

	rows, err := s.batches.ListEmployees(ctx, ownerID, batchID)
	if err != nil {
		return GeneratedReport{}, err
	}
	if len(rows) == 0 {
		return GeneratedReport{}, ErrNoSalaryData
	}

	var data []byte
	switch format {
	case FormatExcel:
		data, err = buildAggregateExcel(rows)
	case FormatPDF:
		data, err = buildAggregatePDF(batch, rows)
	default:
		return GeneratedReport{}, ErrUnsupportedFormat
	}
	if err != nil {
		return GeneratedReport{}, fmt.Errorf("build %s report: %w", format, err)
	}

	filename := fmt.Sprintf("payroll_report_%s_%s%s", batchID, timestamp(), format.Extension())
	record, err := s.saveAndRecord(ctx, GeneratedReport{
		OwnerID:  ownerID,
		BatchID:  &batchID,
		Kind:     KindAggregate,
		Format:   format,
		Filename: filename,
	}, data)
	if err != nil {
		return GeneratedReport{}, err
	}

	s.log.Info("report generated",
		zap.String("reportId", record.ID),
		zap.String("batchId", batchID),
		zap.String("format", string(format)),
		zap.Int64("size", record.FileSize))
	return record, nil
}

// ExportEmployeeSlip builds one employee's slip and returns its bytes along
// with the stored record. batchID selects which breakdown to use; empty means
// the employee's latest.
func (s *Service) ExportEmployeeSlip(ctx context.Context, ownerID, employeeID string, format Format, batchID string) (GeneratedReport, []byte, error) {
	emp, batch, err := s.resolveSlipSource(ctx, ownerID, employeeID, batchID)
	if err != nil {
		return GeneratedReport{}, nil, err
	}
	if emp.Breakdown == nil {
		return GeneratedReport{}, nil, ErrNoSalaryData
	}

	var data []byte
	switch format {
	case FormatExcel:
		data, err = buildSlipExcel(emp.Employee, *emp.Breakdown, batch)
	case FormatPDF:
		data, err = buildSlipPDF(emp.Employee, *emp.Breakdown, batch)
	default:
		return GeneratedReport{}, nil, ErrUnsupportedFormat
	}
	if err != nil {
		return GeneratedReport{}, nil, fmt.Errorf("build %s slip: %w", format, err)
	}

	record := GeneratedReport{
		OwnerID:    ownerID,
		EmployeeID: &employeeID,
		Kind:       KindIndividual,
		Format:     format,
		Filename:   slipFilename(emp.Employee.Name, format),
	}
	if batch != nil {
		id := batch.ID
		record.BatchID = &id
	}
	record, err = s.saveAndRecord(ctx, record, data)
	if err != nil {
		return GeneratedReport{}, nil, err
	}

	s.log.Info("slip exported",
		zap.String("reportId", record.ID),
		zap.String("employeeId", employeeID),
		zap.String("format", string(format)))
	return record, data, nil
}

// resolveSlipSource picks the breakdown the slip is built from. With a batch
// id the breakdown must come from that batch; otherwise the latest one wins
// and the batch it belongs to is looked up for the pay-period line.
func (s *Service) resolveSlipSource(ctx context.Context, ownerID, employeeID, batchID string) (payroll.EmployeeWithBreakdown, *payroll.PayrollBatch, error) {
	if batchID != "" {
		batch, err := s.batches.GetBatch(ctx, ownerID, batchID)
		if err != nil {
			return payroll.EmployeeWithBreakdown{}, nil, err
		}
		rows, err := s.batches.ListEmployees(ctx, ownerID, batchID)
		if err != nil {
			return payroll.EmployeeWithBreakdown{}, nil, err
		}
		for _, row := range rows {
			if row.Employee.ID == employeeID {
				return row, &batch, nil
			}
		}
		return payroll.EmployeeWithBreakdown{}, nil, ErrNoSalaryData
	}

	emp, err := s.batches.GetEmployee(ctx, ownerID, employeeID)
	if err != nil {
		return payroll.EmployeeWithBreakdown{}, nil, err
	}
	if emp.Breakdown == nil {
		return emp, nil, nil
	}
	batch, err := s.batches.GetBatch(ctx, ownerID, emp.Breakdown.BatchID)
	if err != nil {
		// the slip still renders without the pay-period line
		return emp, nil, nil
	}
	return emp, &batch, nil
}

// Download loads a stored report's bytes, decrypting if needed.
func (s *Service) Download(ctx context.Context, ownerID, reportID string) (GeneratedReport, []byte, error) {
	record, err := s.store.Get(ctx, ownerID, reportID)
	if err != nil {
		return GeneratedReport{}, nil, err
	}
	data, err := s.files.Load(record.StoragePath)
	if err != nil {
		return GeneratedReport{}, nil, fmt.Errorf("load report file: %w", err)
	}
	return record, data, nil
}

// Delete removes the record and its stored file.
func (s *Service) Delete(ctx context.Context, ownerID, reportID string) error {
	record, err := s.store.Delete(ctx, ownerID, reportID)
	if err != nil {
		return err
	}
	if err := s.files.Remove(record.StoragePath); err != nil {
		s.log.Warn("remove report file", zap.String("path", record.StoragePath), zap.Error(err))
	}
	return nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]GeneratedReport, error) {
	return s.store.List(ctx, ownerID)
}

func (s *Service) Get(ctx context.Context, ownerID, reportID string) (GeneratedReport, error) {
	return s.store.Get(ctx, ownerID, reportID)
}

func (s *Service) saveAndRecord(ctx context.Context, record GeneratedReport, data []byte) (GeneratedReport, error) {
	path, err := s.files.Save(data, record.Format.Extension())
	if err != nil {
		return GeneratedReport{}, err
	}
	record.StoragePath = path
	record.FileSize = int64(len(data))

	stored, err := s.store.Insert(ctx, record)
	if err != nil {
		if rmErr := s.files.Remove(path); rmErr != nil {
			s.log.Warn("remove orphaned report file", zap.String("path", path), zap.Error(rmErr))
		}
		return GeneratedReport{}, err
	}
	if s.metrics != nil {
		s.metrics.ReportBuilt()
	}
	return stored, nil
}

func slipFilename(name string, format Format) string {
	return fmt.Sprintf("%s_payroll_%s%s", strings.ReplaceAll(name, " ", "_"), timestamp(), format.Extension())
}

func timestamp() string {
	return time.Now().Format("20060102_150405")
}
