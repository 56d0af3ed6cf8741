package payroll

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"paysheet/internal/platform/metrics"
)

// Service runs the ingestion pipeline: structural validation gates the row
// parser, the parser feeds the calculator, and the store persists whatever
// survives. One call processes one upload end to end; there is no background
// work.
type Service struct {
	store   StoreAPI
	policy  UpsertPolicy
	metrics *metrics.Collector
	log     *zap.Logger
}

func NewService(store StoreAPI, policy UpsertPolicy, collector *metrics.Collector, log *zap.Logger) *Service {
	return &Service{store: store, policy: policy, metrics: collector, log: log}
}

// IngestResult is the finalized summary of one upload. Warnings are non-fatal
// (skipped rows); Errors are either the structural failures that killed the
// batch or per-row persistence failures on a batch that still completed.
type IngestResult struct {
	Batch    PayrollBatch `json:"batch"`
	Created  int          `json:"created"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// ProcessUpload creates a batch for the file and runs validate → parse →
// compute → persist. Structural problems fail the batch before any record is
// created; per-row problems are collected and the batch completes with the
// reduced count. The returned error is reserved for infrastructure failures
// (store unavailable); domain failures are reported through the result.
func (s *Service) ProcessUpload(ctx context.Context, ownerID, filename string, data []byte) (IngestResult, error) {
	batch, err := s.store.CreateBatch(ctx, ownerID, filename)
	if err != nil {
		return IngestResult{}, fmt.Errorf("create batch: %w", err)
	}
	result := IngestResult{Batch: batch}

	f, err := OpenWorkbook(data)
	if err != nil {
		return s.failBatch(ctx, result, fmt.Sprintf("error reading workbook: %v", err)), nil
	}
	defer f.Close()

	if v := ValidateWorkbook(f); !v.Valid {
		return s.failBatch(ctx, result, v.Errors...), nil
	}

	if err := s.store.MarkBatchProcessing(ctx, batch.ID); err != nil {
		return IngestResult{}, fmt.Errorf("mark batch processing: %w", err)
	}
	result.Batch.Status = BatchStatusProcessing

	outcomes, err := ParseRows(f)
	if err != nil {
		return s.failBatch(ctx, result, err.Error()), nil
	}

	var parsed []*ParsedEmployee
	for _, outcome := range outcomes {
		switch outcome.Status {
		case RowOK:
			parsed = append(parsed, outcome.Parsed)
		case RowSkipped:
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d skipped: %s", outcome.Row, outcome.Reason))
		}
	}

	completed, rowErrs, err := s.store.PersistRows(ctx, result.Batch, s.policy, parsed)
	if err != nil {
		return s.failBatch(ctx, result, fmt.Sprintf("error persisting batch: %v", err)), nil
	}
	for _, rowErr := range rowErrs {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %s", rowErr.Row, rowErr.Message))
	}
	result.Batch = completed
	result.Created = completed.TotalEmployees

	if s.metrics != nil {
		s.metrics.BatchIngested()
	}
	s.log.Info("batch ingested",
		zap.String("batchId", completed.ID),
		zap.Int("created", result.Created),
		zap.Int("skipped", len(result.Warnings)),
		zap.Int("failed", len(rowErrs)))
	return result, nil
}

// ValidateOnly runs the structural checks without creating anything.
func (s *Service) ValidateOnly(data []byte) ValidationResult {
	f, err := OpenWorkbook(data)
	if err != nil {
		return ValidationResult{Valid: false, Errors: []string{fmt.Sprintf("error reading workbook: %v", err)}}
	}
	defer f.Close()
	return ValidateWorkbook(f)
}

func (s *Service) failBatch(ctx context.Context, result IngestResult, msgs ...string) IngestResult {
	detail := strings.Join(msgs, "; ")
	if err := s.store.MarkBatchFailed(ctx, result.Batch.ID, detail); err != nil {
		s.log.Error("mark batch failed", zap.String("batchId", result.Batch.ID), zap.Error(err))
	}
	result.Batch.Status = BatchStatusFailed
	result.Batch.ErrorDetail = detail
	result.Errors = append(result.Errors, msgs...)
	s.log.Warn("batch rejected", zap.String("batchId", result.Batch.ID), zap.String("detail", detail))
	return result
}

func (s *Service) ListBatches(ctx context.Context, ownerID string) ([]PayrollBatch, error) {
	return s.store.ListBatches(ctx, ownerID)
}

func (s *Service) GetBatch(ctx context.Context, ownerID, batchID string) (PayrollBatch, error) {
	return s.store.GetBatch(ctx, ownerID, batchID)
}

func (s *Service) DeleteBatch(ctx context.Context, ownerID, batchID string) error {
	return s.store.DeleteBatch(ctx, ownerID, batchID)
}

func (s *Service) ListEmployees(ctx context.Context, ownerID, batchID string) ([]EmployeeWithBreakdown, error) {
	return s.store.ListEmployees(ctx, ownerID, batchID)
}

func (s *Service) GetEmployee(ctx context.Context, ownerID, employeeID string) (EmployeeWithBreakdown, error) {
	return s.store.GetEmployee(ctx, ownerID, employeeID)
}

func (s *Service) Stats(ctx context.Context, ownerID string) (DashboardStats, error) {
	return s.store.Stats(ctx, ownerID)
}
