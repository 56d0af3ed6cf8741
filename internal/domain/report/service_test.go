package report

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paysheet/internal/domain/payroll"
	cryptoutil "paysheet/internal/platform/crypto"
	"paysheet/internal/platform/metrics"
)

// fakeBatchStore serves the payroll reads the report service needs.
type fakeBatchStore struct {
	payroll.StoreAPI

	batches   map[string]payroll.PayrollBatch
	employees map[string][]payroll.EmployeeWithBreakdown // by batch id
	latest    map[string]payroll.EmployeeWithBreakdown   // by employee id
}

func (f *fakeBatchStore) GetBatch(_ context.Context, _, batchID string) (payroll.PayrollBatch, error) {
	batch, ok := f.batches[batchID]
	if !ok {
		return payroll.PayrollBatch{}, payroll.ErrBatchNotFound
	}
	return batch, nil
}

func (f *fakeBatchStore) ListEmployees(_ context.Context, _, batchID string) ([]payroll.EmployeeWithBreakdown, error) {
	return f.employees[batchID], nil
}

func (f *fakeBatchStore) GetEmployee(_ context.Context, _, employeeID string) (payroll.EmployeeWithBreakdown, error) {
	emp, ok := f.latest[employeeID]
	if !ok {
		return payroll.EmployeeWithBreakdown{}, payroll.ErrEmployeeNotFound
	}
	return emp, nil
}

// fakeReportStore is an in-memory StoreAPI.
type fakeReportStore struct {
	records map[string]GeneratedReport
	nextID  int
}

func newFakeReportStore() *fakeReportStore {
	return &fakeReportStore{records: map[string]GeneratedReport{}}
}

func (f *fakeReportStore) Insert(_ context.Context, r GeneratedReport) (GeneratedReport, error) {
	f.nextID++
	r.ID = fmt.Sprintf("report-%d", f.nextID)
	r.GeneratedAt = time.Now()
	f.records[r.ID] = r
	return r, nil
}

func (f *fakeReportStore) List(_ context.Context, ownerID string) ([]GeneratedReport, error) {
	var out []GeneratedReport
	for _, r := range f.records {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReportStore) Get(_ context.Context, ownerID, reportID string) (GeneratedReport, error) {
	r, ok := f.records[reportID]
	if !ok || r.OwnerID != ownerID {
		return GeneratedReport{}, ErrReportNotFound
	}
	return r, nil
}

func (f *fakeReportStore) Delete(ctx context.Context, ownerID, reportID string) (GeneratedReport, error) {
	r, err := f.Get(ctx, ownerID, reportID)
	if err != nil {
		return GeneratedReport{}, err
	}
	delete(f.records, reportID)
	return r, nil
}

func newReportTestService(t *testing.T, batches *fakeBatchStore) (*Service, *fakeReportStore) {
	t.Helper()
	crypto, err := cryptoutil.New("")
	require.NoError(t, err)
	store := newFakeReportStore()
	svc := NewService(batches, store, NewFileStore(t.TempDir(), crypto), metrics.New(), zap.NewNop())
	return svc, store
}

func completedBatchStore() *fakeBatchStore {
	batch := fixtureBatch()
	rows := []payroll.EmployeeWithBreakdown{
		fixtureRow("E001", "Asha", "50000"),
		fixtureRow("E002", "Ravi", "30000"),
	}
	return &fakeBatchStore{
		batches:   map[string]payroll.PayrollBatch{batch.ID: batch},
		employees: map[string][]payroll.EmployeeWithBreakdown{batch.ID: rows},
		latest:    map[string]payroll.EmployeeWithBreakdown{rows[0].Employee.ID: rows[0]},
	}
}

func TestGenerateBatchReport(t *testing.T) {
	svc, store := newReportTestService(t, completedBatchStore())

	record, err := svc.GenerateBatchReport(context.Background(), "owner-1", "batch-1", FormatExcel)
	require.NoError(t, err)

	assert.Equal(t, KindAggregate, record.Kind)
	assert.Equal(t, FormatExcel, record.Format)
	require.NotNil(t, record.BatchID)
	assert.Equal(t, "batch-1", *record.BatchID)
	assert.Greater(t, record.FileSize, int64(0))
	assert.Contains(t, store.records, record.ID)

	got, data, err := svc.Download(context.Background(), "owner-1", record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.FileSize, int64(len(data)))
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx is a zip container")
}

func TestGenerateBatchReportPDF(t *testing.T) {
	svc, _ := newReportTestService(t, completedBatchStore())

	record, err := svc.GenerateBatchReport(context.Background(), "owner-1", "batch-1", FormatPDF)
	require.NoError(t, err)

	_, data, err := svc.Download(context.Background(), "owner-1", record.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestGenerateBatchReportRequiresCompleted(t *testing.T) {
	batches := completedBatchStore()
	batch := batches.batches["batch-1"]
	batch.Status = payroll.BatchStatusProcessing
	batches.batches["batch-1"] = batch

	svc, _ := newReportTestService(t, batches)
	_, err := svc.GenerateBatchReport(context.Background(), "owner-1", "batch-1", FormatExcel)
	assert.ErrorIs(t, err, ErrBatchNotCompleted)
}

func TestGenerateBatchReportNoSalaryData(t *testing.T) {
	batches := completedBatchStore()
	batches.employees["batch-1"] = nil

	svc, _ := newReportTestService(t, batches)
	_, err := svc.GenerateBatchReport(context.Background(), "owner-1", "batch-1", FormatExcel)
	assert.ErrorIs(t, err, ErrNoSalaryData)
}

func TestGenerateBatchReportUnknownBatch(t *testing.T) {
	svc, _ := newReportTestService(t, completedBatchStore())
	_, err := svc.GenerateBatchReport(context.Background(), "owner-1", "nope", FormatExcel)
	assert.ErrorIs(t, err, payroll.ErrBatchNotFound)
}

func TestExportEmployeeSlipLatest(t *testing.T) {
	svc, _ := newReportTestService(t, completedBatchStore())

	record, data, err := svc.ExportEmployeeSlip(context.Background(), "owner-1", "emp-E001", FormatPDF, "")
	require.NoError(t, err)
	assert.Equal(t, KindIndividual, record.Kind)
	require.NotNil(t, record.EmployeeID)
	assert.Equal(t, "emp-E001", *record.EmployeeID)
	assert.Contains(t, record.Filename, "Asha_payroll_")
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestExportEmployeeSlipForBatch(t *testing.T) {
	svc, _ := newReportTestService(t, completedBatchStore())

	record, data, err := svc.ExportEmployeeSlip(context.Background(), "owner-1", "emp-E002", FormatExcel, "batch-1")
	require.NoError(t, err)
	require.NotNil(t, record.BatchID)
	assert.Equal(t, "batch-1", *record.BatchID)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestExportEmployeeSlipNoData(t *testing.T) {
	batches := completedBatchStore()
	emp := batches.latest["emp-E001"]
	emp.Breakdown = nil
	batches.latest["emp-E001"] = emp

	svc, _ := newReportTestService(t, batches)
	_, _, err := svc.ExportEmployeeSlip(context.Background(), "owner-1", "emp-E001", FormatPDF, "")
	assert.ErrorIs(t, err, ErrNoSalaryData)

	// an employee absent from the chosen batch has no data either
	_, _, err = svc.ExportEmployeeSlip(context.Background(), "owner-1", "emp-unknown", FormatPDF, "batch-1")
	assert.ErrorIs(t, err, ErrNoSalaryData)
}

func TestDeleteRemovesFile(t *testing.T) {
	svc, store := newReportTestService(t, completedBatchStore())

	record, err := svc.GenerateBatchReport(context.Background(), "owner-1", "batch-1", FormatPDF)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "owner-1", record.ID))
	assert.NotContains(t, store.records, record.ID)

	_, _, err = svc.Download(context.Background(), "owner-1", record.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)
}
