package payrollhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"paysheet/internal/domain/payroll"
	"paysheet/internal/platform/metrics"
	"paysheet/internal/requestctx"
	"paysheet/internal/transport/http/api"
)

// memStore is an in-memory payroll.StoreAPI good enough to drive the
// handlers through the real service.
type memStore struct {
	batches   map[string]payroll.PayrollBatch
	employees map[string][]payroll.EmployeeWithBreakdown
	nextID    int
}

func newMemStore() *memStore {
	return &memStore{
		batches:   map[string]payroll.PayrollBatch{},
		employees: map[string][]payroll.EmployeeWithBreakdown{},
	}
}

func (m *memStore) CreateBatch(_ context.Context, ownerID, filename string) (payroll.PayrollBatch, error) {
	m.nextID++
	batch := payroll.PayrollBatch{
		ID:       fmt.Sprintf("batch-%d", m.nextID),
		OwnerID:  ownerID,
		Filename: filename,
		Status:   payroll.BatchStatusPending,
	}
	m.batches[batch.ID] = batch
	return batch, nil
}

func (m *memStore) MarkBatchProcessing(_ context.Context, batchID string) error {
	batch := m.batches[batchID]
	batch.Status = payroll.BatchStatusProcessing
	m.batches[batchID] = batch
	return nil
}

func (m *memStore) MarkBatchFailed(_ context.Context, batchID, detail string) error {
	batch := m.batches[batchID]
	batch.Status = payroll.BatchStatusFailed
	batch.ErrorDetail = detail
	m.batches[batchID] = batch
	return nil
}

func (m *memStore) PersistRows(_ context.Context, batch payroll.PayrollBatch, _ payroll.UpsertPolicy, rows []*payroll.ParsedEmployee) (payroll.PayrollBatch, []payroll.RowError, error) {
	var withBreakdowns []payroll.EmployeeWithBreakdown
	for i, row := range rows {
		record := row.Record
		record.ID = fmt.Sprintf("emp-%s-%d", batch.ID, i)
		record.OwnerID = batch.OwnerID
		b := row.Breakdown
		withBreakdowns = append(withBreakdowns, payroll.EmployeeWithBreakdown{Employee: record, Breakdown: &b})
	}
	m.employees[batch.ID] = withBreakdowns

	batch.Status = payroll.BatchStatusCompleted
	batch.TotalEmployees = len(rows)
	m.batches[batch.ID] = batch
	return batch, nil, nil
}

func (m *memStore) ListBatches(_ context.Context, ownerID string) ([]payroll.PayrollBatch, error) {
	var out []payroll.PayrollBatch
	for _, b := range m.batches {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) GetBatch(_ context.Context, ownerID, batchID string) (payroll.PayrollBatch, error) {
	batch, ok := m.batches[batchID]
	if !ok || batch.OwnerID != ownerID {
		return payroll.PayrollBatch{}, payroll.ErrBatchNotFound
	}
	return batch, nil
}

func (m *memStore) DeleteBatch(ctx context.Context, ownerID, batchID string) error {
	if _, err := m.GetBatch(ctx, ownerID, batchID); err != nil {
		return err
	}
	delete(m.batches, batchID)
	delete(m.employees, batchID)
	return nil
}

func (m *memStore) ListEmployees(_ context.Context, _, batchID string) ([]payroll.EmployeeWithBreakdown, error) {
	return m.employees[batchID], nil
}

func (m *memStore) GetEmployee(_ context.Context, ownerID, employeeID string) (payroll.EmployeeWithBreakdown, error) {
	for _, rows := range m.employees {
		for _, row := range rows {
			if row.Employee.ID == employeeID && row.Employee.OwnerID == ownerID {
				return row, nil
			}
		}
	}
	return payroll.EmployeeWithBreakdown{}, payroll.ErrEmployeeNotFound
}

func (m *memStore) Stats(_ context.Context, ownerID string) (payroll.DashboardStats, error) {
	return payroll.DashboardStats{}, nil
}

func newTestRouter(store *memStore) chi.Router {
	svc := payroll.NewService(store, payroll.UpsertUpdate, metrics.New(), zap.NewNop())
	h := NewHandler(svc, 10<<20)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(requestctx.WithOwnerID(req.Context(), "owner-1")))
		})
	})
	h.RegisterRoutes(r)
	return r
}

func workbookBytes(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []any{"Employee ID", "Name", "Email", "Department", "Designation",
		"Basic Pay", "HRA", "Variable Pay", "Special Allowance", "Other Allowances"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, row := range rows {
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func multipartUpload(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) api.Envelope {
	t.Helper()
	var env api.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestHandleUpload(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)

	content := workbookBytes(t,
		[]any{"E001", "Asha", "asha@example.com", "Engineering", "Engineer", 50000, 10000, 5000, 2000, 1000},
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/uploads", "april.xlsx", content))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	require.Len(t, store.batches, 1)
	for _, batch := range store.batches {
		assert.Equal(t, payroll.BatchStatusCompleted, batch.Status)
		assert.Equal(t, 1, batch.TotalEmployees)
	}
}

func TestHandleUploadValidationFailure(t *testing.T) {
	router := newTestRouter(newMemStore())

	// header only, no data rows
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/uploads", "empty.xlsx", workbookBytes(t)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "validation_failed", env.Error.Code)
	assert.Contains(t, env.Error.Details, "workbook is empty or has no data rows")
}

func TestHandleUploadRejectsExtension(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/uploads", "data.csv", []byte("a,b")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "invalid_file_format", env.Error.Code)
}

func TestHandleUploadMissingFile(t *testing.T) {
	router := newTestRouter(newMemStore())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, "/uploads", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "missing_file", decodeEnvelope(t, rec).Error.Code)
}

func TestHandleValidate(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)

	content := workbookBytes(t,
		[]any{"E001", "Asha", "", "", "", 50000, 0, 0, 0, 0},
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/uploads/validate", "april.xlsx", content))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.batches, "validate must not create a batch")
}

func TestHandleGetBatchNotFound(t *testing.T) {
	router := newTestRouter(newMemStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDeleteBatch(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)

	content := workbookBytes(t,
		[]any{"E001", "Asha", "", "", "", 50000, 0, 0, 0, 0},
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/uploads", "april.xlsx", content))
	require.Equal(t, http.StatusCreated, rec.Code)

	var batchID string
	for id := range store.batches {
		batchID = id
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/uploads/"+batchID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.batches)
}

func TestHandleGetEmployee(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store)

	content := workbookBytes(t,
		[]any{"E001", "Asha", "", "", "", 50000, 0, 0, 0, 0},
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartUpload(t, "/uploads", "april.xlsx", content))
	require.Equal(t, http.StatusCreated, rec.Code)

	var employeeID string
	for _, rows := range store.employees {
		employeeID = rows[0].Employee.ID
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/"+employeeID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
