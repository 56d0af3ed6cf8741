package payrollhandler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"paysheet/internal/domain/payroll"
	"paysheet/internal/transport/http/api"
	"paysheet/internal/transport/http/middleware"
)

// Handler serves the upload lifecycle and the employee read side.
type Handler struct {
	svc            *payroll.Service
	maxUploadBytes int64
}

func NewHandler(svc *payroll.Service, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, maxUploadBytes: maxUploadBytes}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/uploads", func(r chi.Router) {
		r.Post("/", h.handleUpload)
		r.Post("/validate", h.handleValidate)
		r.Get("/", h.handleListBatches)
		r.Get("/{batchID}", h.handleGetBatch)
		r.Delete("/{batchID}", h.handleDeleteBatch)
		r.Get("/{batchID}/employees", h.handleListEmployees)
	})
	r.Get("/employees/{employeeID}", h.handleGetEmployee)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	data, filename, ok := h.readSpreadsheet(w, r)
	if !ok {
		return
	}

	result, err := h.svc.ProcessUpload(r.Context(), owner, filename, data)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "upload_failed", "could not process upload", reqID)
		return
	}
	if result.Batch.Status == payroll.BatchStatusFailed {
		api.FailWithDetails(w, http.StatusBadRequest, "validation_failed", "spreadsheet validation failed", result.Errors, reqID)
		return
	}
	api.Created(w, result, reqID)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	data, _, ok := h.readSpreadsheet(w, r)
	if !ok {
		return
	}
	api.Success(w, h.svc.ValidateOnly(data), reqID)
}

// readSpreadsheet pulls the "file" part out of the multipart form and
// enforces the extension and size rules. On failure it writes the error
// response itself and returns ok=false.
func (h *Handler) readSpreadsheet(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	reqID := middleware.GetRequestID(r.Context())

	file, header, err := r.FormFile("file")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "missing_file", "no file provided", reqID)
		return nil, "", false
	}
	defer file.Close()

	if !allowedExtension(header.Filename) {
		api.Fail(w, http.StatusBadRequest, "invalid_file_format",
			"Invalid file format. Please upload an Excel file (.xlsx or .xls)", reqID)
		return nil, "", false
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		api.Fail(w, http.StatusBadRequest, "file_too_large", "uploaded file exceeds the size limit", reqID)
		return nil, "", false
	}

	data, err := readAll(file, h.maxUploadBytes)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "unreadable_file", "could not read uploaded file", reqID)
		return nil, "", false
	}
	return data, header.Filename, true
}

func allowedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// readAll reads the part with a hard cap in case the multipart header lied
// about its size.
func readAll(file multipart.File, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(file)
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errors.New("file exceeds size limit")
	}
	return data, nil
}

func (h *Handler) handleListBatches(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	batches, err := h.svc.ListBatches(r.Context(), owner)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list uploads", reqID)
		return
	}
	api.Success(w, batches, reqID)
}

func (h *Handler) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	batchID := chi.URLParam(r, "batchID")

	batch, err := h.svc.GetBatch(r.Context(), owner, batchID)
	if err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	employees, err := h.svc.ListEmployees(r.Context(), owner, batchID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list employees", reqID)
		return
	}
	api.Success(w, map[string]any{"batch": batch, "employees": employees}, reqID)
}

func (h *Handler) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	if err := h.svc.DeleteBatch(r.Context(), owner, chi.URLParam(r, "batchID")); err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, reqID)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	batchID := chi.URLParam(r, "batchID")

	if _, err := h.svc.GetBatch(r.Context(), owner, batchID); err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	employees, err := h.svc.ListEmployees(r.Context(), owner, batchID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	employee, err := h.svc.GetEmployee(r.Context(), owner, chi.URLParam(r, "employeeID"))
	if err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	api.Success(w, employee, reqID)
}

func (h *Handler) failDomain(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, payroll.ErrBatchNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "upload not found", reqID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", reqID)
	}
}
