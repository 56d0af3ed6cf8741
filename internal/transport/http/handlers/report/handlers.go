package reporthandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paysheet/internal/domain/payroll"
	"paysheet/internal/domain/report"
	"paysheet/internal/transport/http/api"
	"paysheet/internal/transport/http/middleware"
)

// Handler serves report generation, listing and downloads.
type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/uploads/{batchID}/reports/generate", h.handleGenerate)
	r.Get("/employees/{employeeID}/export", h.handleExportSlip)
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/{reportID}", h.handleGet)
		r.Get("/{reportID}/download", h.handleDownload)
		r.Delete("/{reportID}", h.handleDelete)
	})
}

type generatePayload struct {
	Format string `json:"format"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	payload := generatePayload{Format: string(report.FormatExcel)}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request body", reqID)
			return
		}
	}
	format, err := report.ParseFormat(payload.Format)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_format", `Invalid report type. Choose "excel" or "pdf"`, reqID)
		return
	}

	record, err := h.svc.GenerateBatchReport(r.Context(), owner, chi.URLParam(r, "batchID"), format)
	if err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	api.Created(w, record, reqID)
}

func (h *Handler) handleExportSlip(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(report.FormatExcel)
	}
	format, err := report.ParseFormat(raw)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_format", `Invalid report type. Choose "excel" or "pdf"`, reqID)
		return
	}

	record, data, err := h.svc.ExportEmployeeSlip(r.Context(), owner, chi.URLParam(r, "employeeID"), format, r.URL.Query().Get("batch"))
	if err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	writeAttachment(w, record, data)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	reports, err := h.svc.List(r.Context(), owner)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list reports", reqID)
		return
	}
	api.Success(w, reports, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	record, err := h.svc.Get(r.Context(), owner, chi.URLParam(r, "reportID"))
	if err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	api.Success(w, record, reqID)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	record, data, err := h.svc.Download(r.Context(), owner, chi.URLParam(r, "reportID"))
	if err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	writeAttachment(w, record, data)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	owner, _ := middleware.GetOwnerID(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	if err := h.svc.Delete(r.Context(), owner, chi.URLParam(r, "reportID")); err != nil {
		h.failDomain(w, err, reqID)
		return
	}
	api.Success(w, map[string]any{"deleted": true}, reqID)
}

func writeAttachment(w http.ResponseWriter, record report.GeneratedReport, data []byte) {
	w.Header().Set("Content-Type", record.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	_, _ = w.Write(data)
}

func (h *Handler) failDomain(w http.ResponseWriter, err error, reqID string) {
	switch {
	case errors.Is(err, payroll.ErrBatchNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "upload not found", reqID)
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", reqID)
	case errors.Is(err, report.ErrReportNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "report not found", reqID)
	case errors.Is(err, report.ErrBatchNotCompleted):
		api.Fail(w, http.StatusBadRequest, "batch_not_completed", "reports require a completed upload", reqID)
	case errors.Is(err, report.ErrNoSalaryData):
		api.Fail(w, http.StatusBadRequest, "no_salary_data", "no salary data available", reqID)
	case errors.Is(err, report.ErrUnsupportedFormat):
		api.Fail(w, http.StatusBadRequest, "invalid_format", `Invalid report type. Choose "excel" or "pdf"`, reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", reqID)
	}
}
