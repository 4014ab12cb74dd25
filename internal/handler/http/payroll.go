package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/report"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
)

type PayrollHandler interface {
	// Settings
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)

	// Drafts
	NewDraft(w http.ResponseWriter, r *http.Request)
	PreviewRecord(w http.ResponseWriter, r *http.Request)

	// Records
	CreateRecord(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)
	UpdateRecord(w http.ResponseWriter, r *http.Request)
	ClearHistory(w http.ResponseWriter, r *http.Request)

	// Documents
	ExportHistory(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
	reportService  report.ReportService
}

func NewPayrollHandler(payrollService payroll.PayrollService, reportService report.ReportService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
		reportService:  reportService,
	}
}

// ========== SETTINGS ==========

func (h *payrollHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.payrollService.GetSettings(r.Context()))
}

func (h *payrollHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated", result)
}

// ========== DRAFTS ==========

func (h *payrollHandlerImpl) NewDraft(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.NewDraft(r.Context(), r.URL.Query().Get("periode"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// PreviewRecord computes a record without saving it. ?edit_id= previews an
// edit of a stored record.
func (h *payrollHandlerImpl) PreviewRecord(w http.ResponseWriter, r *http.Request) {
	var req payroll.SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.PreviewRecord(r.Context(), r.URL.Query().Get("edit_id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== RECORDS ==========

func (h *payrollHandlerImpl) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req payroll.SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateRecord(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary record saved", result)
}

func (h *payrollHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListRecords(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result)})
}

func (h *payrollHandlerImpl) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req payroll.SaveRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdateRecord(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary record updated", result)
}

func (h *payrollHandlerImpl) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.payrollService.ClearHistory(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary history cleared", nil)
}

// ========== DOCUMENTS ==========

func (h *payrollHandlerImpl) ExportHistory(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.reportService.ExportHistory(r.Context(), &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, report.XLSXContentType, report.HistoryFileName, buf.Bytes())
}

func (h *payrollHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var buf bytes.Buffer
	if err := h.reportService.WritePayslip(r.Context(), id, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, report.PDFContentType, "slip-gaji-"+id+".pdf", buf.Bytes())
}
