package http

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
)

// maxBackupSize caps an import body.
const maxBackupSize = 32 << 20

type BackupHandler interface {
	Export(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
}

type backupHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewBackupHandler(payrollService payroll.PayrollService) BackupHandler {
	return &backupHandlerImpl{payrollService: payrollService}
}

// Export returns the bare backup document, not wrapped in the usual envelope,
// so the body can be saved and imported again as is.
func (h *backupHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	payload := h.payrollService.Export(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="backup-gaji-`+time.Now().Format("20060102")+`.json"`)
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *backupHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupSize))
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.Import(r.Context(), raw)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Backup imported", result)
}
