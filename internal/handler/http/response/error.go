package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/report"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRecordNotFound):
		NotFound(w, "Salary record not found")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrInvalidBackupFormat):
		BadRequest(w, "Backup format invalid", nil)
	case errors.Is(err, payroll.ErrPersistence):
		slog.Error("persistence failure", "error", err)
		ServiceUnavailable(w, "Storage is unavailable, nothing was changed")

	// Report errors
	case errors.Is(err, report.ErrReportGenerationFailed):
		slog.Error("report generation failed", "error", err)
		InternalServerError(w, "Failed to generate report")

	// Default
	default:
		slog.Error("unexpected error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
