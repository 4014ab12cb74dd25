package report

import (
	"context"
	"io"
)

// Content types and file names for the generated documents.
const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	PDFContentType  = "application/pdf"

	HistoryFileName = "riwayat-gaji.xlsx"
)

// ReportService renders the salary history into downloadable documents.
type ReportService interface {
	// ExportHistory writes every record, most recent first, as a spreadsheet.
	ExportHistory(ctx context.Context, w io.Writer) error

	// WritePayslip writes one record and its change from the previous record
	// as a PDF.
	WritePayslip(ctx context.Context, recordID string, w io.Writer) error
}
