package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jung-kurt/gofpdf"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/report"
)

// WritePayslip implements report.ReportService.
func (s *ReportServiceImpl) WritePayslip(ctx context.Context, recordID string, w io.Writer) error {
	record, err := s.payrollService.GetRecord(ctx, recordID)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Slip Gaji")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Periode: %s", record.Period))
	pdf.Ln(10)

	writeLines(pdf, "Pemasukan", record.Earnings)
	writeLines(pdf, "Potongan", record.Deductions)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(90, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 8, record.NetTotalDisplay, "T", 0, "R", false, 0, "")
	if record.NetDelta != nil {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(40, 8, trendLabel(record.Trend, record.NetDeltaDisplay), "T", 0, "R", false, 0, "")
	}
	pdf.Ln(10)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	s.logger.InfoContext(ctx, "payslip generated", slog.String("id", record.ID))
	return nil
}

func writeLines(pdf *gofpdf.Fpdf, title string, items []payroll.LineItem) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, item := range items {
		pdf.CellFormat(90, 7, item.Key, "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, item.Display, "", 0, "R", false, 0, "")
		if item.Delta != nil {
			r, g, b := toneColor(item.Tone)
			pdf.SetTextColor(r, g, b)
			pdf.CellFormat(40, 7, item.DeltaDisplay, "", 0, "R", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(7)
	}
	pdf.Ln(3)
}

func toneColor(t payroll.Tone) (int, int, int) {
	switch t {
	case payroll.ToneFavorable:
		return 0, 128, 0
	case payroll.ToneAdverse:
		return 200, 0, 0
	}
	return 0, 0, 0
}

func trendLabel(t payroll.Trend, delta string) string {
	switch t {
	case payroll.TrendUp:
		return "naik " + delta
	case payroll.TrendDown:
		return "turun " + delta
	}
	return ""
}
