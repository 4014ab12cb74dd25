package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/report"
)

const historySheet = "Riwayat Gaji"

type ReportServiceImpl struct {
	payrollService payroll.PayrollService
	logger         *slog.Logger
}

func NewReportService(payrollService payroll.PayrollService, logger *slog.Logger) report.ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportServiceImpl{
		payrollService: payrollService,
		logger:         logger,
	}
}

// ExportHistory implements report.ReportService. One row per record with the
// net total, the change from the previous record and every line item.
func (s *ReportServiceImpl) ExportHistory(ctx context.Context, w io.Writer) error {
	history := s.payrollService.History(ctx)

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(historySheet)
	if err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	headers := historyHeaders()
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(historySheet, cell, h)
	}

	for i, r := range history {
		row := i + 2
		values := []interface{}{r.Period, r.NetTotal.InexactFloat64()}

		diff := history.CompareAt(i)
		if diff.HasPrevious {
			values = append(values, diff.NetDelta.InexactFloat64())
		} else {
			values = append(values, "")
		}
		for _, k := range payroll.EarningKeys {
			values = append(values, r.Earnings.Get(k).InexactFloat64())
		}
		for _, k := range payroll.DeductionKeys {
			values = append(values, r.Deductions.Get(k).InexactFloat64())
		}
		for _, c := range payroll.Categories {
			values = append(values, r.Attendance.Get(c).InexactFloat64())
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(historySheet, cell, v)
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(historySheet, "A1", last, style)
	}
	f.SetColWidth(historySheet, "A", "A", 18)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	s.logger.InfoContext(ctx, "history exported", slog.Int("records", len(history)))
	return nil
}

func historyHeaders() []string {
	headers := []string{"periode", "total", "selisih"}
	for _, k := range payroll.EarningKeys {
		headers = append(headers, "masuk."+k)
	}
	for _, k := range payroll.DeductionKeys {
		headers = append(headers, "potong."+k)
	}
	for _, c := range payroll.Categories {
		headers = append(headers, "absensi."+string(c))
	}
	return headers
}
