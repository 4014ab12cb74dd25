package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkingDaysPerPeriod is the fixed day count behind the base pay.
const WorkingDaysPerPeriod = 50

// BasePay is dailyRate × WorkingDaysPerPeriod.
func BasePay(settings SalarySettings) decimal.Decimal {
	return settings.DailyRate.Mul(decimal.NewFromInt(WorkingDaysPerPeriod))
}

// NewRecordID returns a fresh time-ordered identifier.
func NewRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// BuildRecord assembles a record and computes its net total from the
// breakdowns. The net total is never taken from the caller.
func BuildRecord(id, period string, earnings, deductions Breakdown, attendance AttendanceInput) SalaryRecord {
	earnings = earnings.Clone()
	deductions = deductions.Clone()
	return SalaryRecord{
		ID:         id,
		Period:     period,
		NetTotal:   earnings.Sum().Sub(deductions.Sum()),
		Earnings:   earnings,
		Deductions: deductions,
		Attendance: attendance.Normalize(),
	}
}

// Draft is the record being entered. EditID is empty for a new record.
type Draft struct {
	EditID     string
	Period     string
	Earnings   Breakdown
	Deductions Breakdown
	Attendance AttendanceInput
}

// NewDraft returns the pre-filled form for a new record: base pay from the
// daily rate, the fixed allowance and the standing contributions from
// settings, everything else zero.
func NewDraft(settings SalarySettings, period string) Draft {
	if period == "" {
		period = PeriodOf(time.Now()).String()
	}
	d := Draft{
		Period:     period,
		Earnings:   emptyBreakdown(EarningKeys),
		Deductions: emptyBreakdown(DeductionKeys),
		Attendance: AttendanceInput{}.Normalize(),
	}
	d.Earnings[EarningBasePay] = BasePay(settings)
	d.Earnings[EarningAllowance] = settings.FixedAllowance
	d.Deductions[DeductionCooperative] = settings.Cooperative
	d.Deductions[DeductionSocialInsurance1] = settings.SocialInsurance1
	d.Deductions[DeductionSocialInsurance2] = settings.SocialInsurance2
	d.Recalculate(settings)
	return d
}

// EditDraft loads an existing record into the form. Its identity and base
// pay are kept as stored.
func EditDraft(record SalaryRecord, settings SalarySettings) Draft {
	d := Draft{
		EditID:     record.ID,
		Period:     record.Period,
		Earnings:   record.Earnings.Clone(),
		Deductions: record.Deductions.Clone(),
		Attendance: record.Attendance.Normalize(),
	}
	d.Recalculate(settings)
	return d
}

// IsEdit reports whether the draft edits an existing record.
func (d Draft) IsEdit() bool { return d.EditID != "" }

// ApplySettings reacts to a settings change. A new-record draft is pre-filled
// again from scratch (the period is kept); an edit only recomputes its
// corrections.
func (d *Draft) ApplySettings(settings SalarySettings) {
	if d.IsEdit() {
		d.Recalculate(settings)
		return
	}
	*d = NewDraft(settings, d.Period)
}

// SetAttendance records a count and recomputes the corrections.
func (d *Draft) SetAttendance(c Category, count decimal.Decimal, settings SalarySettings) {
	if d.Attendance == nil {
		d.Attendance = AttendanceInput{}
	}
	d.Attendance[c] = count
	d.Recalculate(settings)
}

// Recalculate overwrites both correction line items from attendance and
// settings.
func (d *Draft) Recalculate(settings SalarySettings) Corrections {
	if d.Earnings == nil {
		d.Earnings = Breakdown{}
	}
	if d.Deductions == nil {
		d.Deductions = Breakdown{}
	}
	c := ResolveAttendance(d.Attendance, settings)
	d.Earnings[EarningCorrection] = c.Positive
	d.Deductions[DeductionCorrection] = c.Negative
	return c
}

// Build turns the draft into a record. Edits keep their id; new drafts get id.
func (d Draft) Build(newID string) SalaryRecord {
	id := d.EditID
	if id == "" {
		id = newID
	}
	return BuildRecord(id, d.Period, d.Earnings, d.Deductions, d.Attendance)
}
