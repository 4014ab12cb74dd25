package payroll

import "github.com/shopspring/decimal"

// Overtime is paid per hour at one seventh of the daily rate.
var overtimeHoursPerDay = decimal.NewFromInt(7)

// Corrections are the two derived line items produced from attendance.
type Corrections struct {
	Positive decimal.Decimal `json:"koreksi_plus"`
	Negative decimal.Decimal `json:"koreksi_minus"`
}

// ResolveAttendance turns attendance counts into the positive and negative
// corrections using the daily rate and the per-category multipliers.
//
// Sick, excused and unexcused days are deducted at the daily rate; lateness
// is a flat penalty per occurrence. Overtime hours are paid at dailyRate/7,
// extra shifts at the daily rate and incentive units flat. Leave carries no
// correction. Missing counts and multipliers are zero.
func ResolveAttendance(attendance AttendanceInput, settings SalarySettings) Corrections {
	rate := settings.DailyRate
	m := settings.Multipliers

	dayRated := func(c Category) decimal.Decimal {
		return attendance.Get(c).Mul(rate).Mul(m.Get(c))
	}
	flat := func(c Category) decimal.Decimal {
		return attendance.Get(c).Mul(m.Get(c))
	}

	negative := dayRated(CategorySick).
		Add(dayRated(CategoryExcused)).
		Add(dayRated(CategoryUnexcusedAbsence)).
		Add(flat(CategoryLateness))

	// Multiply before dividing so whole-number inputs stay exact.
	overtime := dayRated(CategoryOvertime).Div(overtimeHoursPerDay)
	positive := overtime.
		Add(dayRated(CategoryExtraShift)).
		Add(flat(CategoryIncentive))

	return Corrections{Positive: positive, Negative: negative}
}
