package payroll

import "github.com/shopspring/decimal"

const (
	// MaxAmountDigits is the number of integer digits an entered amount,
	// count or multiplier may have.
	MaxAmountDigits = 15
	// MaxDecimalPlaces is the finest fraction that may be entered.
	MaxDecimalPlaces = 6

	// Stored values are products and quotients of entered ones, so they get
	// more room.
	maxStoredDigits = 48
	maxStoredPlaces = 32
)

// MaxAmount is the largest magnitude that may be entered: 10^15.
var MaxAmount = decimal.New(1, MaxAmountDigits)

// InRange reports whether an entered value satisfies |v| <= MaxAmount with at
// most MaxDecimalPlaces decimals.
func InRange(v decimal.Decimal) bool {
	return withinLimits(v, MaxAmountDigits, MaxDecimalPlaces)
}

// withinLimits checks the exponent and coefficient size before comparing:
// a comparison rescales, and a value like 1e200000000 would expand into a
// huge integer.
func withinLimits(v decimal.Decimal, digits, places int32) bool {
	exp := v.Exponent()
	if exp < -places || exp > digits {
		return false
	}
	if v.Coefficient().BitLen() > int(4*(digits+places)) {
		return false
	}
	return v.Abs().LessThanOrEqual(decimal.New(1, digits))
}

func storedInRange(v decimal.Decimal) bool {
	return withinLimits(v, maxStoredDigits, maxStoredPlaces)
}

func breakdownInRange(b map[string]decimal.Decimal) bool {
	for _, v := range b {
		if !storedInRange(v) {
			return false
		}
	}
	return true
}

func categoriesInRange[M ~map[Category]decimal.Decimal](m M) bool {
	for _, v := range m {
		if !storedInRange(v) {
			return false
		}
	}
	return true
}

// InRange reports whether every value of a stored record is within the
// limits the engine itself can produce.
func (r SalaryRecord) InRange() bool {
	return storedInRange(r.NetTotal) &&
		breakdownInRange(r.Earnings) &&
		breakdownInRange(r.Deductions) &&
		categoriesInRange(r.Attendance)
}

// InRange reports whether every amount and multiplier is within the limits
// accepted for entered values.
func (s SalarySettings) InRange() bool {
	for _, v := range []decimal.Decimal{s.DailyRate, s.FixedAllowance, s.Cooperative, s.SocialInsurance1, s.SocialInsurance2} {
		if !InRange(v) {
			return false
		}
	}
	for _, v := range s.Multipliers {
		if !InRange(v) {
			return false
		}
	}
	return true
}
