package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/validator"
)

// ========== SETTINGS DTOs ==========

type UpdateSettingsRequest struct {
	DailyRate        *decimal.Decimal             `json:"harian,omitempty"`
	FixedAllowance   *decimal.Decimal             `json:"premi,omitempty"`
	Cooperative      *decimal.Decimal             `json:"ksp,omitempty"`
	SocialInsurance1 *decimal.Decimal             `json:"jamsostek,omitempty"`
	SocialInsurance2 *decimal.Decimal             `json:"bpjs,omitempty"`
	Multipliers      map[Category]decimal.Decimal `json:"persen,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	amounts := []struct {
		field string
		value *decimal.Decimal
	}{
		{"harian", r.DailyRate},
		{"premi", r.FixedAllowance},
		{"ksp", r.Cooperative},
		{"jamsostek", r.SocialInsurance1},
		{"bpjs", r.SocialInsurance2},
	}
	for _, a := range amounts {
		if a.value != nil {
			errs = appendAmountError(errs, a.field, *a.value)
		}
	}
	for c, v := range r.Multipliers {
		field := "persen." + string(c)
		if !c.IsValid() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "unknown attendance category"})
			continue
		}
		errs = appendAmountError(errs, field, v)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply returns settings with the requested fields changed.
func (r *UpdateSettingsRequest) Apply(s SalarySettings) SalarySettings {
	if r.DailyRate != nil {
		s.DailyRate = *r.DailyRate
	}
	if r.FixedAllowance != nil {
		s.FixedAllowance = *r.FixedAllowance
	}
	if r.Cooperative != nil {
		s.Cooperative = *r.Cooperative
	}
	if r.SocialInsurance1 != nil {
		s.SocialInsurance1 = *r.SocialInsurance1
	}
	if r.SocialInsurance2 != nil {
		s.SocialInsurance2 = *r.SocialInsurance2
	}
	multipliers := s.Multipliers.Normalize()
	for c, v := range r.Multipliers {
		multipliers[c] = v
	}
	s.Multipliers = multipliers
	return s
}

type SettingsResponse struct {
	DailyRate        decimal.Decimal `json:"harian"`
	FixedAllowance   decimal.Decimal `json:"premi"`
	Cooperative      decimal.Decimal `json:"ksp"`
	SocialInsurance1 decimal.Decimal `json:"jamsostek"`
	SocialInsurance2 decimal.Decimal `json:"bpjs"`
	Multipliers      Multipliers     `json:"persen"`
	BasePay          decimal.Decimal `json:"base_pay"`
	BasePayDisplay   string          `json:"base_pay_display"`
}

// ========== RECORD DTOs ==========

// SaveRecordRequest carries the user-entered part of a record. Base pay and
// both corrections are derived and may not be supplied.
type SaveRecordRequest struct {
	Period     string                       `json:"periode"`
	Earnings   map[string]decimal.Decimal   `json:"detailMasuk,omitempty"`
	Deductions map[string]decimal.Decimal   `json:"detailPotong,omitempty"`
	Attendance map[Category]decimal.Decimal `json:"detailAbsensi,omitempty"`
}

func (r *SaveRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(r.Period) {
		if _, err := ParsePeriod(r.Period); err != nil {
			errs = append(errs, validator.ValidationError{Field: "periode", Message: err.Error()})
		}
	}

	errs = append(errs, validateLines("detailMasuk", r.Earnings, EarningKeys, IsComputedEarning)...)
	errs = append(errs, validateLines("detailPotong", r.Deductions, DeductionKeys, IsComputedDeduction)...)

	for c, v := range r.Attendance {
		field := "detailAbsensi." + string(c)
		if !c.IsValid() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "unknown attendance category"})
			continue
		}
		errs = appendAmountError(errs, field, v)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateLines(prefix string, lines map[string]decimal.Decimal, known []string, computed func(string) bool) validator.ValidationErrors {
	var errs validator.ValidationErrors
	for key, v := range lines {
		field := fmt.Sprintf("%s.%s", prefix, key)
		switch {
		case !validator.IsInSlice(key, known):
			errs = append(errs, validator.ValidationError{Field: field, Message: "unknown line item"})
		case computed(key):
			errs = append(errs, validator.ValidationError{Field: field, Message: "is computed and cannot be set"})
		default:
			errs = appendAmountError(errs, field, v)
		}
	}
	return errs
}

// appendAmountError adds an error for a negative or out-of-range value.
func appendAmountError(errs validator.ValidationErrors, field string, v decimal.Decimal) validator.ValidationErrors {
	switch {
	case !InRange(v):
		return append(errs, validator.ValidationError{Field: field, Message: "is out of range"})
	case v.IsNegative():
		return append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
	}
	return errs
}

// ApplyTo copies the entered values onto a draft.
func (r *SaveRecordRequest) ApplyTo(d *Draft) {
	if !validator.IsEmpty(r.Period) {
		d.Period = r.Period
	}
	for k, v := range r.Earnings {
		d.Earnings[k] = v
	}
	for k, v := range r.Deductions {
		d.Deductions[k] = v
	}
	for c, v := range r.Attendance {
		d.Attendance[c] = v
	}
}

// LineItem is one earning or deduction row, with its change from the
// previous record when there is one.
type LineItem struct {
	Key          string           `json:"key"`
	Amount       decimal.Decimal  `json:"amount"`
	Display      string           `json:"display"`
	Computed     bool             `json:"computed"`
	Delta        *decimal.Decimal `json:"delta,omitempty"`
	DeltaDisplay string           `json:"delta_display,omitempty"`
	Tone         Tone             `json:"tone,omitempty"`
}

type RecordResponse struct {
	ID              string           `json:"id"`
	Period          string           `json:"periode"`
	NetTotal        decimal.Decimal  `json:"total"`
	NetTotalDisplay string           `json:"total_display"`
	TotalEarnings   decimal.Decimal  `json:"total_earnings"`
	TotalDeductions decimal.Decimal  `json:"total_deductions"`
	Earnings        []LineItem       `json:"earnings"`
	Deductions      []LineItem       `json:"deductions"`
	Attendance      AttendanceInput  `json:"detailAbsensi"`
	PreviousID      string           `json:"previous_id,omitempty"`
	NetDelta        *decimal.Decimal `json:"net_delta,omitempty"`
	NetDeltaDisplay string           `json:"net_delta_display,omitempty"`
	Trend           Trend            `json:"trend,omitempty"`
}

type RecordSummaryResponse struct {
	ID              string           `json:"id"`
	Period          string           `json:"periode"`
	NetTotal        decimal.Decimal  `json:"total"`
	NetTotalDisplay string           `json:"total_display"`
	NetDelta        *decimal.Decimal `json:"net_delta,omitempty"`
	NetDeltaDisplay string           `json:"net_delta_display,omitempty"`
	Trend           Trend            `json:"trend,omitempty"`
}

type DraftResponse struct {
	EditID          string          `json:"edit_id,omitempty"`
	Period          string          `json:"periode"`
	Earnings        []LineItem      `json:"earnings"`
	Deductions      []LineItem      `json:"deductions"`
	Attendance      AttendanceInput `json:"detailAbsensi"`
	Corrections     Corrections     `json:"corrections"`
	NetTotal        decimal.Decimal `json:"total"`
	NetTotalDisplay string          `json:"total_display"`
}

type ImportBackupResponse struct {
	Records int `json:"records"`
}
