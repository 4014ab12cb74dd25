package payroll

import (
	"github.com/shopspring/decimal"
)

// Category is one of the fixed attendance categories.
type Category string

const (
	CategorySick             Category = "sakit"
	CategoryExcused          Category = "izin"
	CategoryUnexcusedAbsence Category = "alpha"
	CategoryLeave            Category = "cuti"
	CategoryLateness         Category = "terlambat"
	CategoryOvertime         Category = "overtime"
	CategoryExtraShift       Category = "extra"
	CategoryIncentive        Category = "imt"
)

// Categories lists every attendance category in display order. Adding a
// category here is a schema change for both settings and records.
var Categories = []Category{
	CategorySick,
	CategoryExcused,
	CategoryUnexcusedAbsence,
	CategoryLeave,
	CategoryLateness,
	CategoryOvertime,
	CategoryExtraShift,
	CategoryIncentive,
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Multipliers maps each category to the scalar applied to its count.
type Multipliers map[Category]decimal.Decimal

// Get returns the multiplier for c; a missing key counts as zero.
func (m Multipliers) Get(c Category) decimal.Decimal {
	return categoryValue(m, c)
}

// Normalize returns a copy holding exactly the known categories, with
// missing ones set to zero and unknown ones dropped.
func (m Multipliers) Normalize() Multipliers {
	return Multipliers(normalizeCategories(m))
}

// AttendanceInput holds the day (or occurrence) counts for one pay period.
type AttendanceInput map[Category]decimal.Decimal

// Get returns the count for c; a missing key counts as zero.
func (a AttendanceInput) Get(c Category) decimal.Decimal {
	return categoryValue(a, c)
}

// Normalize returns a copy holding exactly the known categories.
func (a AttendanceInput) Normalize() AttendanceInput {
	return AttendanceInput(normalizeCategories(a))
}

func categoryValue[M ~map[Category]decimal.Decimal](m M, c Category) decimal.Decimal {
	if m == nil {
		return decimal.Zero
	}
	if v, ok := m[c]; ok {
		return v
	}
	return decimal.Zero
}

func normalizeCategories[M ~map[Category]decimal.Decimal](m M) map[Category]decimal.Decimal {
	out := make(map[Category]decimal.Decimal, len(Categories))
	for _, c := range Categories {
		out[c] = categoryValue(m, c)
	}
	return out
}

// SalarySettings is the single fixed configuration the engine works from.
type SalarySettings struct {
	DailyRate        decimal.Decimal `json:"harian"`
	FixedAllowance   decimal.Decimal `json:"premi"`
	Cooperative      decimal.Decimal `json:"ksp"`
	SocialInsurance1 decimal.Decimal `json:"jamsostek"`
	SocialInsurance2 decimal.Decimal `json:"bpjs"`
	Multipliers      Multipliers     `json:"persen"`
}

// Normalize fills in every multiplier category. Other fields already default
// to zero when absent.
func (s SalarySettings) Normalize() SalarySettings {
	s.Multipliers = s.Multipliers.Normalize()
	return s
}

// ZeroSettings is what the store hands back when nothing has been persisted.
func ZeroSettings() SalarySettings {
	return SalarySettings{Multipliers: Multipliers{}.Normalize()}
}

// DefaultSettings is the first-run configuration: zero amounts and the stock
// multipliers a new installation starts with.
func DefaultSettings() SalarySettings {
	return SalarySettings{
		Multipliers: Multipliers{
			CategorySick:             decimal.NewFromInt(1),
			CategoryExcused:          decimal.NewFromInt(1),
			CategoryUnexcusedAbsence: decimal.NewFromInt(2),
			CategoryLeave:            decimal.Zero,
			CategoryLateness:         decimal.NewFromInt(500),
			CategoryOvertime:         decimal.RequireFromString("1.5"),
			CategoryExtraShift:       decimal.NewFromInt(1),
			CategoryIncentive:        decimal.NewFromInt(1),
		},
	}
}

// Earning keys.
const (
	EarningBasePay    = "pokok"
	EarningTransport  = "transport"
	EarningMeal       = "makan"
	EarningAllowance  = "premi"
	EarningCorrection = "koreksi_plus"
)

// Deduction keys.
const (
	DeductionLoanInstallment  = "cicilan_hutang"
	DeductionCooperative      = "ksp"
	DeductionSocialInsurance1 = "jamsostek"
	DeductionSocialInsurance2 = "bpjs"
	DeductionCorrection       = "koreksi_minus"
)

var (
	EarningKeys = []string{
		EarningBasePay, EarningTransport, EarningMeal, EarningAllowance, EarningCorrection,
	}
	DeductionKeys = []string{
		DeductionLoanInstallment, DeductionCooperative, DeductionSocialInsurance1,
		DeductionSocialInsurance2, DeductionCorrection,
	}

	// Keys the engine derives itself; never taken from user input.
	computedEarnings   = map[string]bool{EarningBasePay: true, EarningCorrection: true}
	computedDeductions = map[string]bool{DeductionCorrection: true}
)

// IsComputedEarning reports whether key is derived rather than entered.
func IsComputedEarning(key string) bool { return computedEarnings[key] }

// IsComputedDeduction reports whether key is derived rather than entered.
func IsComputedDeduction(key string) bool { return computedDeductions[key] }

// Breakdown is a set of line items keyed by earning or deduction name.
type Breakdown map[string]decimal.Decimal

// Get returns the amount for key; a missing key counts as zero.
func (b Breakdown) Get(key string) decimal.Decimal {
	if v, ok := b[key]; ok {
		return v
	}
	return decimal.Zero
}

// Sum adds every line item.
func (b Breakdown) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// Clone returns an independent copy.
func (b Breakdown) Clone() Breakdown {
	out := make(Breakdown, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

func emptyBreakdown(keys []string) Breakdown {
	out := make(Breakdown, len(keys))
	for _, k := range keys {
		out[k] = decimal.Zero
	}
	return out
}

// SalaryRecord is the persisted result for one pay period.
type SalaryRecord struct {
	ID         string          `json:"id"`
	Period     string          `json:"periode"`
	NetTotal   decimal.Decimal `json:"total"`
	Earnings   Breakdown       `json:"detailMasuk"`
	Deductions Breakdown       `json:"detailPotong"`
	Attendance AttendanceInput `json:"detailAbsensi"`
}

// History is ordered most recent first; new records are prepended.
type History []SalaryRecord

// Index returns the position of the record with the given id, or -1.
func (h History) Index(id string) int {
	for i, r := range h {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Previous returns the record that follows position i in the list, which is
// what every comparison treats as the prior period. It does not look at the
// period labels.
func (h History) Previous(i int) *SalaryRecord {
	if i < 0 || i+1 >= len(h) {
		return nil
	}
	prev := h[i+1]
	return &prev
}

// Prepend returns a new history with r at the front.
func (h History) Prepend(r SalaryRecord) History {
	out := make(History, 0, len(h)+1)
	out = append(out, r)
	return append(out, h...)
}

// Replace returns a new history with the record sharing r's id swapped for r,
// keeping its position. ok is false when no record has that id.
func (h History) Replace(r SalaryRecord) (out History, ok bool) {
	i := h.Index(r.ID)
	if i < 0 {
		return h, false
	}
	out = make(History, len(h))
	copy(out, h)
	out[i] = r
	return out, true
}

// IsZero reports whether every amount and multiplier is zero.
func (s SalarySettings) IsZero() bool {
	for _, v := range []decimal.Decimal{s.DailyRate, s.FixedAllowance, s.Cooperative, s.SocialInsurance1, s.SocialInsurance2} {
		if !v.IsZero() {
			return false
		}
	}
	for _, v := range s.Multipliers {
		if !v.IsZero() {
			return false
		}
	}
	return true
}
