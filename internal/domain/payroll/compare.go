package payroll

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Tone says whether a change is good or bad news for the payee.
type Tone string

const (
	ToneNeutral   Tone = "neutral"
	ToneFavorable Tone = "favorable"
	ToneAdverse   Tone = "adverse"
)

// Trend is the arrow shown next to a net total.
type Trend string

const (
	TrendNone Trend = ""
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Diff holds the changes from the previous record. When there is no previous
// record HasPrevious is false and nothing else is set.
type Diff struct {
	HasPrevious bool
	NetDelta    decimal.Decimal
	Earnings    map[string]decimal.Decimal
	Deductions  map[string]decimal.Decimal
}

// Compare computes current minus previous for the net total and for every
// line item present on current. A key missing on either side counts as zero.
func Compare(current SalaryRecord, previous *SalaryRecord) Diff {
	if previous == nil {
		return Diff{}
	}
	return Diff{
		HasPrevious: true,
		NetDelta:    current.NetTotal.Sub(previous.NetTotal),
		Earnings:    lineDeltas(current.Earnings, previous.Earnings),
		Deductions:  lineDeltas(current.Deductions, previous.Deductions),
	}
}

func lineDeltas(current, previous Breakdown) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(current))
	for key, amount := range current {
		out[key] = amount.Sub(previous.Get(key))
	}
	return out
}

// CompareAt compares the record at position i with the one after it.
func (h History) CompareAt(i int) Diff {
	if i < 0 || i >= len(h) {
		return Diff{}
	}
	return Compare(h[i], h.Previous(i))
}

// NetTrend is up for a zero or positive change and down otherwise. It is
// TrendNone without a previous record.
func (d Diff) NetTrend() Trend {
	if !d.HasPrevious {
		return TrendNone
	}
	if d.NetDelta.IsNegative() {
		return TrendDown
	}
	return TrendUp
}

// EarningTone: more earned is favorable.
func EarningTone(delta decimal.Decimal) Tone {
	switch delta.Sign() {
	case 1:
		return ToneFavorable
	case -1:
		return ToneAdverse
	}
	return ToneNeutral
}

// DeductionTone: a deduction that grew is adverse even though its delta is
// positive.
func DeductionTone(delta decimal.Decimal) Tone {
	switch delta.Sign() {
	case 1:
		return ToneAdverse
	case -1:
		return ToneFavorable
	}
	return ToneNeutral
}

// Changed returns the keys of deltas with a non-zero value, in sorted order.
// Only these rows get a change indicator.
func Changed(deltas map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(deltas))
	for k, v := range deltas {
		if !v.IsZero() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
