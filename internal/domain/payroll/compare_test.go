package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id, net string) SalaryRecord {
	return SalaryRecord{
		ID:         id,
		Period:     "Januari 2025",
		NetTotal:   d(net),
		Earnings:   Breakdown{EarningBasePay: d("5000000"), EarningTransport: d("100000")},
		Deductions: Breakdown{DeductionCooperative: d("50000"), DeductionCorrection: d("0")},
	}
}

func TestCompare_NoPrevious(t *testing.T) {
	diff := Compare(sampleRecord("a", "5000000"), nil)

	assert.False(t, diff.HasPrevious)
	assert.True(t, diff.NetDelta.IsZero())
	assert.Nil(t, diff.Earnings)
	assert.Nil(t, diff.Deductions)
	assert.Equal(t, TrendNone, diff.NetTrend())
}

func TestCompare_WithItself(t *testing.T) {
	r := sampleRecord("a", "5050000")
	diff := Compare(r, &r)

	require.True(t, diff.HasPrevious)
	assert.True(t, diff.NetDelta.IsZero())
	for key, delta := range diff.Earnings {
		assert.True(t, delta.IsZero(), key)
	}
	for key, delta := range diff.Deductions {
		assert.True(t, delta.IsZero(), key)
	}
	assert.Equal(t, TrendUp, diff.NetTrend())
}

func TestCompare_ByListPosition(t *testing.T) {
	a := sampleRecord("a", "5000000")
	a.Period = "Januari 2024" // older label, but most recent in the list
	b := sampleRecord("b", "4500000")
	b.Period = "Desember 2024"
	h := History{a, b}

	diff := h.CompareAt(0)
	require.True(t, diff.HasPrevious)
	assert.True(t, diff.NetDelta.Equal(d("500000")), "got %s", diff.NetDelta)
	assert.Equal(t, TrendUp, diff.NetTrend())

	last := h.CompareAt(1)
	assert.False(t, last.HasPrevious)
	assert.False(t, h.CompareAt(5).HasPrevious)
}

func TestCompare_LineItems(t *testing.T) {
	prev := sampleRecord("p", "4000000")
	cur := sampleRecord("c", "3900000")
	cur.Earnings[EarningTransport] = d("80000")
	cur.Earnings[EarningMeal] = d("25000") // absent on previous
	cur.Deductions[DeductionCooperative] = d("75000")
	delete(prev.Deductions, DeductionCorrection)

	diff := Compare(cur, &prev)

	assert.True(t, diff.Earnings[EarningTransport].Equal(d("-20000")))
	assert.True(t, diff.Earnings[EarningMeal].Equal(d("25000")))
	assert.True(t, diff.Earnings[EarningBasePay].IsZero())
	assert.True(t, diff.Deductions[DeductionCooperative].Equal(d("25000")))
	assert.True(t, diff.Deductions[DeductionCorrection].IsZero())
	assert.Equal(t, TrendDown, diff.NetTrend())
}

func TestCompare_OnlyCurrentKeys(t *testing.T) {
	prev := sampleRecord("p", "1")
	prev.Earnings["bonus"] = d("10")
	cur := sampleRecord("c", "1")

	diff := Compare(cur, &prev)
	_, present := diff.Earnings["bonus"]
	assert.False(t, present)
}

func TestTones(t *testing.T) {
	assert.Equal(t, ToneFavorable, EarningTone(d("1")))
	assert.Equal(t, ToneAdverse, EarningTone(d("-1")))
	assert.Equal(t, ToneNeutral, EarningTone(d("0")))

	// A deduction that grew is bad news even though the delta is positive.
	assert.Equal(t, ToneAdverse, DeductionTone(d("1")))
	assert.Equal(t, ToneFavorable, DeductionTone(d("-1")))
	assert.Equal(t, ToneNeutral, DeductionTone(d("0")))
}

func TestChanged(t *testing.T) {
	keys := Changed(map[string]decimal.Decimal{"b": d("1"), "a": d("-2"), "c": d("0")})
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.Empty(t, Changed(nil))
}
