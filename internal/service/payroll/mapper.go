package payroll

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/money"
)

func mapToSettingsResponse(s payroll.SalarySettings) payroll.SettingsResponse {
	basePay := payroll.BasePay(s)
	return payroll.SettingsResponse{
		DailyRate:        s.DailyRate,
		FixedAllowance:   s.FixedAllowance,
		Cooperative:      s.Cooperative,
		SocialInsurance1: s.SocialInsurance1,
		SocialInsurance2: s.SocialInsurance2,
		Multipliers:      s.Multipliers.Normalize(),
		BasePay:          basePay,
		BasePayDisplay:   money.Format(basePay),
	}
}

func mapToDraftResponse(d payroll.Draft, settings payroll.SalarySettings) payroll.DraftResponse {
	record := d.Build("")
	return payroll.DraftResponse{
		EditID:          d.EditID,
		Period:          d.Period,
		Earnings:        mapLineItems(record.Earnings, payroll.EarningKeys, payroll.IsComputedEarning, nil, payroll.EarningTone),
		Deductions:      mapLineItems(record.Deductions, payroll.DeductionKeys, payroll.IsComputedDeduction, nil, payroll.DeductionTone),
		Attendance:      record.Attendance,
		Corrections:     payroll.ResolveAttendance(record.Attendance, settings),
		NetTotal:        record.NetTotal,
		NetTotalDisplay: money.Format(record.NetTotal),
	}
}

// mapToRecordResponse renders history[i] with its changes from the record
// that follows it in the list.
func mapToRecordResponse(history payroll.History, i int) payroll.RecordResponse {
	r := history[i]
	diff := history.CompareAt(i)

	resp := payroll.RecordResponse{
		ID:              r.ID,
		Period:          r.Period,
		NetTotal:        r.NetTotal,
		NetTotalDisplay: money.Format(r.NetTotal),
		TotalEarnings:   r.Earnings.Sum(),
		TotalDeductions: r.Deductions.Sum(),
		Earnings:        mapLineItems(r.Earnings, payroll.EarningKeys, payroll.IsComputedEarning, diff.Earnings, payroll.EarningTone),
		Deductions:      mapLineItems(r.Deductions, payroll.DeductionKeys, payroll.IsComputedDeduction, diff.Deductions, payroll.DeductionTone),
		Attendance:      r.Attendance.Normalize(),
	}
	if diff.HasPrevious {
		resp.PreviousID = history[i+1].ID
		resp.NetDelta = &diff.NetDelta
		resp.NetDeltaDisplay = money.Format(diff.NetDelta)
		resp.Trend = diff.NetTrend()
	}
	return resp
}

func mapToRecordSummaryResponse(history payroll.History, i int) payroll.RecordSummaryResponse {
	r := history[i]
	diff := history.CompareAt(i)

	resp := payroll.RecordSummaryResponse{
		ID:              r.ID,
		Period:          r.Period,
		NetTotal:        r.NetTotal,
		NetTotalDisplay: money.Format(r.NetTotal),
	}
	if diff.HasPrevious {
		resp.NetDelta = &diff.NetDelta
		resp.NetDeltaDisplay = money.Format(diff.NetDelta)
		resp.Trend = diff.NetTrend()
	}
	return resp
}

// mapLineItems lists known keys first in their fixed order, then any other
// keys a record carries (for example from an imported backup) sorted by name.
// Only non-zero deltas are attached.
func mapLineItems(
	b payroll.Breakdown,
	known []string,
	computed func(string) bool,
	deltas map[string]decimal.Decimal,
	tone func(decimal.Decimal) payroll.Tone,
) []payroll.LineItem {
	keys := make([]string, 0, len(b))
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		seen[k] = true
		if _, ok := b[k]; ok {
			keys = append(keys, k)
		}
	}
	var extra []string
	for k := range b {
		if !seen[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	items := make([]payroll.LineItem, 0, len(keys))
	for _, k := range keys {
		amount := b[k]
		item := payroll.LineItem{
			Key:      k,
			Amount:   amount,
			Display:  money.Format(amount),
			Computed: computed(k),
		}
		if delta, ok := deltas[k]; ok && !delta.IsZero() {
			item.Delta = &delta
			item.DeltaDisplay = money.Format(delta)
			item.Tone = tone(delta)
		}
		items = append(items, item)
	}
	return items
}
