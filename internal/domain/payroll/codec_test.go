package payroll

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalSettings_DefaultsMissingFields(t *testing.T) {
	s, err := UnmarshalSettings([]byte(`{"harian": 100000, "persen": {"sakit": 1}}`))
	require.NoError(t, err)

	assert.True(t, s.DailyRate.Equal(d("100000")))
	assert.True(t, s.FixedAllowance.IsZero())
	assert.Len(t, s.Multipliers, len(Categories))
	assert.True(t, s.Multipliers[CategorySick].Equal(d("1")))
	assert.True(t, s.Multipliers[CategoryOvertime].IsZero())
}

func TestUnmarshalSettings_Empty(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		s, err := UnmarshalSettings([]byte(raw))
		require.NoError(t, err)
		assert.True(t, s.DailyRate.IsZero())
		assert.Len(t, s.Multipliers, len(Categories))
	}
}

func TestHistoryEncodesAmountsAsNumbers(t *testing.T) {
	h := History{BuildRecord("1712345678901", "Maret 2025",
		Breakdown{EarningBasePay: d("5000000")}, Breakdown{DeductionCooperative: d("50000")}, nil)}

	raw, err := MarshalHistory(h)
	require.NoError(t, err)

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	require.Len(t, generic, 1)
	assert.Equal(t, float64(4950000), generic[0]["total"])
	assert.Equal(t, "Maret 2025", generic[0]["periode"])

	back, err := UnmarshalHistory(raw)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.True(t, back[0].NetTotal.Equal(d("4950000")))
}

func TestUnmarshalHistory_Empty(t *testing.T) {
	h, err := UnmarshalHistory(nil)
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Empty(t, h)
}

func TestDecodeBackup(t *testing.T) {
	raw := []byte(`{
		"listGaji": [{"id": "1712345678901", "periode": "Maret 2025", "total": 100,
			"detailMasuk": {"pokok": 150}, "detailPotong": {"ksp": 50}, "detailAbsensi": {"sakit": 0}}],
		"setelanGaji": {"harian": 3, "persen": {"alpha": 2}}
	}`)

	history, settings, err := DecodeBackup(raw)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "1712345678901", history[0].ID)
	assert.True(t, history[0].Earnings[EarningBasePay].Equal(d("150")))
	assert.True(t, settings.DailyRate.Equal(d("3")))
	assert.True(t, settings.Multipliers[CategoryUnexcusedAbsence].Equal(d("2")))
	assert.Len(t, settings.Multipliers, len(Categories))
}

func TestDecodeBackup_EmptyHistoryIsValid(t *testing.T) {
	history, _, err := DecodeBackup([]byte(`{"listGaji": [], "setelanGaji": {}}`))
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDecodeBackup_RejectsBadShapes(t *testing.T) {
	bad := []string{
		``,
		`not json`,
		`[]`,
		`null`,
		`{"listGaji": []}`,
		`{"setelanGaji": {}}`,
		`{"listGaji": null, "setelanGaji": {}}`,
		`{"listGaji": [], "setelanGaji": null}`,
		`{"listGaji": {}, "setelanGaji": {}}`,
		`{"listGaji": [], "setelanGaji": []}`,
		`{"listGaji": [{"periode": "Maret 2025"}], "setelanGaji": {}}`,
		`{"listGaji": [{"id": "1", "total": "abc"}], "setelanGaji": {}}`,
		`{"listGaji": [], "setelanGaji": {"harian": "lots"}}`,
		`{"listGaji": [{"id": "1", "total": 1e5000000}], "setelanGaji": {}}`,
		`{"listGaji": [{"id": "1", "detailMasuk": {"transport": 1e-200000000}}], "setelanGaji": {}}`,
		`{"listGaji": [], "setelanGaji": {"harian": 1e200000000}}`,
		`{"listGaji": [], "setelanGaji": {"persen": {"overtime": 1e16}}}`,
	}
	for _, raw := range bad {
		_, _, err := DecodeBackup([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidBackupFormat, raw)
	}
}

func TestPersistenceError(t *testing.T) {
	assert.Nil(t, NewPersistenceError("save history", nil))

	cause := assert.AnError
	err := NewPersistenceError("save history", cause)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)

	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "save history", pe.Op)
}

func TestDecodeBackup_AcceptsComputedPrecision(t *testing.T) {
	settings := DefaultSettings()
	settings.DailyRate = d("100000")
	record := BuildRecord("r1", "Maret 2025", Breakdown{EarningBasePay: d("2600000")}, Breakdown{},
		AttendanceInput{CategoryOvertime: d("3")})
	c := ResolveAttendance(record.Attendance, settings)
	record.Earnings[EarningCorrection] = c.Positive
	record.NetTotal = record.Earnings.Sum()

	raw, err := json.Marshal(BackupPayload{ListGaji: History{record}, SetelanGaji: settings})
	require.NoError(t, err)

	history, _, err := DecodeBackup(raw)
	require.NoError(t, err)
	assert.True(t, history[0].Earnings[EarningCorrection].Equal(c.Positive))
}
