package payroll

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, matching existing backups.
	decimal.MarshalJSONWithoutQuotes = true
}

// Backup payload keys.
const (
	BackupHistoryKey  = "listGaji"
	BackupSettingsKey = "setelanGaji"
)

// BackupPayload is the export format: the whole history plus settings.
type BackupPayload struct {
	ListGaji    History        `json:"listGaji"`
	SetelanGaji SalarySettings `json:"setelanGaji"`
}

func MarshalHistory(h History) ([]byte, error) {
	if h == nil {
		h = History{}
	}
	return json.Marshal(h)
}

// UnmarshalHistory treats an empty value as an empty history.
func UnmarshalHistory(raw []byte) (History, error) {
	if isEmptyJSON(raw) {
		return History{}, nil
	}
	var h History
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, err
	}
	if h == nil {
		h = History{}
	}
	return h, nil
}

func MarshalSettings(s SalarySettings) ([]byte, error) {
	return json.Marshal(s.Normalize())
}

// UnmarshalSettings treats an empty value as ZeroSettings and fills in any
// missing multiplier.
func UnmarshalSettings(raw []byte) (SalarySettings, error) {
	if isEmptyJSON(raw) {
		return ZeroSettings(), nil
	}
	var s SalarySettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return SalarySettings{}, err
	}
	return s.Normalize(), nil
}

// DecodeBackup validates and reads an export payload. Both top-level keys
// must be present with an array and an object; every record needs an id and
// every number must be InRange.
// Any other shape yields ErrInvalidBackupFormat and nothing else.
func DecodeBackup(raw []byte) (History, SalarySettings, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return nil, SalarySettings{}, ErrInvalidBackupFormat
	}

	list, ok := top[BackupHistoryKey]
	if !ok || !startsWith(list, '[') {
		return nil, SalarySettings{}, ErrInvalidBackupFormat
	}
	settingsRaw, ok := top[BackupSettingsKey]
	if !ok || !startsWith(settingsRaw, '{') {
		return nil, SalarySettings{}, ErrInvalidBackupFormat
	}

	var history History
	if err := json.Unmarshal(list, &history); err != nil {
		return nil, SalarySettings{}, ErrInvalidBackupFormat
	}
	for _, r := range history {
		if r.ID == "" || !r.InRange() {
			return nil, SalarySettings{}, ErrInvalidBackupFormat
		}
	}
	if history == nil {
		history = History{}
	}

	var settings SalarySettings
	if err := json.Unmarshal(settingsRaw, &settings); err != nil || !settings.InRange() {
		return nil, SalarySettings{}, ErrInvalidBackupFormat
	}

	return history, settings.Normalize(), nil
}

func isEmptyJSON(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func startsWith(raw json.RawMessage, c byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == c
}
