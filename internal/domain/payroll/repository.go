package payroll

import "context"

// Storage keys. Each is versioned on its own so a settings schema change
// never touches the history key and vice versa.
const (
	HistoryKey  = "@gaji_master_db_v4"
	SettingsKey = "@setelan_gaji_v1"
)

// Store is the persistence the engine needs. Every call may block.
type Store interface {
	// Load returns an empty history and ZeroSettings when nothing is stored.
	Load(ctx context.Context) (History, SalarySettings, error)
	// HasSettings reports whether settings were ever written, including
	// settings that are all zero.
	HasSettings(ctx context.Context) (bool, error)
	SaveHistory(ctx context.Context, history History) error
	SaveSettings(ctx context.Context, settings SalarySettings) error
	ClearHistory(ctx context.Context) error
	// Restore replaces history and settings together or not at all.
	Restore(ctx context.Context, history History, settings SalarySettings) error
}
