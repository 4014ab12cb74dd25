package payroll

import "context"

// PayrollService owns the single in-memory history and settings. Screens and
// handlers hold a reference to it, never a copy of its state.
type PayrollService interface {
	Init(ctx context.Context) error

	// Settings
	GetSettings(ctx context.Context) SettingsResponse
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)

	// Drafts
	NewDraft(ctx context.Context, period string) (DraftResponse, error)
	PreviewRecord(ctx context.Context, editID string, req SaveRecordRequest) (DraftResponse, error)

	// Records
	CreateRecord(ctx context.Context, req SaveRecordRequest) (RecordResponse, error)
	UpdateRecord(ctx context.Context, id string, req SaveRecordRequest) (RecordResponse, error)
	GetRecord(ctx context.Context, id string) (RecordResponse, error)
	ListRecords(ctx context.Context) ([]RecordSummaryResponse, error)
	History(ctx context.Context) History
	ClearHistory(ctx context.Context) error

	// Backup
	Export(ctx context.Context) BackupPayload
	Import(ctx context.Context, raw []byte) (ImportBackupResponse, error)
	Snapshot(ctx context.Context) ([]byte, error)
}

// Change events, published after the mutation has been persisted.
const (
	EventSettingsUpdated = "settings.updated"
	EventRecordCreated   = "record.created"
	EventRecordUpdated   = "record.updated"
	EventHistoryCleared  = "history.cleared"
	EventBackupImported  = "backup.imported"
)

// ChangeNotifier is told about every successful mutation so that other open
// screens can refresh.
type ChangeNotifier interface {
	Notify(event string, data interface{})
}
