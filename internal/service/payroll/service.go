package payroll

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
)

// PayrollServiceImpl is the single owner of the history and settings. Every
// mutation persists first and only then swaps the in-memory state, so a store
// failure leaves both untouched.
type PayrollServiceImpl struct {
	mu       sync.RWMutex
	store    payroll.Store
	logger   *slog.Logger
	history  payroll.History
	settings payroll.SalarySettings
	notifier payroll.ChangeNotifier
}

func NewPayrollService(store payroll.Store, logger *slog.Logger) *PayrollServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		store:    store,
		logger:   logger,
		history:  payroll.History{},
		settings: payroll.ZeroSettings(),
	}
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)

// SetNotifier registers the receiver of change events. Call it before serving.
func (s *PayrollServiceImpl) SetNotifier(n payroll.ChangeNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// notify must be called with s.mu held.
func (s *PayrollServiceImpl) notify(event string, data interface{}) {
	if s.notifier != nil {
		s.notifier.Notify(event, data)
	}
}

// Init implements payroll.PayrollService.
func (s *PayrollServiceImpl) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, settings, err := s.store.Load(ctx)
	if err != nil {
		return payroll.NewPersistenceError("load", err)
	}

	stored, err := s.store.HasSettings(ctx)
	if err != nil {
		return payroll.NewPersistenceError("load", err)
	}
	if !stored {
		settings = payroll.DefaultSettings()
		if err := s.store.SaveSettings(ctx, settings); err != nil {
			return payroll.NewPersistenceError("seed settings", err)
		}
		s.logger.InfoContext(ctx, "seeded first-run salary settings")
	}

	s.history = history
	s.settings = settings.Normalize()
	s.logger.InfoContext(ctx, "payroll state loaded", slog.Int("records", len(history)))
	return nil
}

// ========== SETTINGS ==========

// GetSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSettings(ctx context.Context) payroll.SettingsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return mapToSettingsResponse(s.settings)
}

// UpdateSettings implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SettingsResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := req.Apply(s.settings).Normalize()
	if err := s.store.SaveSettings(ctx, next); err != nil {
		return payroll.SettingsResponse{}, payroll.NewPersistenceError("save settings", err)
	}
	s.settings = next

	resp := mapToSettingsResponse(next)
	s.notify(payroll.EventSettingsUpdated, resp)
	return resp, nil
}

// ========== DRAFTS ==========

// NewDraft implements payroll.PayrollService.
func (s *PayrollServiceImpl) NewDraft(ctx context.Context, period string) (payroll.DraftResponse, error) {
	if period != "" {
		if _, err := payroll.ParsePeriod(period); err != nil {
			return payroll.DraftResponse{}, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	draft := payroll.NewDraft(s.settings, period)
	return mapToDraftResponse(draft, s.settings), nil
}

// PreviewRecord implements payroll.PayrollService. With an editID the request
// is laid over the stored record, otherwise over a fresh pre-filled draft.
func (s *PayrollServiceImpl) PreviewRecord(ctx context.Context, editID string, req payroll.SaveRecordRequest) (payroll.DraftResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.DraftResponse{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, err := s.draftFor(editID, req)
	if err != nil {
		return payroll.DraftResponse{}, err
	}
	return mapToDraftResponse(draft, s.settings), nil
}

// draftFor builds the draft a save request describes. Callers hold s.mu.
func (s *PayrollServiceImpl) draftFor(editID string, req payroll.SaveRecordRequest) (payroll.Draft, error) {
	var draft payroll.Draft
	if editID == "" {
		draft = payroll.NewDraft(s.settings, req.Period)
	} else {
		i := s.history.Index(editID)
		if i < 0 {
			return payroll.Draft{}, payroll.ErrRecordNotFound
		}
		draft = payroll.EditDraft(s.history[i], s.settings)
	}
	req.ApplyTo(&draft)
	draft.Recalculate(s.settings)
	return draft, nil
}

// ========== RECORDS ==========

// CreateRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateRecord(ctx context.Context, req payroll.SaveRecordRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.draftFor("", req)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	record := draft.Build(payroll.NewRecordID())
	next := s.history.Prepend(record)

	if err := s.store.SaveHistory(ctx, next); err != nil {
		return payroll.RecordResponse{}, payroll.NewPersistenceError("save history", err)
	}
	s.history = next

	s.logger.InfoContext(ctx, "salary record created",
		slog.String("id", record.ID),
		slog.String("period", record.Period),
		slog.String("total", record.NetTotal.String()),
	)
	resp := mapToRecordResponse(next, 0)
	s.notify(payroll.EventRecordCreated, mapToRecordSummaryResponse(next, 0))
	return resp, nil
}

// UpdateRecord implements payroll.PayrollService. The record keeps its id and
// its position in the history.
func (s *PayrollServiceImpl) UpdateRecord(ctx context.Context, id string, req payroll.SaveRecordRequest) (payroll.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RecordResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.draftFor(id, req)
	if err != nil {
		return payroll.RecordResponse{}, err
	}
	next, ok := s.history.Replace(draft.Build(""))
	if !ok {
		return payroll.RecordResponse{}, payroll.ErrRecordNotFound
	}

	if err := s.store.SaveHistory(ctx, next); err != nil {
		return payroll.RecordResponse{}, payroll.NewPersistenceError("save history", err)
	}
	s.history = next

	s.logger.InfoContext(ctx, "salary record updated", slog.String("id", id))
	i := next.Index(id)
	s.notify(payroll.EventRecordUpdated, mapToRecordSummaryResponse(next, i))
	return mapToRecordResponse(next, i), nil
}

// GetRecord implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetRecord(ctx context.Context, id string) (payroll.RecordResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.history.Index(id)
	if i < 0 {
		return payroll.RecordResponse{}, payroll.ErrRecordNotFound
	}
	return mapToRecordResponse(s.history, i), nil
}

// ListRecords implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListRecords(ctx context.Context) ([]payroll.RecordSummaryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]payroll.RecordSummaryResponse, 0, len(s.history))
	for i := range s.history {
		out = append(out, mapToRecordSummaryResponse(s.history, i))
	}
	return out, nil
}

// History implements payroll.PayrollService. The returned slice is a copy.
func (s *PayrollServiceImpl) History(ctx context.Context) payroll.History {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(payroll.History, len(s.history))
	copy(out, s.history)
	return out
}

// ClearHistory implements payroll.PayrollService. Settings are kept.
func (s *PayrollServiceImpl) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearHistory(ctx); err != nil {
		return payroll.NewPersistenceError("clear history", err)
	}
	removed := len(s.history)
	s.history = payroll.History{}

	s.logger.WarnContext(ctx, "salary history cleared", slog.Int("removed", removed))
	s.notify(payroll.EventHistoryCleared, map[string]int{"removed": removed})
	return nil
}

// Settings returns the current settings by value.
func (s *PayrollServiceImpl) Settings() payroll.SalarySettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Normalize()
}
