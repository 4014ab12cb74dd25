package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
)

// Store keeps the two JSON documents in a map. It is what tests and the
// "memory" driver run against; nothing survives a restart.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewStore() *Store {
	return &Store{data: make(map[string][]byte)}
}

var _ payroll.Store = (*Store)(nil)

func (s *Store) Load(ctx context.Context) (payroll.History, payroll.SalarySettings, error) {
	s.mu.RLock()
	historyRaw, settingsRaw := s.data[payroll.HistoryKey], s.data[payroll.SettingsKey]
	s.mu.RUnlock()

	history, err := payroll.UnmarshalHistory(historyRaw)
	if err != nil {
		return nil, payroll.SalarySettings{}, fmt.Errorf("failed to decode history: %w", err)
	}
	settings, err := payroll.UnmarshalSettings(settingsRaw)
	if err != nil {
		return nil, payroll.SalarySettings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return history, settings, nil
}

func (s *Store) HasSettings(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[payroll.SettingsKey]
	return ok, nil
}

func (s *Store) SaveHistory(ctx context.Context, history payroll.History) error {
	raw, err := payroll.MarshalHistory(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	s.set(payroll.HistoryKey, raw)
	return nil
}

func (s *Store) SaveSettings(ctx context.Context, settings payroll.SalarySettings) error {
	raw, err := payroll.MarshalSettings(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	s.set(payroll.SettingsKey, raw)
	return nil
}

func (s *Store) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, payroll.HistoryKey)
	return nil
}

func (s *Store) Restore(ctx context.Context, history payroll.History, settings payroll.SalarySettings) error {
	historyRaw, err := payroll.MarshalHistory(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	settingsRaw, err := payroll.MarshalSettings(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[payroll.HistoryKey] = historyRaw
	s.data[payroll.SettingsKey] = settingsRaw
	return nil
}

// Raw returns the stored document for key, or nil.
func (s *Store) Raw(key string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data[key]
}

func (s *Store) set(key string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
}
