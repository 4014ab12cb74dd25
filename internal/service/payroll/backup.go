package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
)

// Export implements payroll.PayrollService.
func (s *PayrollServiceImpl) Export(ctx context.Context) payroll.BackupPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make(payroll.History, len(s.history))
	copy(history, s.history)
	return payroll.BackupPayload{
		ListGaji:    history,
		SetelanGaji: s.settings.Normalize(),
	}
}

// Import implements payroll.PayrollService. The payload replaces history and
// settings together; on a bad payload or a store failure neither changes.
func (s *PayrollServiceImpl) Import(ctx context.Context, raw []byte) (payroll.ImportBackupResponse, error) {
	history, settings, err := payroll.DecodeBackup(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "backup import rejected", slog.String("error", err.Error()))
		return payroll.ImportBackupResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Restore(ctx, history, settings); err != nil {
		return payroll.ImportBackupResponse{}, payroll.NewPersistenceError("restore", err)
	}
	s.history = history
	s.settings = settings

	s.logger.InfoContext(ctx, "backup imported", slog.Int("records", len(history)))
	resp := payroll.ImportBackupResponse{Records: len(history)}
	s.notify(payroll.EventBackupImported, resp)
	return resp, nil
}

// Snapshot implements payroll.PayrollService. It returns the export payload
// as the JSON document Import accepts.
func (s *PayrollServiceImpl) Snapshot(ctx context.Context) ([]byte, error) {
	data, err := json.Marshal(s.Export(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup: %w", err)
	}
	return data, nil
}
