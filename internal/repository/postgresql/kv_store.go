package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
)

const kvSchema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// kvStore keeps each payroll document as one row keyed by its storage key.
type kvStore struct {
	db *database.DB
}

func NewKVStore(db *database.DB) payroll.Store {
	return &kvStore{db: db}
}

// EnsureSchema creates the kv_store table when it does not exist.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, kvSchema); err != nil {
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return nil
}

// Load reads both keys concurrently. A missing row is an empty value.
func (s *kvStore) Load(ctx context.Context) (payroll.History, payroll.SalarySettings, error) {
	var historyRaw, settingsRaw []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := s.get(gctx, payroll.HistoryKey)
		historyRaw = raw
		return err
	})
	g.Go(func() error {
		raw, err := s.get(gctx, payroll.SettingsKey)
		settingsRaw = raw
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, payroll.SalarySettings{}, err
	}

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

func (s *kvStore) HasSettings(ctx context.Context) (bool, error) {
	q := GetQuerier(ctx, s.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM kv_store WHERE key = $1)`, payroll.SettingsKey).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check settings: %w", err)
	}
	return exists, nil
}

func (s *kvStore) SaveHistory(ctx context.Context, history payroll.History) error {
	raw, err := payroll.MarshalHistory(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return s.put(ctx, payroll.HistoryKey, raw)
}

func (s *kvStore) SaveSettings(ctx context.Context, settings payroll.SalarySettings) error {
	raw, err := payroll.MarshalSettings(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.put(ctx, payroll.SettingsKey, raw)
}

func (s *kvStore) ClearHistory(ctx context.Context) error {
	q := GetQuerier(ctx, s.db)

	if _, err := q.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, payroll.HistoryKey); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Restore writes both keys in one transaction.
func (s *kvStore) Restore(ctx context.Context, history payroll.History, settings payroll.SalarySettings) error {
	historyRaw, err := payroll.MarshalHistory(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	settingsRaw, err := payroll.MarshalSettings(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return WithTransaction(ctx, s.db, func(ctx context.Context) error {
		if err := s.put(ctx, payroll.HistoryKey, historyRaw); err != nil {
			return err
		}
		return s.put(ctx, payroll.SettingsKey, settingsRaw)
	})
}

func (s *kvStore) get(ctx context.Context, key string) ([]byte, error) {
	q := GetQuerier(ctx, s.db)

	var raw []byte
	err := q.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return raw, nil
}

func (s *kvStore) put(ctx context.Context, key string, raw []byte) error {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	if _, err := q.Exec(ctx, query, key, string(raw)); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}
