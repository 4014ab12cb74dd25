package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
)

// kvStore keeps each payroll document as a plain string key without expiry.
type kvStore struct {
	rdb goredis.UniversalClient
}

func NewKVStore(rdb goredis.UniversalClient) payroll.Store {
	return &kvStore{rdb: rdb}
}

// Load fetches both keys with one MGET. A missing key is an empty value.
func (s *kvStore) Load(ctx context.Context) (payroll.History, payroll.SalarySettings, error) {
	values, err := s.rdb.MGet(ctx, payroll.HistoryKey, payroll.SettingsKey).Result()
	if err != nil {
		return nil, payroll.SalarySettings{}, fmt.Errorf("failed to load payroll keys: %w", err)
	}

	history, err := payroll.UnmarshalHistory(asBytes(values[0]))
	if err != nil {
		return nil, payroll.SalarySettings{}, fmt.Errorf("failed to decode history: %w", err)
	}
	settings, err := payroll.UnmarshalSettings(asBytes(values[1]))
	if err != nil {
		return nil, payroll.SalarySettings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return history, settings, nil
}

func (s *kvStore) HasSettings(ctx context.Context) (bool, error) {
	n, err := s.rdb.Exists(ctx, payroll.SettingsKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check settings: %w", err)
	}
	return n > 0, nil
}

func (s *kvStore) SaveHistory(ctx context.Context, history payroll.History) error {
	raw, err := payroll.MarshalHistory(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.rdb.Set(ctx, payroll.HistoryKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (s *kvStore) SaveSettings(ctx context.Context, settings payroll.SalarySettings) error {
	raw, err := payroll.MarshalSettings(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.rdb.Set(ctx, payroll.SettingsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *kvStore) ClearHistory(ctx context.Context) error {
	if err := s.rdb.Del(ctx, payroll.HistoryKey).Err(); err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Restore writes both keys in a single MULTI/EXEC.
func (s *kvStore) Restore(ctx context.Context, history payroll.History, settings payroll.SalarySettings) error {
	historyRaw, err := payroll.MarshalHistory(history)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	settingsRaw, err := payroll.MarshalSettings(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, payroll.HistoryKey, historyRaw, 0)
		pipe.Set(ctx, payroll.SettingsKey, settingsRaw, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to restore payroll keys: %w", err)
	}
	return nil
}

// asBytes converts one MGET slot; missing keys come back as nil.
func asBytes(v interface{}) []byte {
	switch val := v.(type) {
	case string:
		return []byte(val)
	case []byte:
		return val
	default:
		return nil
	}
}
