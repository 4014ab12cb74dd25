package cron

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/storage"
)

const (
	backupPrefix     = "backup-"
	backupExt        = ".json"
	backupTimeLayout = "20060102-150405"
)

// BackupJobs writes the export payload to file storage on a schedule, so a
// copy exists even if the owner never downloads one.
type BackupJobs struct {
	payrollService payroll.PayrollService
	storage        storage.FileStorage
	retain         int
	logger         *slog.Logger
	now            func() time.Time
}

// NewBackupJobs keeps the newest retain files; retain <= 0 keeps all.
func NewBackupJobs(payrollService payroll.PayrollService, fs storage.FileStorage, retain int, logger *slog.Logger) *BackupJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &BackupJobs{
		payrollService: payrollService,
		storage:        fs,
		retain:         retain,
		logger:         logger,
		now:            time.Now,
	}
}

// RegisterJobs registers the snapshot job.
func (j *BackupJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("payroll_backup_snapshot", interval, j.WriteSnapshot)
}

// WriteSnapshot stores one backup file and prunes old ones.
func (j *BackupJobs) WriteSnapshot(ctx context.Context) error {
	data, err := j.payrollService.Snapshot(ctx)
	if err != nil {
		return err
	}

	name := backupPrefix + j.now().UTC().Format(backupTimeLayout) + backupExt
	path, err := j.storage.Upload(ctx, bytes.NewReader(data), name, "application/json")
	if err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	j.logger.InfoContext(ctx, "backup snapshot written", slog.String("path", path), slog.Int("bytes", len(data)))

	return j.prune(ctx)
}

func (j *BackupJobs) prune(ctx context.Context) error {
	if j.retain <= 0 {
		return nil
	}

	names, err := j.storage.List(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	var backups []string
	for _, n := range names {
		if strings.HasPrefix(n, backupPrefix) && strings.HasSuffix(n, backupExt) {
			backups = append(backups, n)
		}
	}
	if len(backups) <= j.retain {
		return nil
	}

	// The timestamp layout sorts lexically.
	sort.Strings(backups)
	for _, n := range backups[:len(backups)-j.retain] {
		if err := j.storage.Delete(ctx, n); err != nil {
			return fmt.Errorf("failed to delete old backup %s: %w", n, err)
		}
	}
	return nil
}
