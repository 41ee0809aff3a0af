package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// StorageCleaner removes stored files older than the given age and reports
// how many were removed. FileSystemStorage in the printing package
// implements it.
type StorageCleaner interface {
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// DocumentCleanupExecutor executes DOCUMENT_CLEANUP jobs against a
// PDF storage backend.
type DocumentCleanupExecutor struct {
	cleaner   StorageCleaner
	retention time.Duration
	logger    *zap.Logger
}

// NewDocumentCleanupExecutor creates an executor that removes PDFs older
// than retentionDays. A retention of zero disables cleanup.
func NewDocumentCleanupExecutor(cleaner StorageCleaner, retentionDays int, logger *zap.Logger) *DocumentCleanupExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentCleanupExecutor{
		cleaner:   cleaner,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger,
	}
}

// Execute runs the cleanup for a DOCUMENT_CLEANUP job
func (e *DocumentCleanupExecutor) Execute(ctx context.Context, job *Job) error {
	if job.Type != JobTypeDocumentCleanup {
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}
	if e.retention <= 0 {
		e.logger.Debug("Document retention disabled, skipping cleanup")
		return nil
	}

	removed, err := e.cleaner.CleanupOlderThan(ctx, e.retention)
	if err != nil {
		return fmt.Errorf("document cleanup failed: %w", err)
	}

	e.logger.Info("Document cleanup finished",
		zap.Int("removed", removed),
		zap.Duration("retention", e.retention),
	)
	return nil
}

// Ensure DocumentCleanupExecutor implements JobExecutor
var _ JobExecutor = (*DocumentCleanupExecutor)(nil)
