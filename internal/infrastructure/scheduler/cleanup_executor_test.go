package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCleaner struct {
	removed int
	err     error
	calls   int
	lastAge time.Duration
}

func (c *fakeCleaner) CleanupOlderThan(_ context.Context, age time.Duration) (int, error) {
	c.calls++
	c.lastAge = age
	return c.removed, c.err
}

func TestDocumentCleanupExecutor_RemovesExpiredDocuments(t *testing.T) {
	cleaner := &fakeCleaner{removed: 4}
	executor := NewDocumentCleanupExecutor(cleaner, 90, zap.NewNop())

	err := executor.Execute(context.Background(), NewJob(JobTypeDocumentCleanup, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, cleaner.calls)
	assert.Equal(t, 90*24*time.Hour, cleaner.lastAge)
}

func TestDocumentCleanupExecutor_RetentionDisabled(t *testing.T) {
	cleaner := &fakeCleaner{}
	executor := NewDocumentCleanupExecutor(cleaner, 0, nil)

	err := executor.Execute(context.Background(), NewJob(JobTypeDocumentCleanup, 0))
	require.NoError(t, err)
	assert.Zero(t, cleaner.calls)
}

func TestDocumentCleanupExecutor_WrongJobType(t *testing.T) {
	executor := NewDocumentCleanupExecutor(&fakeCleaner{}, 90, nil)

	err := executor.Execute(context.Background(), &Job{Type: JobType("UNKNOWN")})
	assert.ErrorIs(t, err, ErrInvalidJobType)
}

func TestDocumentCleanupExecutor_CleanupError(t *testing.T) {
	cleaner := &fakeCleaner{err: errors.New("permission denied")}
	executor := NewDocumentCleanupExecutor(cleaner, 30, nil)

	err := executor.Execute(context.Background(), NewJob(JobTypeDocumentCleanup, 0))
	assert.Error(t, err)
}
