package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/LavaJover/shvark-upi-service/internal/clock"
	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/stretchr/testify/require"
)

func newTestAuditUsecase(repo *fakeAuditRepo, retentionDays int) *DefaultAuditUsecase {
	return NewDefaultAuditUsecase(
		repo,
		retentionDays,
		clock.NewFixed(testNow),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestCleanupExpired(t *testing.T) {
	t.Run("deletes entries older than the retention window", func(t *testing.T) {
		repo := &fakeAuditRepo{deleted: 17}
		uc := newTestAuditUsecase(repo, 90)

		removed, err := uc.CleanupExpired(context.Background())
		require.NoError(t, err)
		require.EqualValues(t, 17, removed)
		require.True(t, repo.lastCutoff.Equal(testNow.AddDate(0, 0, -90)))
	})

	t.Run("zero retention keeps everything", func(t *testing.T) {
		repo := &fakeAuditRepo{}
		uc := newTestAuditUsecase(repo, 0)

		removed, err := uc.CleanupExpired(context.Background())
		require.NoError(t, err)
		require.Zero(t, removed)
		require.Zero(t, repo.deleteCalls)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		repo := &fakeAuditRepo{deleteErr: errors.New("deadlock detected")}
		uc := newTestAuditUsecase(repo, 90)

		_, err := uc.CleanupExpired(context.Background())
		require.True(t, domain.IsKind(err, domain.KindStore))
	})
}

func TestGetEntries(t *testing.T) {
	t.Run("normalizes pagination", func(t *testing.T) {
		repo := &fakeAuditRepo{entries: []*domain.AuditEntry{testEntry("e1")}}
		uc := newTestAuditUsecase(repo, 90)

		entries, total, err := uc.GetEntries(context.Background(), domain.AuditFilter{}, 0, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.EqualValues(t, 1, total)
		require.EqualValues(t, 1, repo.lastPage)
		require.EqualValues(t, 100, repo.lastLimit)

		_, _, err = uc.GetEntries(context.Background(), domain.AuditFilter{}, 2, 501)
		require.NoError(t, err)
		require.EqualValues(t, 2, repo.lastPage)
		require.EqualValues(t, 100, repo.lastLimit)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		repo := &fakeAuditRepo{getErr: errors.New("relation does not exist")}
		uc := newTestAuditUsecase(repo, 90)

		_, _, err := uc.GetEntries(context.Background(), domain.AuditFilter{}, 1, 50)
		require.True(t, domain.IsKind(err, domain.KindStore))
	})
}

func TestGetActionStats(t *testing.T) {
	t.Run("returns per-day buckets", func(t *testing.T) {
		repo := &fakeAuditRepo{}
		uc := newTestAuditUsecase(repo, 90)

		counts, err := uc.GetActionStats(context.Background(), testNow.AddDate(0, 0, -7), testNow)
		require.NoError(t, err)
		require.Len(t, counts, 1)
		require.Equal(t, domain.ActionOrderCreated, counts[0].Action)
		require.EqualValues(t, 3, counts[0].Count)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		repo := &fakeAuditRepo{statsErr: errors.New("timeout")}
		uc := newTestAuditUsecase(repo, 90)

		_, err := uc.GetActionStats(context.Background(), testNow.AddDate(0, 0, -7), testNow)
		require.True(t, domain.IsKind(err, domain.KindStore))
	})
}
