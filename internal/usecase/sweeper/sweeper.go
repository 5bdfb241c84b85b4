// Package sweeper settles orders whose payment window ran out before
// anyone touched them. It complements lazy expiry on reads: together
// they guarantee overdue PENDING orders converge to EXPIRED.
package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/clock"
	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/metrics"
	orderusecase "github.com/LavaJover/shvark-upi-service/internal/usecase/order"
)

type SweepFailure struct {
	OrderID string
	Err     error
}

type SweepReport struct {
	ExpiredCount int
	ExpiredIDs   []string
	Failures     []SweepFailure
}

// OrderExpirer is the single transition the sweeper needs.
type OrderExpirer interface {
	ExpireOrder(ctx context.Context, orderID, actorID, source string) (*domain.Order, error)
}

type Sweeper struct {
	OrderRepo  domain.OrderRepository
	Orders     OrderExpirer
	Clock      clock.Clock
	Metrics    *metrics.UPIMetrics
	Logger     *slog.Logger
	BatchLimit int32
}

func NewSweeper(orderRepo domain.OrderRepository, orders OrderExpirer, clk clock.Clock, upiMetrics *metrics.UPIMetrics, logger *slog.Logger, batchLimit int32) *Sweeper {
	return &Sweeper{
		OrderRepo:  orderRepo,
		Orders:     orders,
		Clock:      clk,
		Metrics:    upiMetrics,
		Logger:     logger,
		BatchLimit: batchLimit,
	}
}

// Sweep expires one batch of overdue orders. A failure on one order is
// recorded and the sweep moves on; orders another writer settled first
// are skipped without being counted as failures, which also makes
// overlapping sweeps harmless.
func (s *Sweeper) Sweep(ctx context.Context) (*SweepReport, error) {
	started := time.Now()
	now := s.Clock.Now()

	candidates, err := s.OrderRepo.FindPendingExpiredBefore(ctx, now, s.BatchLimit)
	if err != nil {
		return nil, domain.NewStoreError("find overdue orders", err)
	}

	report := &SweepReport{}
	for _, order := range candidates {
		if ctx.Err() != nil {
			break
		}

		_, err := s.Orders.ExpireOrder(ctx, order.ID, domain.SystemActorID, orderusecase.ExpireSourceSweeper)
		switch {
		case err == nil:
			report.ExpiredCount++
			report.ExpiredIDs = append(report.ExpiredIDs, order.ID)
		case isAlreadySettled(err):
			// Lost the race to a UTR submit, a lazy read or an
			// overlapping sweep.
			continue
		default:
			report.Failures = append(report.Failures, SweepFailure{OrderID: order.ID, Err: err})
			s.Logger.Error("sweep failed to expire order", "order_id", order.ID, "error", err.Error())
		}
	}

	s.Metrics.RecordSweep(time.Since(started).Seconds(), len(report.Failures))
	if report.ExpiredCount > 0 || len(report.Failures) > 0 {
		s.Logger.Info("sweep finished",
			"candidates", len(candidates), "expired", report.ExpiredCount, "failures", len(report.Failures))
	}

	return report, nil
}

func isAlreadySettled(err error) bool {
	if errors.Is(err, domain.ErrStaleState) {
		return true
	}
	kind := domain.KindOf(err)
	return kind == domain.KindBusinessRule || kind == domain.KindNotFound
}
