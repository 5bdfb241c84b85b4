package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"testing"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/clock"
	"github.com/LavaJover/shvark-upi-service/internal/domain"
	"github.com/LavaJover/shvark-upi-service/internal/infrastructure/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	repo     *fakeOrderRepo
	settings *fakeSettings
	audit    *recordingEmitter
	clock    *clock.Fixed
	uc       *DefaultOrderUsecase
}

func newTestEnv(t *testing.T, orders ...*domain.Order) *testEnv {
	t.Helper()

	repo := newFakeOrderRepo(orders...)
	settings := &fakeSettings{snapshot: domain.SettingsSnapshot{
		TimerDurationMinutes: 30,
		EnabledChannels:      domain.DefaultEnabledChannels(),
		StaticPayAddress:     "shvark@okaxis",
	}}
	emitter := &recordingEmitter{}
	fixed := clock.NewFixed(testNow)

	seq := 0
	uc := &DefaultOrderUsecase{
		OrderRepo: repo,
		Settings:  settings,
		Audit:     emitter,
		Metrics:   metrics.NewUPIMetricsWith(prometheus.NewRegistry()),
		Clock:     fixed,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		generateID: func() string {
			seq++
			return fmt.Sprintf("order-%04d", seq)
		},
	}

	return &testEnv{repo: repo, settings: settings, audit: emitter, clock: fixed, uc: uc}
}

// pendingOrder is five minutes old with twenty-five minutes left on its
// payment window.
func pendingOrder(id string) *domain.Order {
	return &domain.Order{
		ID:           id,
		Amount:       2500,
		MerchantName: "Krishna Stores",
		PayAddress:   "krishna@okhdfc",
		Status:       domain.StatusPending,
		CreatedBy:    "merchant-1",
		CreatedAt:    testNow.Add(-5 * time.Minute),
		UpdatedAt:    testNow.Add(-5 * time.Minute),
		ExpiresAt:    testNow.Add(25 * time.Minute),
	}
}

func verificationOrder(id, utr string) *domain.Order {
	order := pendingOrder(id)
	order.Status = domain.StatusPendingVerification
	order.UTR = &utr
	return order
}

type fakeOrderRepo struct {
	orders map[string]*domain.Order

	createErr error
	getErr    error
	updateErr error
	listErr   error

	// beforeUpdate runs inside UpdateOrderConditional before the status
	// guard, to simulate a concurrent writer slipping in between the
	// caller's read and its conditional write.
	beforeUpdate func()
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[string]*domain.Order)}
	for _, order := range orders {
		repo.orders[order.ID] = cloneOrder(order)
	}
	return repo
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Metadata = maps.Clone(order.Metadata)
	if order.UTR != nil {
		utr := *order.UTR
		clone.UTR = &utr
	}
	return &clone
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.orders[order.ID] = cloneOrder(order)
	return nil
}

func (f *fakeOrderRepo) GetOrderByID(_ context.Context, orderID string) (*domain.Order, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	order, ok := f.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (f *fakeOrderRepo) GetOrderByUTR(_ context.Context, utr, excludeOrderID string) (*domain.Order, error) {
	for _, order := range f.orders {
		if order.ID == excludeOrderID {
			continue
		}
		if order.UTR != nil && *order.UTR == utr {
			return cloneOrder(order), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrderRepo) UpdateOrderConditional(_ context.Context, orderID string, expectedStatus domain.OrderStatus, mutate func(*domain.Order) error) (*domain.Order, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}

	stored, ok := f.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if stored.Status != expectedStatus {
		return nil, domain.ErrStaleState
	}

	updated := cloneOrder(stored)
	if err := mutate(updated); err != nil {
		return nil, err
	}

	if updated.UTR != nil {
		for id, other := range f.orders {
			if id != orderID && other.UTR != nil && *other.UTR == *updated.UTR {
				return nil, domain.ErrDuplicateUTR
			}
		}
	}

	f.orders[orderID] = cloneOrder(updated)
	return updated, nil
}

func (f *fakeOrderRepo) FindPendingExpiredBefore(_ context.Context, cutoff time.Time, limit int32) ([]*domain.Order, error) {
	var overdue []*domain.Order
	for _, order := range f.orders {
		if order.Status == domain.StatusPending && order.ExpiresAt.Before(cutoff) {
			overdue = append(overdue, cloneOrder(order))
		}
	}
	if limit > 0 && int32(len(overdue)) > limit {
		overdue = overdue[:limit]
	}
	return overdue, nil
}

func (f *fakeOrderRepo) GetOrdersByCreator(_ context.Context, creatorID string, _ domain.OrderFilters, _, _ int32, _, _ string) ([]*domain.Order, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var result []*domain.Order
	for _, order := range f.orders {
		if order.CreatedBy == creatorID {
			result = append(result, cloneOrder(order))
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeOrderRepo) GetAllOrders(_ context.Context, _ domain.OrderFilters, _, _ int32, _, _ string) ([]*domain.Order, int64, error) {
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var result []*domain.Order
	for _, order := range f.orders {
		result = append(result, cloneOrder(order))
	}
	return result, int64(len(result)), nil
}

type fakeSettings struct {
	snapshot domain.SettingsSnapshot
	err      error
}

func (f *fakeSettings) GetSnapshot(context.Context) (domain.SettingsSnapshot, error) {
	if f.err != nil {
		return domain.SettingsSnapshot{}, f.err
	}
	return f.snapshot, nil
}

type recordingEmitter struct {
	entries []*domain.AuditEntry
}

func (r *recordingEmitter) Emit(_ context.Context, entry *domain.AuditEntry) {
	r.entries = append(r.entries, entry)
}

func (r *recordingEmitter) byAction(action domain.AuditAction) []*domain.AuditEntry {
	var matched []*domain.AuditEntry
	for _, entry := range r.entries {
		if entry.Action == action {
			matched = append(matched, entry)
		}
	}
	return matched
}
