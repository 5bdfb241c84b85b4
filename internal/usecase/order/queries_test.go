package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/order"
	"github.com/stretchr/testify/require"
)

func TestGetOrderByID(t *testing.T) {
	t.Run("returns live order with remaining seconds", func(t *testing.T) {
		env := newTestEnv(t, pendingOrder("order-1"))

		output, err := env.uc.GetOrderByID(context.Background(), "order-1")
		require.NoError(t, err)
		require.Equal(t, domain.StatusPending, output.Order.Status)
		require.EqualValues(t, 25*60, output.RemainingSeconds)
	})

	t.Run("settles overdue order on read", func(t *testing.T) {
		overdue := pendingOrder("order-1")
		overdue.ExpiresAt = testNow.Add(-time.Minute)
		env := newTestEnv(t, overdue)

		output, err := env.uc.GetOrderByID(context.Background(), "order-1")
		require.NoError(t, err)
		require.Equal(t, domain.StatusExpired, output.Order.Status)
		require.Zero(t, output.RemainingSeconds)

		// The flip was persisted, not just projected.
		require.Equal(t, domain.StatusExpired, env.repo.orders["order-1"].Status)
		require.Len(t, env.audit.byAction(domain.ActionOrderStatusUpdated), 1)
	})

	t.Run("defers to a concurrent writer that settled first", func(t *testing.T) {
		overdue := pendingOrder("order-1")
		overdue.ExpiresAt = testNow.Add(-time.Minute)
		env := newTestEnv(t, overdue)

		env.repo.beforeUpdate = func() {
			env.repo.orders["order-1"].Status = domain.StatusExpired
		}

		output, err := env.uc.GetOrderByID(context.Background(), "order-1")
		require.NoError(t, err)
		require.Equal(t, domain.StatusExpired, output.Order.Status)
		// The rival's write is the only audit trail.
		require.Empty(t, env.audit.entries)
	})

	t.Run("serves expired view when the store refuses the flip", func(t *testing.T) {
		overdue := pendingOrder("order-1")
		overdue.ExpiresAt = testNow.Add(-time.Minute)
		env := newTestEnv(t, overdue)
		env.repo.updateErr = errors.New("connection reset")

		output, err := env.uc.GetOrderByID(context.Background(), "order-1")
		require.NoError(t, err)
		require.Equal(t, domain.StatusExpired, output.Order.Status)

		// Persistence is deferred to the sweeper.
		require.Equal(t, domain.StatusPending, env.repo.orders["order-1"].Status)
	})

	t.Run("not found", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.GetOrderByID(context.Background(), "ghost")
		require.True(t, domain.IsKind(err, domain.KindNotFound))
	})
}

func TestGetOrderByUTR(t *testing.T) {
	t.Run("finds the holder", func(t *testing.T) {
		env := newTestEnv(t, verificationOrder("order-1", "AXIS12345678"))

		output, err := env.uc.GetOrderByUTR(context.Background(), "AXIS12345678")
		require.NoError(t, err)
		require.Equal(t, "order-1", output.Order.ID)
	})

	t.Run("rejects malformed utr", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.GetOrderByUTR(context.Background(), "nope")
		require.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("no holder", func(t *testing.T) {
		env := newTestEnv(t, pendingOrder("order-1"))

		_, err := env.uc.GetOrderByUTR(context.Background(), "AXIS12345678")
		require.True(t, domain.IsKind(err, domain.KindNotFound))
	})
}

func TestListOrders(t *testing.T) {
	t.Run("scopes to creator", func(t *testing.T) {
		mine := pendingOrder("order-1")
		theirs := pendingOrder("order-2")
		theirs.CreatedBy = "merchant-2"
		env := newTestEnv(t, mine, theirs)

		output, err := env.uc.GetOrdersByCreator(context.Background(), &orderdto.ListOrdersInput{
			CreatorID: "merchant-1",
			Page:      1,
			Limit:     50,
		})
		require.NoError(t, err)
		require.EqualValues(t, 1, output.Total)
		require.Len(t, output.Orders, 1)
		require.Equal(t, "order-1", output.Orders[0].ID)
	})

	t.Run("creator listing requires a creator", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.GetOrdersByCreator(context.Background(), &orderdto.ListOrdersInput{})
		require.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("normalizes pagination", func(t *testing.T) {
		env := newTestEnv(t, pendingOrder("order-1"))

		output, err := env.uc.GetAllOrders(context.Background(), &orderdto.ListOrdersInput{Page: 0, Limit: 0})
		require.NoError(t, err)
		require.EqualValues(t, 1, output.Page)
		require.EqualValues(t, 50, output.Limit)

		output, err = env.uc.GetAllOrders(context.Background(), &orderdto.ListOrdersInput{Page: 2, Limit: 1000})
		require.NoError(t, err)
		require.EqualValues(t, 2, output.Page)
		require.EqualValues(t, 50, output.Limit)
	})

	t.Run("wraps store failures", func(t *testing.T) {
		env := newTestEnv(t)
		env.repo.listErr = errors.New("disk on fire")

		_, err := env.uc.GetAllOrders(context.Background(), &orderdto.ListOrdersInput{})
		require.True(t, domain.IsKind(err, domain.KindStore))
	})
}
