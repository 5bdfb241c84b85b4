package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/order"
	"github.com/stretchr/testify/require"
)

func TestDecideOrder(t *testing.T) {
	operator := domain.Identity{UserID: "operator-7", Role: domain.RoleOperator}

	t.Run("completes order under verification", func(t *testing.T) {
		env := newTestEnv(t, verificationOrder("order-1", "AXIS12345678"))

		output, err := env.uc.DecideOrder(context.Background(), &orderdto.DecideOrderInput{
			OrderID:   "order-1",
			NewStatus: domain.StatusCompleted,
			Reason:    "payment received",
			Actor:     operator,
		})
		require.NoError(t, err)

		order := output.Order
		require.Equal(t, domain.StatusCompleted, order.Status)
		require.Equal(t, "AXIS12345678", *order.UTR)
		require.Equal(t, "operator-7", order.Metadata[domain.MetaDecidedBy])
		require.Equal(t, testNow.Format(time.RFC3339), order.Metadata[domain.MetaDecidedAt])
		require.Equal(t, "payment received", order.Metadata[domain.MetaDecisionReason])
		require.Zero(t, output.RemainingSeconds)

		transitions := env.audit.byAction(domain.ActionOrderStatusUpdated)
		require.Len(t, transitions, 1)
		details := transitions[0].Details.(*domain.StatusChangedDetails)
		require.Equal(t, domain.StatusPendingVerification, details.OldStatus)
		require.Equal(t, domain.StatusCompleted, details.NewStatus)
		require.Equal(t, "payment received", details.Reason)
	})

	t.Run("fails order under verification", func(t *testing.T) {
		env := newTestEnv(t, verificationOrder("order-1", "AXIS12345678"))

		output, err := env.uc.DecideOrder(context.Background(), &orderdto.DecideOrderInput{
			OrderID:   "order-1",
			NewStatus: domain.StatusFailed,
			Reason:    "no credit observed",
			Actor:     operator,
		})
		require.NoError(t, err)
		require.Equal(t, domain.StatusFailed, output.Order.Status)
	})

	t.Run("expires pending order by operator decision", func(t *testing.T) {
		env := newTestEnv(t, pendingOrder("order-1"))

		output, err := env.uc.DecideOrder(context.Background(), &orderdto.DecideOrderInput{
			OrderID:   "order-1",
			NewStatus: domain.StatusExpired,
			Actor:     operator,
		})
		require.NoError(t, err)

		order := output.Order
		require.Equal(t, domain.StatusExpired, order.Status)
		require.Equal(t, "operator-7", order.Metadata[domain.MetaExpiredBy])
		require.Empty(t, order.Metadata[domain.MetaDecidedAt])
	})

	t.Run("rejects non-terminal target", func(t *testing.T) {
		env := newTestEnv(t, verificationOrder("order-1", "AXIS12345678"))

		_, err := env.uc.DecideOrder(context.Background(), &orderdto.DecideOrderInput{
			OrderID:   "order-1",
			NewStatus: domain.StatusPending,
			Actor:     operator,
		})
		require.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("rejects decision on settled order", func(t *testing.T) {
		settled := pendingOrder("order-1")
		settled.Status = domain.StatusFailed
		env := newTestEnv(t, settled)

		_, err := env.uc.DecideOrder(context.Background(), &orderdto.DecideOrderInput{
			OrderID:   "order-1",
			NewStatus: domain.StatusCompleted,
			Actor:     operator,
		})
		require.True(t, domain.IsKind(err, domain.KindBusinessRule))
	})

	t.Run("rejects completing an order that has no utr yet", func(t *testing.T) {
		env := newTestEnv(t, pendingOrder("order-1"))

		_, err := env.uc.DecideOrder(context.Background(), &orderdto.DecideOrderInput{
			OrderID:   "order-1",
			NewStatus: domain.StatusCompleted,
			Actor:     operator,
		})
		require.True(t, domain.IsKind(err, domain.KindBusinessRule))

		require.Equal(t, domain.StatusPending, env.repo.orders["order-1"].Status)
	})

	t.Run("conflicts when the order changed under the operator", func(t *testing.T) {
		env := newTestEnv(t, verificationOrder("order-1", "AXIS12345678"))
		env.repo.beforeUpdate = func() {
			env.repo.orders["order-1"].Status = domain.StatusFailed
		}

		_, err := env.uc.DecideOrder(context.Background(), &orderdto.DecideOrderInput{
			OrderID:   "order-1",
			NewStatus: domain.StatusCompleted,
			Actor:     operator,
		})
		require.True(t, domain.IsKind(err, domain.KindConflict))
	})

	t.Run("not found", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.DecideOrder(context.Background(), &orderdto.DecideOrderInput{
			OrderID:   "ghost",
			NewStatus: domain.StatusCompleted,
			Actor:     operator,
		})
		require.True(t, domain.IsKind(err, domain.KindNotFound))
	})
}
