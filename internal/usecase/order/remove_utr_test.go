package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/shvark-upi-service/internal/domain"
	orderdto "github.com/LavaJover/shvark-upi-service/internal/usecase/dto/order"
	"github.com/stretchr/testify/require"
)

func TestRemoveUTR(t *testing.T) {
	operator := domain.Identity{UserID: "operator-7", Role: domain.RoleOperator}

	t.Run("returns order to pending while the window is open", func(t *testing.T) {
		env := newTestEnv(t, verificationOrder("order-1", "AXIS12345678"))

		output, err := env.uc.RemoveUTR(context.Background(), &orderdto.RemoveUTRInput{
			OrderID: "order-1",
			Reason:  "payer mistyped the reference",
			Actor:   operator,
		})
		require.NoError(t, err)

		order := output.Order
		require.Equal(t, domain.StatusPending, order.Status)
		require.Nil(t, order.UTR)

		// The detached value survives in metadata for the trail.
		require.Equal(t, "AXIS12345678", order.Metadata[domain.MetaRemovedUTR])
		require.Equal(t, "operator-7", order.Metadata[domain.MetaUTRRemovedBy])
		require.Equal(t, testNow.Format(time.RFC3339), order.Metadata[domain.MetaUTRRemovedAt])

		// Back on the clock.
		require.EqualValues(t, 25*60, output.RemainingSeconds)

		transitions := env.audit.byAction(domain.ActionOrderStatusUpdated)
		require.Len(t, transitions, 1)
		details := transitions[0].Details.(*domain.StatusChangedDetails)
		require.Equal(t, "utr removed: payer mistyped the reference", details.Reason)
	})

	t.Run("expires the order when the window already elapsed", func(t *testing.T) {
		overdue := verificationOrder("order-1", "AXIS12345678")
		overdue.ExpiresAt = testNow.Add(-time.Minute)
		env := newTestEnv(t, overdue)

		output, err := env.uc.RemoveUTR(context.Background(), &orderdto.RemoveUTRInput{
			OrderID: "order-1",
			Actor:   operator,
		})
		require.NoError(t, err)

		order := output.Order
		require.Equal(t, domain.StatusExpired, order.Status)
		require.Nil(t, order.UTR)
		require.Equal(t, "operator-7", order.Metadata[domain.MetaExpiredBy])
		require.Zero(t, output.RemainingSeconds)
	})

	t.Run("only orders under verification qualify", func(t *testing.T) {
		for _, status := range []domain.OrderStatus{domain.StatusPending, domain.StatusCompleted, domain.StatusFailed, domain.StatusExpired} {
			order := pendingOrder("order-1")
			order.Status = status
			env := newTestEnv(t, order)

			_, err := env.uc.RemoveUTR(context.Background(), &orderdto.RemoveUTRInput{
				OrderID: "order-1",
				Actor:   operator,
			})
			require.True(t, domain.IsKind(err, domain.KindBusinessRule), "status %s", status)
		}
	})

	t.Run("conflicts when the order changed under the operator", func(t *testing.T) {
		env := newTestEnv(t, verificationOrder("order-1", "AXIS12345678"))
		env.repo.beforeUpdate = func() {
			env.repo.orders["order-1"].Status = domain.StatusCompleted
		}

		_, err := env.uc.RemoveUTR(context.Background(), &orderdto.RemoveUTRInput{
			OrderID: "order-1",
			Actor:   operator,
		})
		require.True(t, domain.IsKind(err, domain.KindConflict))
	})

	t.Run("not found", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.uc.RemoveUTR(context.Background(), &orderdto.RemoveUTRInput{
			OrderID: "ghost",
			Actor:   operator,
		})
		require.True(t, domain.IsKind(err, domain.KindNotFound))
	})
}
