package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/payment"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
	"github.com/ignatzorin/freelance-orders/internal/usecase/usecasetest"
)

func TestFactory_Create(t *testing.T) {
	f := usecasetest.New(t)
	draft := entity.OrderDraft{
		ClientID:     f.Client.UserID,
		FreelancerID: f.Freelancer.UserID,
		Title:        "Логотип",
		Amount:       100,
		Currency:     "usd",
		DeliveryDays: 3,
	}

	t.Run("deferred capture creates pending order", func(t *testing.T) {
		o, err := order.NewFactory(f.Platform).Create(context.Background(), f.Store.Repositories().Orders, draft)
		require.NoError(t, err)
		assert.Equal(t, valueobject.OrderStatusPending, o.Status)
		assert.Equal(t, valueobject.EscrowHeld, o.EscrowStatus)
		assert.Equal(t, "USD", o.Currency)
		assert.InDelta(t, 12.0, o.PlatformFee, 0.001)
		assert.InDelta(t, 88.0, o.FreelancerEarnings, 0.001)

		stored := f.Order(t, o.ID)
		assert.Equal(t, o.FreelancerEarnings, stored.FreelancerEarnings)
	})

	t.Run("immediate capture creates active order", func(t *testing.T) {
		platform := f.Platform
		platform.Capture = valueobject.CaptureImmediate

		o, err := order.NewFactory(platform).Create(context.Background(), f.Store.Repositories().Orders, draft)
		require.NoError(t, err)
		assert.Equal(t, valueobject.OrderStatusActive, o.Status)
	})

	t.Run("invalid amount", func(t *testing.T) {
		bad := draft
		bad.Amount = 0
		_, err := order.NewFactory(f.Platform).Create(context.Background(), f.Store.Repositories().Orders, bad)
		assert.True(t, apperror.IsValidation(err))
	})
}

func TestDeliverOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("only freelancer delivers", func(t *testing.T) {
		f := usecasetest.New(t)
		o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)

		_, err := order.NewDeliverOrderUseCase(f.Store, f.Publisher).Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Client})
		assert.ErrorIs(t, err, apperror.ErrForbidden)
		assert.Equal(t, valueobject.OrderStatusActive, f.Order(t, o.ID).Status)
	})

	t.Run("order with milestones is delivered per milestone", func(t *testing.T) {
		f := usecasetest.New(t)
		o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)
		ms, err := entity.NewMilestones(o, []entity.MilestoneDraft{{Title: "Макет", Amount: 40}, {Title: "Вёрстка", Amount: 60}}, time.Now())
		require.NoError(t, err)
		require.NoError(t, f.Store.Repositories().Milestones.CreateBatch(ctx, ms))

		_, err = order.NewDeliverOrderUseCase(f.Store, f.Publisher).Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Freelancer})
		assert.ErrorIs(t, err, apperror.ErrOrderHasMilestones)
	})

	t.Run("pending order cannot be delivered", func(t *testing.T) {
		f := usecasetest.New(t)
		o := f.SeedOrder(t, 100, valueobject.OrderStatusPending)

		_, err := order.NewDeliverOrderUseCase(f.Store, f.Publisher).Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Freelancer})
		assert.ErrorIs(t, err, apperror.ErrInvalidOrderState)
	})

	t.Run("delivered and revised", func(t *testing.T) {
		f := usecasetest.New(t)
		o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)

		delivered, err := order.NewDeliverOrderUseCase(f.Store, f.Publisher).Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Freelancer})
		require.NoError(t, err)
		assert.Equal(t, valueobject.OrderStatusDelivered, delivered.Status)
		assert.NotNil(t, f.Order(t, o.ID).DeliveredAt)
		assert.Contains(t, f.Recorder.Kinds(f.Client.UserID), notify.KindOrderDelivered)

		revision := order.NewRequestRevisionUseCase(f.Store, f.Publisher)
		_, err = revision.Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Freelancer})
		assert.ErrorIs(t, err, apperror.ErrForbidden)

		revised, err := revision.Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Client})
		require.NoError(t, err)
		assert.Equal(t, valueobject.OrderStatusRevision, revised.Status)
		assert.Contains(t, f.Recorder.Kinds(f.Freelancer.UserID), notify.KindRevisionRequested)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := usecasetest.New(t)
		_, err := order.NewDeliverOrderUseCase(f.Store, f.Publisher).Execute(ctx, order.ActionInput{OrderID: uuid.New(), Actor: f.Freelancer})
		assert.ErrorIs(t, err, apperror.ErrOrderNotFound)
	})
}

func TestApproveDelivery(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 100, valueobject.OrderStatusDelivered)
	uc := order.NewApproveDeliveryUseCase(f.Store, f.Publisher)

	_, err := uc.Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Freelancer})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	completed, err := uc.Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Client})
	require.NoError(t, err)
	assert.Equal(t, valueobject.OrderStatusCompleted, completed.Status)
	assert.Equal(t, valueobject.EscrowReleased, completed.EscrowStatus)
	assert.NotNil(t, completed.CompletedAt)

	txs := f.Transactions(t, o.ID)
	require.Len(t, txs, 1)
	assert.Equal(t, valueobject.TransactionPayout, txs[0].Type)
	assert.InDelta(t, 88.0, txs[0].NetAmount, 0.001)
	assert.InDelta(t, 12.0, txs[0].Fee, 0.001)

	freelancer := f.User(t, f.Freelancer.UserID)
	assert.Equal(t, 1, freelancer.TotalOrders)
	assert.InDelta(t, 88.0, freelancer.TotalEarnings, 0.001)

	assert.Equal(t, valueobject.ProjectStatusCompleted, f.Project(t, *o.ProjectID).Status)

	payouts := f.Recorder.Payouts()
	require.Len(t, payouts, 1)
	assert.Equal(t, txs[0].ID, payouts[0].TransactionID)
	assert.InDelta(t, 88.0, payouts[0].Amount, 0.001)
	assert.Contains(t, f.Recorder.Kinds(f.Freelancer.UserID), notify.KindOrderCompleted)

	t.Run("second approval is rejected without side effects", func(t *testing.T) {
		_, err := uc.Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Client})
		assert.ErrorIs(t, err, apperror.ErrInvalidOrderState)
		assert.Len(t, f.Transactions(t, o.ID), 1)
		assert.Equal(t, 1, f.User(t, f.Freelancer.UserID).TotalOrders)
		assert.Len(t, f.Recorder.Payouts(), 1)
	})
}

func TestApproveDelivery_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 250, valueobject.OrderStatusDelivered)
	uc := order.NewApproveDeliveryUseCase(f.Store, f.Publisher)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Client})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperror.ErrInvalidOrderState):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)
	assert.Len(t, f.Transactions(t, o.ID), 1)
	assert.Equal(t, 1, f.User(t, f.Freelancer.UserID).TotalOrders)
}

func TestGetOrder(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)
	uc := order.NewGetOrderUseCase(f.Store)

	details, err := uc.Execute(ctx, o.ID, f.Freelancer)
	require.NoError(t, err)
	assert.Equal(t, o.ID, details.Order.ID)
	assert.Empty(t, details.Milestones)

	_, err = uc.Execute(ctx, o.ID, f.Admin)
	assert.NoError(t, err)

	stranger := valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleClient}
	_, err = uc.Execute(ctx, o.ID, stranger)
	assert.ErrorIs(t, err, apperror.ErrNotParticipant)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	f.SeedOrder(t, 100, valueobject.OrderStatusActive)
	f.SeedOrder(t, 200, valueobject.OrderStatusPending)
	uc := order.NewListOrdersUseCase(f.Store)

	orders, total, err := uc.Execute(ctx, order.ListOrdersInput{Actor: f.Client})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, orders, 2)

	orders, total, err = uc.Execute(ctx, order.ListOrdersInput{Actor: f.Freelancer, Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.InDelta(t, 200.0, orders[0].Amount, 0.001)

	_, total, err = uc.Execute(ctx, order.ListOrdersInput{Actor: valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleClient}})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = uc.Execute(ctx, order.ListOrdersInput{Actor: f.Client, Status: "lost"})
	assert.True(t, apperror.IsValidation(err))
}

func TestHandlePaymentEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("captured activates pending order once", func(t *testing.T) {
		f := usecasetest.New(t)
		o := f.SeedOrder(t, 100, valueobject.OrderStatusPending)
		uc := order.NewHandlePaymentEventUseCase(f.Store, f.Publisher)
		event := payment.WebhookEvent{ID: "evt_1", Type: payment.EventPaymentCaptured, OrderID: o.ID}

		res, err := uc.Execute(ctx, event)
		require.NoError(t, err)
		assert.True(t, res.Applied)
		assert.Equal(t, valueobject.OrderStatusActive, f.Order(t, o.ID).Status)
		assert.Contains(t, f.Recorder.Kinds(f.Freelancer.UserID), notify.KindOrderActivated)

		res, err = uc.Execute(ctx, event)
		require.NoError(t, err)
		assert.False(t, res.Applied)
	})

	t.Run("failed cancels order and closes project", func(t *testing.T) {
		f := usecasetest.New(t)
		o := f.SeedOrder(t, 100, valueobject.OrderStatusPending)
		uc := order.NewHandlePaymentEventUseCase(f.Store, f.Publisher)

		res, err := uc.Execute(ctx, payment.WebhookEvent{ID: "evt_2", Type: payment.EventPaymentFailed, OrderID: o.ID, Reason: "card declined"})
		require.NoError(t, err)
		assert.True(t, res.Applied)

		stored := f.Order(t, o.ID)
		assert.Equal(t, valueobject.OrderStatusCancelled, stored.Status)
		assert.Equal(t, valueobject.EscrowRefunded, stored.EscrowStatus)
		assert.Equal(t, valueobject.ProjectStatusClosed, f.Project(t, *o.ProjectID).Status)
		assert.Empty(t, f.Transactions(t, o.ID))

		_, err = uc.Execute(ctx, payment.WebhookEvent{ID: "evt_3", Type: payment.EventPaymentCaptured, OrderID: o.ID})
		assert.ErrorIs(t, err, apperror.ErrInvalidOrderState)
	})

	t.Run("failed after activation is a conflict", func(t *testing.T) {
		f := usecasetest.New(t)
		o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)

		_, err := order.NewHandlePaymentEventUseCase(f.Store, f.Publisher).Execute(ctx, payment.WebhookEvent{Type: payment.EventPaymentFailed, OrderID: o.ID})
		assert.ErrorIs(t, err, apperror.ErrInvalidOrderState)
		assert.Equal(t, valueobject.OrderStatusActive, f.Order(t, o.ID).Status)
	})

	t.Run("unknown event type", func(t *testing.T) {
		f := usecasetest.New(t)
		_, err := order.NewHandlePaymentEventUseCase(f.Store, f.Publisher).Execute(ctx, payment.WebhookEvent{Type: "payment.refunded", OrderID: uuid.New()})
		assert.True(t, apperror.IsValidation(err))
	})
}

func TestExpirePendingOrders(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	stale := f.SeedOrder(t, 100, valueobject.OrderStatusPending)
	active := f.SeedOrder(t, 100, valueobject.OrderStatusActive)

	uc := order.NewExpirePendingOrdersUseCase(f.Store, f.Publisher, 30*time.Minute)

	n, err := uc.Execute(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, valueobject.OrderStatusCancelled, f.Order(t, stale.ID).Status)
	assert.Equal(t, valueobject.OrderStatusActive, f.Order(t, active.ID).Status)
	assert.Contains(t, f.Recorder.Kinds(f.Client.UserID), notify.KindOrderCancelled)

	n, err = uc.Execute(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExpirePendingOrders_RespectsTTL(t *testing.T) {
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 100, valueobject.OrderStatusPending)

	n, err := order.NewExpirePendingOrdersUseCase(f.Store, f.Publisher, 72*time.Hour).Execute(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, valueobject.OrderStatusPending, f.Order(t, o.ID).Status)
}
