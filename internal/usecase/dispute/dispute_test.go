package dispute_test

import (
	"context"
	"errors"
	"io"
	"strings"
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
	"github.com/ignatzorin/freelance-orders/internal/usecase/dispute"
	"github.com/ignatzorin/freelance-orders/internal/usecase/milestone"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
	"github.com/ignatzorin/freelance-orders/internal/usecase/usecasetest"
)

func openInput(orderID uuid.UUID, actor valueobject.Actor) dispute.OpenDisputeInput {
	return dispute.OpenDisputeInput{
		OrderID:     orderID,
		Actor:       actor,
		Reason:      "Работа не соответствует ТЗ",
		Description: "Сдан макет без адаптивной вёрстки",
	}
}

func TestDispute_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)

	d, err := dispute.NewOpenDisputeUseCase(f.Store, f.Publisher).Execute(ctx, openInput(o.ID, f.Client))
	require.NoError(t, err)
	assert.Equal(t, valueobject.DisputeStatusOpen, d.Status)
	assert.Equal(t, valueobject.OrderStatusActive, d.OrderStatusBefore)

	disputed := f.Order(t, o.ID)
	assert.Equal(t, valueobject.OrderStatusDisputed, disputed.Status)
	assert.Equal(t, valueobject.EscrowHeld, disputed.EscrowStatus)
	assert.Contains(t, f.Recorder.Kinds(f.Freelancer.UserID), notify.KindDisputeOpened)

	resolve := dispute.NewResolveDisputeUseCase(f.Store, f.Publisher)
	in := dispute.ResolveDisputeInput{DisputeID: d.ID, Actor: f.Admin, Resolution: "full_refund", Note: "Работа не сдана"}

	res, err := resolve.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, valueobject.DisputeStatusResolved, res.Dispute.Status)
	require.NotNil(t, res.Dispute.ResolvedBy)
	assert.Equal(t, f.Admin.UserID, *res.Dispute.ResolvedBy)
	assert.NotNil(t, res.Dispute.ResolvedAt)

	resolved := f.Order(t, o.ID)
	assert.Equal(t, valueobject.OrderStatusCancelled, resolved.Status)
	assert.Equal(t, valueobject.EscrowRefunded, resolved.EscrowStatus)
	assert.Contains(t, f.Recorder.Kinds(f.Client.UserID), notify.KindDisputeResolved)

	_, err = resolve.Execute(ctx, in)
	assert.ErrorIs(t, err, apperror.ErrDisputeAlreadyResolved)
}

func TestResolveDispute_Outcomes(t *testing.T) {
	tests := []struct {
		resolution    string
		wantStatus    valueobject.OrderStatus
		wantEscrow    valueobject.EscrowStatus
		wantGross     float64
		wantNet       float64
		projectStatus valueobject.ProjectStatus
	}{
		{"full_refund", valueobject.OrderStatusCancelled, valueobject.EscrowRefunded, 0, 0, valueobject.ProjectStatusClosed},
		{"partial_refund", valueobject.OrderStatusCompleted, valueobject.EscrowPartialRefund, 50, 44, valueobject.ProjectStatusCompleted},
		{"release_to_freelancer", valueobject.OrderStatusCompleted, valueobject.EscrowReleased, 100, 88, valueobject.ProjectStatusCompleted},
		{"mutual_cancellation", valueobject.OrderStatusCancelled, valueobject.EscrowRefunded, 0, 0, valueobject.ProjectStatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.resolution, func(t *testing.T) {
			ctx := context.Background()
			f := usecasetest.New(t)
			o := f.SeedOrder(t, 100, valueobject.OrderStatusDelivered)

			d, err := dispute.NewOpenDisputeUseCase(f.Store, f.Publisher).Execute(ctx, openInput(o.ID, f.Freelancer))
			require.NoError(t, err)

			_, err = dispute.NewResolveDisputeUseCase(f.Store, f.Publisher).Execute(ctx, dispute.ResolveDisputeInput{
				DisputeID: d.ID, Actor: f.Admin, Resolution: tt.resolution, Note: "Решение администратора",
			})
			require.NoError(t, err)

			stored := f.Order(t, o.ID)
			assert.Equal(t, tt.wantStatus, stored.Status)
			assert.Equal(t, tt.wantEscrow, stored.EscrowStatus)
			assert.Equal(t, tt.projectStatus, f.Project(t, *o.ProjectID).Status)

			txs := f.Transactions(t, o.ID)
			freelancer := f.User(t, f.Freelancer.UserID)
			if tt.wantNet > 0 {
				require.Len(t, txs, 1)
				assert.InDelta(t, tt.wantGross, txs[0].Amount, 0.001)
				assert.InDelta(t, tt.wantNet, txs[0].NetAmount, 0.001)
				assert.InDelta(t, txs[0].Amount-txs[0].Fee, txs[0].NetAmount, 0.001)
				require.Len(t, f.Recorder.Payouts(), 1)
				assert.InDelta(t, tt.wantNet, f.Recorder.Payouts()[0].Amount, 0.001)
				assert.Equal(t, 1, freelancer.TotalOrders)
				assert.InDelta(t, tt.wantNet, freelancer.TotalEarnings, 0.001)
			} else {
				assert.Empty(t, txs)
				assert.Empty(t, f.Recorder.Payouts())
				assert.Zero(t, freelancer.TotalOrders)
			}
		})
	}
}

func TestResolveDispute_Preconditions(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)
	d, err := dispute.NewOpenDisputeUseCase(f.Store, f.Publisher).Execute(ctx, openInput(o.ID, f.Client))
	require.NoError(t, err)
	uc := dispute.NewResolveDisputeUseCase(f.Store, f.Publisher)

	_, err = uc.Execute(ctx, dispute.ResolveDisputeInput{DisputeID: d.ID, Actor: f.Client, Resolution: "full_refund", Note: "x"})
	assert.ErrorIs(t, err, apperror.ErrAdminOnly)

	_, err = uc.Execute(ctx, dispute.ResolveDisputeInput{DisputeID: d.ID, Actor: f.Admin, Resolution: "split", Note: "x"})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(ctx, dispute.ResolveDisputeInput{DisputeID: d.ID, Actor: f.Admin, Resolution: "full_refund", Note: "  "})
	assert.True(t, apperror.IsValidation(err))

	_, err = uc.Execute(ctx, dispute.ResolveDisputeInput{DisputeID: uuid.New(), Actor: f.Admin, Resolution: "full_refund", Note: "x"})
	assert.ErrorIs(t, err, apperror.ErrDisputeNotFound)

	assert.Equal(t, valueobject.OrderStatusDisputed, f.Order(t, o.ID).Status)
}

func TestResolveDispute_ReleaseAfterMilestonePayouts(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 300, valueobject.OrderStatusActive)

	ms, err := milestone.NewCreateMilestonesUseCase(f.Store, f.Publisher).Execute(ctx, milestone.CreateMilestonesInput{
		OrderID: o.ID, Actor: f.Client,
		Items: []entity.MilestoneDraft{{Title: "Первый", Amount: 100}, {Title: "Второй", Amount: 200}},
	})
	require.NoError(t, err)
	_, err = milestone.NewDeliverMilestoneUseCase(f.Store, f.Publisher).Execute(ctx, milestone.MilestoneInput{OrderID: o.ID, MilestoneID: ms[0].ID, Actor: f.Freelancer})
	require.NoError(t, err)
	_, err = milestone.NewApproveMilestoneUseCase(f.Store, f.Platform, f.Publisher).Execute(ctx, milestone.MilestoneInput{OrderID: o.ID, MilestoneID: ms[0].ID, Actor: f.Client})
	require.NoError(t, err)

	d, err := dispute.NewOpenDisputeUseCase(f.Store, f.Publisher).Execute(ctx, openInput(o.ID, f.Freelancer))
	require.NoError(t, err)

	_, err = milestone.NewDeliverMilestoneUseCase(f.Store, f.Publisher).Execute(ctx, milestone.MilestoneInput{OrderID: o.ID, MilestoneID: ms[1].ID, Actor: f.Freelancer})
	assert.ErrorIs(t, err, apperror.ErrInvalidOrderState)

	res, err := dispute.NewResolveDisputeUseCase(f.Store, f.Publisher).Execute(ctx, dispute.ResolveDisputeInput{
		DisputeID: d.ID, Actor: f.Admin, Resolution: "release_to_freelancer", Note: "Работа выполнена",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Settlement)

	// 300 -> доход 264, по первому этапу уже выплачено 88 из 100.
	assert.InDelta(t, 200.0, res.Settlement.Amount, 0.001)
	assert.InDelta(t, 24.0, res.Settlement.Fee, 0.001)
	assert.InDelta(t, 176.0, res.Settlement.NetAmount, 0.001)
	assert.Len(t, f.Transactions(t, o.ID), 2)
	assert.InDelta(t, 264.0, f.User(t, f.Freelancer.UserID).TotalEarnings, 0.001)
}

func TestResolveDispute_PartialRefundAfterMilestonePayouts(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 300, valueobject.OrderStatusActive)

	ms, err := milestone.NewCreateMilestonesUseCase(f.Store, f.Publisher).Execute(ctx, milestone.CreateMilestonesInput{
		OrderID: o.ID, Actor: f.Client,
		Items: []entity.MilestoneDraft{{Title: "Первый", Amount: 100}, {Title: "Второй", Amount: 200}},
	})
	require.NoError(t, err)
	_, err = milestone.NewDeliverMilestoneUseCase(f.Store, f.Publisher).Execute(ctx, milestone.MilestoneInput{OrderID: o.ID, MilestoneID: ms[0].ID, Actor: f.Freelancer})
	require.NoError(t, err)
	_, err = milestone.NewApproveMilestoneUseCase(f.Store, f.Platform, f.Publisher).Execute(ctx, milestone.MilestoneInput{OrderID: o.ID, MilestoneID: ms[0].ID, Actor: f.Client})
	require.NoError(t, err)

	d, err := dispute.NewOpenDisputeUseCase(f.Store, f.Publisher).Execute(ctx, openInput(o.ID, f.Client))
	require.NoError(t, err)

	res, err := dispute.NewResolveDisputeUseCase(f.Store, f.Publisher).Execute(ctx, dispute.ResolveDisputeInput{
		DisputeID: d.ID, Actor: f.Admin, Resolution: "partial_refund", Note: "Второй этап сдан частично",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Settlement)

	// Исполнитель получает половину невыплаченного остатка: 200 брутто, 176 нетто.
	assert.InDelta(t, 100.0, res.Settlement.Amount, 0.001)
	assert.InDelta(t, 12.0, res.Settlement.Fee, 0.001)
	assert.InDelta(t, 88.0, res.Settlement.NetAmount, 0.001)
	assert.Equal(t, valueobject.EscrowPartialRefund, res.Order.EscrowStatus)
	assert.Len(t, f.Transactions(t, o.ID), 2)
	assert.Len(t, f.Recorder.Payouts(), 2)

	freelancer := f.User(t, f.Freelancer.UserID)
	assert.Equal(t, 1, freelancer.TotalOrders)
	assert.InDelta(t, 176.0, freelancer.TotalEarnings, 0.001)
}

func TestOpenDispute_Preconditions(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	uc := dispute.NewOpenDisputeUseCase(f.Store, f.Publisher)

	t.Run("stranger", func(t *testing.T) {
		o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)
		_, err := uc.Execute(ctx, openInput(o.ID, valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleClient}))
		assert.ErrorIs(t, err, apperror.ErrNotParticipant)
	})

	t.Run("second dispute", func(t *testing.T) {
		o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)
		_, err := uc.Execute(ctx, openInput(o.ID, f.Client))
		require.NoError(t, err)
		_, err = uc.Execute(ctx, openInput(o.ID, f.Freelancer))
		assert.ErrorIs(t, err, apperror.ErrAlreadyDisputed)
	})

	t.Run("terminal order", func(t *testing.T) {
		o := f.SeedOrder(t, 100, valueobject.OrderStatusCompleted)
		_, err := uc.Execute(ctx, openInput(o.ID, f.Client))
		assert.ErrorIs(t, err, apperror.ErrInvalidOrderState)
	})

	t.Run("missing reason", func(t *testing.T) {
		o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)
		in := openInput(o.ID, f.Client)
		in.Reason = ""
		_, err := uc.Execute(ctx, in)
		assert.True(t, apperror.IsValidation(err))
		assert.Equal(t, valueobject.OrderStatusActive, f.Order(t, o.ID).Status)
	})
}

func TestWithdrawDispute(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 100, valueobject.OrderStatusDelivered)
	d, err := dispute.NewOpenDisputeUseCase(f.Store, f.Publisher).Execute(ctx, openInput(o.ID, f.Client))
	require.NoError(t, err)
	uc := dispute.NewWithdrawDisputeUseCase(f.Store, f.Publisher)

	_, err = uc.Execute(ctx, d.ID, f.Freelancer)
	assert.True(t, apperror.IsForbidden(err))

	closed, err := uc.Execute(ctx, d.ID, f.Client)
	require.NoError(t, err)
	assert.Equal(t, valueobject.DisputeStatusClosed, closed.Status)
	assert.Equal(t, valueobject.OrderStatusDelivered, f.Order(t, o.ID).Status)
	assert.Contains(t, f.Recorder.Kinds(f.Freelancer.UserID), notify.KindDisputeWithdrawn)

	_, err = uc.Execute(ctx, d.ID, f.Client)
	assert.ErrorIs(t, err, apperror.ErrDisputeAlreadyResolved)

	_, err = dispute.NewOpenDisputeUseCase(f.Store, f.Publisher).Execute(ctx, openInput(o.ID, f.Freelancer))
	assert.NoError(t, err)
}

func TestGetDispute(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)
	d, err := dispute.NewOpenDisputeUseCase(f.Store, f.Publisher).Execute(ctx, openInput(o.ID, f.Client))
	require.NoError(t, err)
	uc := dispute.NewGetDisputeUseCase(f.Store)

	got, err := uc.Execute(ctx, d.ID, f.Admin)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)

	_, err = uc.Execute(ctx, d.ID, valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleFreelancer})
	assert.ErrorIs(t, err, apperror.ErrNotParticipant)
}

type fakeEvidenceStore struct {
	saved   []string
	deleted []string
	failErr error
}

func (s *fakeEvidenceStore) Save(ctx context.Context, disputeID uuid.UUID, name string, r io.Reader) (string, int64, error) {
	if s.failErr != nil {
		return "", 0, s.failErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	ref := disputeID.String() + "/" + time.Now().Format("150405.000000") + "_" + name
	s.saved = append(s.saved, ref)
	return ref, int64(len(data)), nil
}

func (s *fakeEvidenceStore) Delete(ctx context.Context, ref string) error {
	s.deleted = append(s.deleted, ref)
	return nil
}

func TestAttachEvidence(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 100, valueobject.OrderStatusActive)
	d, err := dispute.NewOpenDisputeUseCase(f.Store, f.Publisher).Execute(ctx, openInput(o.ID, f.Client))
	require.NoError(t, err)

	files := &fakeEvidenceStore{}
	uc := dispute.NewAttachEvidenceUseCase(f.Store, files)

	updated, err := uc.Execute(ctx, dispute.AttachEvidenceInput{DisputeID: d.ID, Actor: f.Freelancer, FileName: "chat.png", Content: strings.NewReader("png")})
	require.NoError(t, err)
	require.Len(t, updated.Evidence, 1)
	assert.Equal(t, files.saved[0], updated.Evidence[0])

	_, err = uc.Execute(ctx, dispute.AttachEvidenceInput{DisputeID: d.ID, Actor: valueobject.Actor{UserID: uuid.New()}, FileName: "x.png", Content: strings.NewReader("png")})
	assert.ErrorIs(t, err, apperror.ErrNotParticipant)

	files.failErr = apperror.Validation("неподдерживаемый тип файла")
	_, err = uc.Execute(ctx, dispute.AttachEvidenceInput{DisputeID: d.ID, Actor: f.Client, FileName: "x.exe", Content: strings.NewReader("MZ")})
	assert.True(t, apperror.IsValidation(err))

	files.failErr = errors.New("disk full")
	_, err = uc.Execute(ctx, dispute.AttachEvidenceInput{DisputeID: d.ID, Actor: f.Client, FileName: "x.png", Content: strings.NewReader("png")})
	assert.Equal(t, apperror.ErrCodeDatabaseError, apperror.CodeOf(err))

	files.failErr = nil
	_, err = dispute.NewWithdrawDisputeUseCase(f.Store, f.Publisher).Execute(ctx, d.ID, f.Client)
	require.NoError(t, err)
	_, err = uc.Execute(ctx, dispute.AttachEvidenceInput{DisputeID: d.ID, Actor: f.Client, FileName: "late.png", Content: strings.NewReader("png")})
	assert.ErrorIs(t, err, apperror.ErrDisputeAlreadyResolved)
	assert.Empty(t, files.deleted)
}

func TestWithdrawDispute_PaymentCapturedWhileDisputed(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 100, valueobject.OrderStatusPending)

	d, err := dispute.NewOpenDisputeUseCase(f.Store, f.Publisher).Execute(ctx, openInput(o.ID, f.Client))
	require.NoError(t, err)
	assert.Equal(t, valueobject.OrderStatusPending, d.OrderStatusBefore)

	events := order.NewHandlePaymentEventUseCase(f.Store, f.Publisher)
	captured := payment.WebhookEvent{ID: "evt_disputed", Type: payment.EventPaymentCaptured, OrderID: o.ID}
	res, err := events.Execute(ctx, captured)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, valueobject.OrderStatusDisputed, f.Order(t, o.ID).Status)

	res, err = events.Execute(ctx, captured)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	_, err = dispute.NewWithdrawDisputeUseCase(f.Store, f.Publisher).Execute(ctx, d.ID, f.Client)
	require.NoError(t, err)

	stored := f.Order(t, o.ID)
	assert.Equal(t, valueobject.OrderStatusActive, stored.Status)
	assert.Equal(t, valueobject.EscrowHeld, stored.EscrowStatus)

	n, err := order.NewExpirePendingOrdersUseCase(f.Store, f.Publisher, time.Nanosecond).Execute(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, valueobject.OrderStatusActive, f.Order(t, o.ID).Status)
}
