package bid_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/bid"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
	"github.com/ignatzorin/freelance-orders/internal/usecase/usecasetest"
)

const pitch = "Сделаю аккуратно и в срок, опыт 5 лет"

func placeInput(projectID uuid.UUID, actor valueobject.Actor) bid.PlaceBidInput {
	return bid.PlaceBidInput{
		ProjectID:    projectID,
		Actor:        actor,
		Amount:       500,
		Currency:     "EUR",
		DeliveryDays: 7,
		Pitch:        pitch,
	}
}

func TestPlaceBid(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	p := f.SeedProject(t)
	uc := bid.NewPlaceBidUseCase(f.Store, f.Publisher)

	b, err := uc.Execute(ctx, placeInput(p.ID, f.Freelancer))
	require.NoError(t, err)
	assert.Equal(t, valueobject.BidStatusPending, b.Status)
	assert.Equal(t, 1, f.Project(t, p.ID).BidCount)
	assert.Equal(t, []notify.Kind{notify.KindBidPlaced}, f.Recorder.Kinds(f.Client.UserID))

	t.Run("duplicate", func(t *testing.T) {
		_, err := uc.Execute(ctx, placeInput(p.ID, f.Freelancer))
		assert.ErrorIs(t, err, apperror.ErrDuplicateBid)
		assert.Equal(t, 1, f.Project(t, p.ID).BidCount)
	})

	t.Run("client cannot bid", func(t *testing.T) {
		_, err := uc.Execute(ctx, placeInput(p.ID, f.Client))
		assert.True(t, apperror.IsForbidden(err))
	})

	t.Run("self bid", func(t *testing.T) {
		owner := valueobject.Actor{UserID: f.Client.UserID, Role: valueobject.RoleFreelancer}
		_, err := uc.Execute(ctx, placeInput(p.ID, owner))
		assert.ErrorIs(t, err, apperror.ErrSelfBid)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := uc.Execute(ctx, placeInput(uuid.New(), f.Freelancer))
		assert.ErrorIs(t, err, apperror.ErrProjectNotFound)
	})
}

func TestPlaceBid_PitchBoundary(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	p := f.SeedProject(t)
	uc := bid.NewPlaceBidUseCase(f.Store, f.Publisher)

	in := placeInput(p.ID, f.Freelancer)
	in.Pitch = strings.Repeat("я", entity.MinPitchLength-1)
	_, err := uc.Execute(ctx, in)
	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, f.Project(t, p.ID).BidCount)

	in.Pitch = strings.Repeat("я", entity.MinPitchLength)
	_, err = uc.Execute(ctx, in)
	assert.NoError(t, err)
}

func TestPlaceBid_InvalidTerms(t *testing.T) {
	f := usecasetest.New(t)
	p := f.SeedProject(t)
	uc := bid.NewPlaceBidUseCase(f.Store, f.Publisher)

	in := placeInput(p.ID, f.Freelancer)
	in.Amount = 0
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, apperror.IsValidation(err))

	in = placeInput(p.ID, f.Freelancer)
	in.DeliveryDays = 0
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, apperror.IsValidation(err))
}

func TestSelectWinner_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	p := f.SeedProject(t)
	place := bid.NewPlaceBidUseCase(f.Store, f.Publisher)

	winning, err := place.Execute(ctx, placeInput(p.ID, f.Freelancer))
	require.NoError(t, err)

	other := valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleFreelancer}
	losing, err := place.Execute(ctx, placeInput(p.ID, other))
	require.NoError(t, err)

	uc := bid.NewSelectWinnerUseCase(f.Store, order.NewFactory(f.Platform), f.Publisher)

	_, err = uc.Execute(ctx, bid.SelectWinnerInput{ProjectID: p.ID, BidID: winning.ID, Actor: f.Freelancer})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	res, err := uc.Execute(ctx, bid.SelectWinnerInput{ProjectID: p.ID, BidID: winning.ID, Actor: f.Client})
	require.NoError(t, err)

	project := f.Project(t, p.ID)
	assert.Equal(t, valueobject.ProjectStatusInProgress, project.Status)
	require.NotNil(t, project.SelectedFreelancerID)
	assert.Equal(t, f.Freelancer.UserID, *project.SelectedFreelancerID)

	assert.Equal(t, valueobject.BidStatusAccepted, res.Bid.Status)
	stored, err := f.Store.Repositories().Bids.FindByID(ctx, losing.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.BidStatusRejected, stored.Status)

	o := f.Order(t, res.Order.ID)
	assert.InDelta(t, 500.0, o.Amount, 0.001)
	assert.Equal(t, "EUR", o.Currency)
	assert.InDelta(t, 60.0, o.PlatformFee, 0.001)
	assert.InDelta(t, 440.0, o.FreelancerEarnings, 0.001)
	assert.Equal(t, 7, o.DeliveryDays)
	assert.Equal(t, valueobject.OrderStatusPending, o.Status)
	require.NotNil(t, o.BidID)
	assert.Equal(t, winning.ID, *o.BidID)

	assert.Contains(t, f.Recorder.Kinds(f.Freelancer.UserID), notify.KindBidAccepted)
	assert.Contains(t, f.Recorder.Kinds(other.UserID), notify.KindBidRejected)
	assert.Contains(t, f.Recorder.Kinds(f.Client.UserID), notify.KindOrderCreated)

	t.Run("second selection is rejected", func(t *testing.T) {
		_, err := uc.Execute(ctx, bid.SelectWinnerInput{ProjectID: p.ID, BidID: losing.ID, Actor: f.Client})
		assert.ErrorIs(t, err, apperror.ErrProjectNotOpen)

		orders, total, err := order.NewListOrdersUseCase(f.Store).Execute(ctx, order.ListOrdersInput{Actor: f.Client})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, orders, 1)
	})
}

func TestSelectWinner_BidFromAnotherProject(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	p1 := f.SeedProject(t)
	p2 := f.SeedProject(t)

	b, err := bid.NewPlaceBidUseCase(f.Store, f.Publisher).Execute(ctx, placeInput(p2.ID, f.Freelancer))
	require.NoError(t, err)

	uc := bid.NewSelectWinnerUseCase(f.Store, order.NewFactory(f.Platform), f.Publisher)
	_, err = uc.Execute(ctx, bid.SelectWinnerInput{ProjectID: p1.ID, BidID: b.ID, Actor: f.Client})
	assert.ErrorIs(t, err, apperror.ErrBidNotFound)
	assert.Equal(t, valueobject.ProjectStatusOpen, f.Project(t, p1.ID).Status)
}

func TestSelectWinner_FrozenEarnings(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	p := f.SeedProject(t)
	b, err := bid.NewPlaceBidUseCase(f.Store, f.Publisher).Execute(ctx, placeInput(p.ID, f.Freelancer))
	require.NoError(t, err)

	res, err := bid.NewSelectWinnerUseCase(f.Store, order.NewFactory(f.Platform), f.Publisher).
		Execute(ctx, bid.SelectWinnerInput{ProjectID: p.ID, BidID: b.ID, Actor: f.Client})
	require.NoError(t, err)

	changed := f.Platform
	changed.Fees.MidRate = 0.5
	fresh, err := order.NewFactory(changed).Create(ctx, f.Store.Repositories().Orders, entity.OrderDraft{
		ClientID:     f.Client.UserID,
		FreelancerID: f.Freelancer.UserID,
		Title:        "Ещё один заказ",
		Amount:       500,
		Currency:     "EUR",
		DeliveryDays: 7,
	})
	require.NoError(t, err)

	assert.InDelta(t, 250.0, fresh.FreelancerEarnings, 0.001)
	assert.InDelta(t, 440.0, f.Order(t, res.Order.ID).FreelancerEarnings, 0.001)
}

func TestListBids(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	p := f.SeedProject(t)
	place := bid.NewPlaceBidUseCase(f.Store, f.Publisher)
	_, err := place.Execute(ctx, placeInput(p.ID, f.Freelancer))
	require.NoError(t, err)
	other := valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleFreelancer}
	_, err = place.Execute(ctx, placeInput(p.ID, other))
	require.NoError(t, err)

	uc := bid.NewListBidsUseCase(f.Store)

	all, err := uc.Execute(ctx, p.ID, f.Client)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := uc.Execute(ctx, p.ID, f.Freelancer)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f.Freelancer.UserID, own[0].FreelancerID)
}
