package bid

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
	"github.com/ignatzorin/freelance-orders/internal/usecase/outbox"
)

type SelectWinnerInput struct {
	ProjectID uuid.UUID
	BidID     uuid.UUID
	Actor     valueobject.Actor
}

type SelectWinnerResult struct {
	Project *entity.Project
	Bid     *entity.Bid
	Order   *entity.Order
}

// SelectWinnerUseCase - клиент выбирает ставку. Выбор, отклонение остальных ставок,
// перевод проекта в работу и создание заказа выполняются одной транзакцией.
type SelectWinnerUseCase struct {
	uow       repository.UnitOfWork
	factory   *order.Factory
	publisher *outbox.Publisher
}

func NewSelectWinnerUseCase(uow repository.UnitOfWork, factory *order.Factory, publisher *outbox.Publisher) *SelectWinnerUseCase {
	return &SelectWinnerUseCase{uow: uow, factory: factory, publisher: publisher}
}

func (uc *SelectWinnerUseCase) Execute(ctx context.Context, in SelectWinnerInput) (*SelectWinnerResult, error) {
	var (
		out    outbox.Outbox
		result *SelectWinnerResult
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		p, err := repos.Projects.GetForUpdate(ctx, in.ProjectID)
		if err != nil {
			return apperror.Database(err, "не удалось получить проект")
		}
		if !p.IsOwnedBy(in.Actor.UserID) {
			return apperror.ErrForbidden
		}

		b, err := repos.Bids.GetForUpdate(ctx, in.BidID)
		if err != nil {
			return apperror.Database(err, "не удалось получить ставку")
		}
		if b.ProjectID != p.ID {
			return apperror.ErrBidNotFound
		}
		if !p.IsOpen() {
			return apperror.ErrProjectNotOpen
		}

		now := time.Now()
		if err := b.Accept(now); err != nil {
			return err
		}
		if err := repos.Bids.UpdateStatus(ctx, b.ID, b.Status); err != nil {
			return apperror.Database(err, "не удалось обновить ставку")
		}

		rejected, err := repos.Bids.RejectPending(ctx, p.ID, b.ID)
		if err != nil {
			return apperror.Database(err, "не удалось отклонить остальные ставки")
		}

		patch, err := p.SelectFreelancer(b.FreelancerID, now)
		if err != nil {
			return err
		}
		if err := repos.Projects.Patch(ctx, p.ID, patch); err != nil {
			return apperror.Database(err, "не удалось обновить проект")
		}

		o, err := uc.factory.Create(ctx, repos.Orders, entity.OrderDraft{
			ClientID:     p.ClientID,
			FreelancerID: b.FreelancerID,
			ProjectID:    &p.ID,
			BidID:        &b.ID,
			Title:        p.Title,
			Amount:       b.Amount,
			Currency:     b.Currency,
			DeliveryDays: b.DeliveryDays,
		})
		if err != nil {
			return err
		}

		out.Notify(notify.BidAccepted(p, o))
		for _, r := range rejected {
			out.Notify(notify.BidRejected(p, r))
		}
		out.Notify(notify.OnlyFor(p.ClientID, notify.OrderCreated(o))...)

		result = &SelectWinnerResult{Project: p, Bid: b, Order: o}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}
