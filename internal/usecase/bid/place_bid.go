package bid

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/outbox"
)

type PlaceBidInput struct {
	ProjectID    uuid.UUID
	Actor        valueobject.Actor
	Amount       float64
	Currency     string
	DeliveryDays int
	Pitch        string
}

// PlaceBidUseCase - исполнитель делает ставку на открытый проект.
type PlaceBidUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewPlaceBidUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *PlaceBidUseCase {
	return &PlaceBidUseCase{uow: uow, publisher: publisher}
}

func (uc *PlaceBidUseCase) Execute(ctx context.Context, in PlaceBidInput) (*entity.Bid, error) {
	if in.Actor.Role != valueobject.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeForbidden, "делать ставки могут только исполнители")
	}

	b, err := entity.NewBid(in.ProjectID, in.Actor.UserID, in.Amount, in.Currency, in.DeliveryDays, in.Pitch)
	if err != nil {
		return nil, err
	}

	var out outbox.Outbox
	err = uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		p, err := repos.Projects.GetForUpdate(ctx, in.ProjectID)
		if err != nil {
			return apperror.Database(err, "не удалось получить проект")
		}
		if !p.IsOpen() {
			return apperror.ErrProjectNotOpen
		}
		if p.IsOwnedBy(in.Actor.UserID) {
			return apperror.ErrSelfBid
		}

		exists, err := repos.Bids.ExistsForFreelancer(ctx, p.ID, in.Actor.UserID)
		if err != nil {
			return apperror.Database(err, "не удалось проверить ставки")
		}
		if exists {
			return apperror.ErrDuplicateBid
		}

		if err := repos.Bids.Create(ctx, b); err != nil {
			return apperror.Database(err, "не удалось сохранить ставку")
		}
		if err := repos.Projects.IncrementBidCount(ctx, p.ID); err != nil {
			return apperror.Database(err, "не удалось обновить проект")
		}

		out.Notify(notify.BidPlaced(p, b))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return b, nil
}
