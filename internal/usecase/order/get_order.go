package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

// OrderDetails заказ вместе с этапами, выплатами и спорами.
type OrderDetails struct {
	Order        *entity.Order
	Milestones   []*entity.Milestone
	Transactions []*entity.Transaction
	Disputes     []*entity.Dispute
}

type GetOrderUseCase struct {
	repos repository.Repositories
}

func NewGetOrderUseCase(uow repository.UnitOfWork) *GetOrderUseCase {
	return &GetOrderUseCase{repos: uow.Repositories()}
}

func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID uuid.UUID, actor valueobject.Actor) (*OrderDetails, error) {
	o, err := uc.repos.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить заказ")
	}
	if !o.CanView(actor) {
		return nil, apperror.ErrNotParticipant
	}

	milestones, err := uc.repos.Milestones.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить этапы заказа")
	}
	txs, err := uc.repos.Transactions.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить выплаты по заказу")
	}
	disputes, err := uc.repos.Disputes.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить споры по заказу")
	}

	return &OrderDetails{
		Order:        o,
		Milestones:   milestones,
		Transactions: txs,
		Disputes:     disputes,
	}, nil
}
