package dispute

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

type GetDisputeUseCase struct {
	repos repository.Repositories
}

func NewGetDisputeUseCase(uow repository.UnitOfWork) *GetDisputeUseCase {
	return &GetDisputeUseCase{repos: uow.Repositories()}
}

func (uc *GetDisputeUseCase) Execute(ctx context.Context, disputeID uuid.UUID, actor valueobject.Actor) (*entity.Dispute, error) {
	d, err := uc.repos.Disputes.FindByID(ctx, disputeID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить спор")
	}
	o, err := uc.repos.Orders.FindByID(ctx, d.OrderID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить заказ")
	}
	if !o.CanView(actor) {
		return nil, apperror.ErrNotParticipant
	}
	return d, nil
}
