package bid

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

// ListBidsUseCase - владелец проекта видит все ставки, исполнитель только свою.
type ListBidsUseCase struct {
	repos repository.Repositories
}

func NewListBidsUseCase(uow repository.UnitOfWork) *ListBidsUseCase {
	return &ListBidsUseCase{repos: uow.Repositories()}
}

func (uc *ListBidsUseCase) Execute(ctx context.Context, projectID uuid.UUID, actor valueobject.Actor) ([]*entity.Bid, error) {
	p, err := uc.repos.Projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить проект")
	}

	bids, err := uc.repos.Bids.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить ставки")
	}
	if p.IsOwnedBy(actor.UserID) || actor.IsAdmin() {
		return bids, nil
	}

	own := make([]*entity.Bid, 0, 1)
	for _, b := range bids {
		if b.FreelancerID == actor.UserID {
			own = append(own, b)
		}
	}
	return own, nil
}
