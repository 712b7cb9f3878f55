package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
)

type ListTransactionsInput struct {
	Actor valueobject.Actor
	// FreelancerID чужой журнал доступен только администратору.
	FreelancerID uuid.UUID
	Limit        int
	Offset       int
}

// ListTransactionsUseCase журнал выплат исполнителя.
type ListTransactionsUseCase struct {
	transactions repository.TransactionRepository
}

func NewListTransactionsUseCase(uow repository.UnitOfWork) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{transactions: uow.Repositories().Transactions}
}

func (uc *ListTransactionsUseCase) Execute(ctx context.Context, in ListTransactionsInput) ([]*entity.Transaction, int, error) {
	freelancerID := in.Actor.UserID
	if in.FreelancerID != uuid.Nil && in.FreelancerID != in.Actor.UserID {
		if !in.Actor.IsAdmin() {
			return nil, 0, apperror.ErrForbidden
		}
		freelancerID = in.FreelancerID
	}

	txs, total, err := uc.transactions.ListByFreelancer(ctx, freelancerID, order.NormalizeLimit(in.Limit), max(in.Offset, 0))
	if err != nil {
		return nil, 0, apperror.Database(err, "не удалось получить журнал выплат")
	}
	return txs, total, nil
}
