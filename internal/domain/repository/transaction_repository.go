package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
)

// TransactionRepository журнал выплат: только вставка и чтение.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Transaction, error)
	ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]*entity.Transaction, int, error)
}
