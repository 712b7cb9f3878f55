package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
)

type DisputeRepository interface {
	// Create возвращает apperror.ErrAlreadyDisputed, если по заказу уже есть открытый спор.
	Create(ctx context.Context, dispute *entity.Dispute) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Dispute, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Dispute, error)
	HasOpen(ctx context.Context, orderID uuid.UUID) (bool, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Dispute, error)
	Patch(ctx context.Context, id uuid.UUID, patch entity.DisputePatch) error
	AppendEvidence(ctx context.Context, id uuid.UUID, ref string) error
}
