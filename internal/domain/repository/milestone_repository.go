package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
)

type MilestoneRepository interface {
	CreateBatch(ctx context.Context, milestones []*entity.Milestone) error
	// ListByOrder возвращает этапы заказа по возрастанию sort_order.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Milestone, error)
	// ListByOrderForUpdate то же, с блокировкой строк этапов.
	ListByOrderForUpdate(ctx context.Context, orderID uuid.UUID) ([]*entity.Milestone, error)
	CountByOrder(ctx context.Context, orderID uuid.UUID) (int, error)
	Patch(ctx context.Context, id uuid.UUID, patch entity.MilestonePatch) error
}
