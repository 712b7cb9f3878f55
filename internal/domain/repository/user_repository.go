package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// RecordCompletedOrder увеличивает total_orders на единицу и total_earnings на earnings.
	RecordCompletedOrder(ctx context.Context, id uuid.UUID, earnings float64) error
}
