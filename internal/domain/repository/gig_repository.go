package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
)

type GigRepository interface {
	Create(ctx context.Context, gig *entity.Gig) error
	// FindByID возвращает услугу вместе с пакетами.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error)
}
