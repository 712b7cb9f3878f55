package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	Patch(ctx context.Context, id uuid.UUID, patch entity.ProjectPatch) error
	IncrementBidCount(ctx context.Context, id uuid.UUID) error
}
