package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
)

type BidRepository interface {
	// Create возвращает apperror.ErrDuplicateBid, если ставка этого исполнителя на проект уже есть.
	Create(ctx context.Context, bid *entity.Bid) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bid, error)
	ExistsForFreelancer(ctx context.Context, projectID, freelancerID uuid.UUID) (bool, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*entity.Bid, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.BidStatus) error
	// RejectPending отклоняет все ожидающие ставки проекта, кроме exceptID, и возвращает их.
	RejectPending(ctx context.Context, projectID, exceptID uuid.UUID) ([]*entity.Bid, error)
}
