package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
)

// OrderRepository хранилище заказов.
// Find* возвращают apperror.ErrOrderNotFound, если заказа нет.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetForUpdate читает заказ с блокировкой строки до конца транзакции.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Patch(ctx context.Context, id uuid.UUID, patch entity.OrderPatch) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, int, error)
	// ListStale заказы в статусе status, созданные раньше before.
	ListStale(ctx context.Context, status valueobject.OrderStatus, before time.Time, limit int) ([]*entity.Order, error)
}

type OrderFilter struct {
	ParticipantID uuid.UUID
	Status        string
	Limit         int
	Offset        int
}
