package order

import (
	"context"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type ListOrdersInput struct {
	Actor  valueobject.Actor
	Status string
	Limit  int
	Offset int
}

// ListOrdersUseCase - заказы, где пользователь клиент или исполнитель.
// Администратор видит все заказы.
type ListOrdersUseCase struct {
	repos repository.Repositories
}

func NewListOrdersUseCase(uow repository.UnitOfWork) *ListOrdersUseCase {
	return &ListOrdersUseCase{repos: uow.Repositories()}
}

func (uc *ListOrdersUseCase) Execute(ctx context.Context, in ListOrdersInput) ([]*entity.Order, int, error) {
	if in.Status != "" {
		if _, err := valueobject.NewOrderStatus(in.Status); err != nil {
			return nil, 0, err
		}
	}

	filter := repository.OrderFilter{
		Status: in.Status,
		Limit:  NormalizeLimit(in.Limit),
		Offset: max(in.Offset, 0),
	}
	if !in.Actor.IsAdmin() {
		filter.ParticipantID = in.Actor.UserID
	}

	orders, total, err := uc.repos.Orders.List(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Database(err, "не удалось получить список заказов")
	}
	return orders, total, nil
}

// NormalizeLimit приводит размер страницы к допустимому диапазону.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}
