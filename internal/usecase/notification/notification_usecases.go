package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
)

type ListNotificationsUseCase struct {
	repo repository.NotificationRepository
}

func NewListNotificationsUseCase(repo repository.NotificationRepository) *ListNotificationsUseCase {
	return &ListNotificationsUseCase{repo: repo}
}

func (uc *ListNotificationsUseCase) Execute(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, int, error) {
	items, total, err := uc.repo.ListByUser(ctx, userID, order.NormalizeLimit(limit), max(offset, 0))
	if err != nil {
		return nil, 0, apperror.Database(err, "не удалось получить уведомления")
	}
	return items, total, nil
}

type MarkNotificationReadUseCase struct {
	repo repository.NotificationRepository
}

func NewMarkNotificationReadUseCase(repo repository.NotificationRepository) *MarkNotificationReadUseCase {
	return &MarkNotificationReadUseCase{repo: repo}
}

func (uc *MarkNotificationReadUseCase) Execute(ctx context.Context, id, userID uuid.UUID) error {
	if err := uc.repo.MarkAsRead(ctx, id, userID); err != nil {
		return apperror.Database(err, "не удалось отметить уведомление")
	}
	return nil
}
