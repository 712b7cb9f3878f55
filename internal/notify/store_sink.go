package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
)

// StoreSink сохраняет уведомления в БД для ленты пользователя.
type StoreSink struct {
	repo repository.NotificationRepository
}

func NewStoreSink(repo repository.NotificationRepository) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Name() string { return "store" }

func (s *StoreSink) Deliver(ctx context.Context, msg Message) error {
	n := &entity.Notification{
		ID:        uuid.New(),
		UserID:    msg.UserID,
		Kind:      string(msg.Kind),
		Title:     msg.Title,
		Body:      msg.Body,
		Link:      msg.Link,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("notify: не удалось сохранить уведомление: %w", err)
	}
	return nil
}
