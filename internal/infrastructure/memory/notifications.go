package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

// NotificationStore хранилище уведомлений в памяти.
type NotificationStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]entity.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{items: make(map[uuid.UUID]entity.Notification)}
}

func (s *NotificationStore) Create(ctx context.Context, n *entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[n.ID] = *n
	return nil
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Notification, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []*entity.Notification
	for _, n := range s.items {
		if n.UserID == userID {
			n := n
			all = append(all, &n)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, limit, offset), len(all), nil
}

func (s *NotificationStore) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok || n.UserID != userID {
		return apperror.ErrNotificationNotFound
	}
	n.IsRead = true
	s.items[id] = n
	return nil
}
