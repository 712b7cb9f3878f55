package order

import (
	"context"
	"time"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

// Factory единственное место, где считаются комиссия и доход исполнителя.
// Дальше эти суммы только читаются.
type Factory struct {
	platform valueobject.Platform
}

func NewFactory(platform valueobject.Platform) *Factory {
	return &Factory{platform: platform}
}

func (f *Factory) Platform() valueobject.Platform {
	return f.platform
}

// Create вставляет заказ через переданный репозиторий, то есть в транзакции вызывающего.
// Начальный статус задаёт platform.Capture: при CaptureDeferred заказ ждёт
// подтверждения оплаты в pending, при CaptureImmediate сразу становится active.
func (f *Factory) Create(ctx context.Context, orders repository.OrderRepository, draft entity.OrderDraft) (*entity.Order, error) {
	o, err := entity.NewOrder(draft, f.platform, time.Now())
	if err != nil {
		return nil, err
	}
	if err := orders.Create(ctx, o); err != nil {
		return nil, apperror.Database(err, "не удалось создать заказ")
	}
	return o, nil
}
