package order

import (
	"context"
	"time"

	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/logger"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/outbox"
)

const expireBatchSize = 100

// ExpirePendingOrdersUseCase отменяет заказы, оплата которых не подтвердилась за ttl.
type ExpirePendingOrdersUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
	ttl       time.Duration
}

func NewExpirePendingOrdersUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher, ttl time.Duration) *ExpirePendingOrdersUseCase {
	return &ExpirePendingOrdersUseCase{uow: uow, publisher: publisher, ttl: ttl}
}

// Execute возвращает число отменённых заказов. Каждый заказ отменяется в своей транзакции.
func (uc *ExpirePendingOrdersUseCase) Execute(ctx context.Context, now time.Time) (int, error) {
	log := logger.WithComponent("expire-pending")

	stale, err := uc.uow.Repositories().Orders.ListStale(ctx, valueobject.OrderStatusPending, now.Add(-uc.ttl), expireBatchSize)
	if err != nil {
		return 0, apperror.Database(err, "не удалось получить неоплаченные заказы")
	}

	expired := 0
	for _, candidate := range stale {
		if err := ctx.Err(); err != nil {
			return expired, err
		}

		var out outbox.Outbox
		err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
			o, err := LockOrder(ctx, repos, candidate.ID)
			if err != nil {
				return err
			}
			// Оплата могла прийти между выборкой и блокировкой.
			if o.Status != valueobject.OrderStatusPending {
				return nil
			}
			return CancelPending(ctx, repos, o, "истёк срок ожидания оплаты", &out)
		})
		if err != nil {
			log.WithError(err).WithField("order_id", candidate.ID).Error("не удалось отменить неоплаченный заказ")
			continue
		}
		if len(out.Messages()) > 0 {
			expired++
		}
		uc.publisher.Publish(ctx, &out)
	}

	if expired > 0 {
		log.WithField("count", expired).Info("неоплаченные заказы отменены")
	}
	return expired, nil
}
