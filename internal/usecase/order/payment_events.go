package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/logger"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/payment"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/outbox"
)

// PaymentEventResult Applied=false, если событие уже было учтено ранее.
type PaymentEventResult struct {
	Order   *entity.Order
	Applied bool
}

// HandlePaymentEventUseCase применяет результат оплаты к заказу в pending.
// Провайдер может повторять доставку события, поэтому повтор не считается ошибкой.
type HandlePaymentEventUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewHandlePaymentEventUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *HandlePaymentEventUseCase {
	return &HandlePaymentEventUseCase{uow: uow, publisher: publisher}
}

func (uc *HandlePaymentEventUseCase) Execute(ctx context.Context, event payment.WebhookEvent) (*PaymentEventResult, error) {
	if event.Type != payment.EventPaymentCaptured && event.Type != payment.EventPaymentFailed {
		return nil, apperror.Validation("неизвестный тип платёжного события")
	}

	var (
		out    outbox.Outbox
		result = &PaymentEventResult{}
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, err := LockOrder(ctx, repos, event.OrderID)
		if err != nil {
			return err
		}
		result.Order = o

		switch event.Type {
		case payment.EventPaymentCaptured:
			if o.Status == valueobject.OrderStatusDisputed {
				applied, err := captureDuringDispute(ctx, repos, o.ID)
				if err != nil {
					return err
				}
				result.Applied = applied
				return nil
			}
			if o.Status != valueobject.OrderStatusPending {
				if o.Status == valueobject.OrderStatusCancelled {
					return apperror.ErrInvalidOrderState
				}
				return nil
			}
			patch, err := o.Activate(time.Now())
			if err != nil {
				return err
			}
			if err := PatchOrder(ctx, repos, o, patch); err != nil {
				return err
			}
			out.Notify(notify.OrderActivated(o)...)

		case payment.EventPaymentFailed:
			if o.Status == valueobject.OrderStatusCancelled {
				return nil
			}
			reason := event.Reason
			if reason == "" {
				reason = "оплата не прошла"
			}
			if err := CancelPending(ctx, repos, o, reason, &out); err != nil {
				return err
			}
		}

		result.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithComponent("payments").WithFields(logrus.Fields{
		"event_id": event.ID,
		"type":     event.Type,
		"order_id": event.OrderID,
		"applied":  result.Applied,
	}).Info("платёжное событие обработано")

	uc.publisher.Publish(ctx, &out)
	return result, nil
}

// captureDuringDispute запоминает оплату в открытом споре, чтобы после его отзыва
// заказ вернулся в active, а не в pending под отмену по сроку.
func captureDuringDispute(ctx context.Context, repos repository.Repositories, orderID uuid.UUID) (bool, error) {
	disputes, err := repos.Disputes.ListByOrder(ctx, orderID)
	if err != nil {
		return false, apperror.Database(err, "не удалось получить споры по заказу")
	}
	for _, d := range disputes {
		if !d.IsOpen() {
			continue
		}
		locked, err := repos.Disputes.GetForUpdate(ctx, d.ID)
		if err != nil {
			return false, apperror.Database(err, "не удалось получить спор")
		}
		patch, ok := locked.RecordPaymentCaptured(time.Now())
		if !ok {
			return false, nil
		}
		if err := repos.Disputes.Patch(ctx, locked.ID, patch); err != nil {
			return false, apperror.Database(err, "не удалось обновить спор")
		}
		return true, nil
	}
	return false, nil
}

// CancelPending отменяет неоплаченный заказ и закрывает связанный проект.
func CancelPending(ctx context.Context, repos repository.Repositories, o *entity.Order, reason string, out *outbox.Outbox) error {
	now := time.Now()
	patch, err := o.Cancel(now)
	if err != nil {
		return err
	}
	if err := PatchOrder(ctx, repos, o, patch); err != nil {
		return err
	}
	if err := SyncProject(ctx, repos, o, now); err != nil {
		return err
	}
	out.Notify(notify.OrderCancelled(o, reason)...)
	return nil
}
