package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/outbox"
)

// ActionInput действие участника над заказом.
type ActionInput struct {
	OrderID uuid.UUID
	Actor   valueobject.Actor
}

// LockOrder читает заказ с блокировкой в рамках текущей транзакции.
func LockOrder(ctx context.Context, repos repository.Repositories, id uuid.UUID) (*entity.Order, error) {
	o, err := repos.Orders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить заказ")
	}
	return o, nil
}

// PatchOrder сохраняет изменения заказа, сделанные доменным переходом.
func PatchOrder(ctx context.Context, repos repository.Repositories, o *entity.Order, patch entity.OrderPatch) error {
	if err := repos.Orders.Patch(ctx, o.ID, patch); err != nil {
		return apperror.Database(err, "не удалось обновить заказ")
	}
	return nil
}

// DeliverOrderUseCase - исполнитель сдаёт работу по заказу без этапов.
type DeliverOrderUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewDeliverOrderUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *DeliverOrderUseCase {
	return &DeliverOrderUseCase{uow: uow, publisher: publisher}
}

func (uc *DeliverOrderUseCase) Execute(ctx context.Context, in ActionInput) (*entity.Order, error) {
	var (
		out    outbox.Outbox
		result *entity.Order
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, err := LockOrder(ctx, repos, in.OrderID)
		if err != nil {
			return err
		}
		if !o.IsFreelancer(in.Actor.UserID) {
			return apperror.ErrForbidden
		}

		count, err := repos.Milestones.CountByOrder(ctx, o.ID)
		if err != nil {
			return apperror.Database(err, "не удалось проверить этапы заказа")
		}
		if count > 0 {
			return apperror.ErrOrderHasMilestones
		}

		patch, err := o.Deliver(time.Now())
		if err != nil {
			return err
		}
		if err := PatchOrder(ctx, repos, o, patch); err != nil {
			return err
		}

		out.Notify(notify.OrderDelivered(o))
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}

// RequestRevisionUseCase - клиент возвращает сданную работу на доработку.
type RequestRevisionUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewRequestRevisionUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *RequestRevisionUseCase {
	return &RequestRevisionUseCase{uow: uow, publisher: publisher}
}

func (uc *RequestRevisionUseCase) Execute(ctx context.Context, in ActionInput) (*entity.Order, error) {
	var (
		out    outbox.Outbox
		result *entity.Order
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, err := LockOrder(ctx, repos, in.OrderID)
		if err != nil {
			return err
		}
		if !o.IsClient(in.Actor.UserID) {
			return apperror.ErrForbidden
		}

		patch, err := o.RequestRevision(time.Now())
		if err != nil {
			return err
		}
		if err := PatchOrder(ctx, repos, o, patch); err != nil {
			return err
		}

		out.Notify(notify.RevisionRequested(o))
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}

// ApproveDeliveryUseCase - клиент принимает работу: заказ завершается,
// средства освобождаются, исполнителю уходит выплата.
type ApproveDeliveryUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewApproveDeliveryUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *ApproveDeliveryUseCase {
	return &ApproveDeliveryUseCase{uow: uow, publisher: publisher}
}

func (uc *ApproveDeliveryUseCase) Execute(ctx context.Context, in ActionInput) (*entity.Order, error) {
	var (
		out    outbox.Outbox
		result *entity.Order
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, err := LockOrder(ctx, repos, in.OrderID)
		if err != nil {
			return err
		}
		if !o.IsClient(in.Actor.UserID) {
			return apperror.ErrForbidden
		}

		now := time.Now()
		patch, err := o.ApproveDelivery(now)
		if err != nil {
			return err
		}
		if err := PatchOrder(ctx, repos, o, patch); err != nil {
			return err
		}

		payout, err := AppendPayout(ctx, repos, entity.NewOrderPayout(o, now))
		if err != nil {
			return err
		}
		if err := RecordFreelancerStats(ctx, repos, o); err != nil {
			return err
		}
		if err := SyncProject(ctx, repos, o, now); err != nil {
			return err
		}

		out.Payout(payout)
		out.Notify(notify.OrderCompleted(o)...)
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}
