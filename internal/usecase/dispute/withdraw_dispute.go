package dispute

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
	"github.com/ignatzorin/freelance-orders/internal/usecase/outbox"
)

// WithdrawDisputeUseCase - инициатор отзывает спор, заказ возвращается в прежний статус.
type WithdrawDisputeUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewWithdrawDisputeUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *WithdrawDisputeUseCase {
	return &WithdrawDisputeUseCase{uow: uow, publisher: publisher}
}

func (uc *WithdrawDisputeUseCase) Execute(ctx context.Context, disputeID uuid.UUID, actor valueobject.Actor) (*entity.Dispute, error) {
	var (
		out    outbox.Outbox
		result *entity.Dispute
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, d, err := lockDispute(ctx, repos, disputeID)
		if err != nil {
			return err
		}
		if !o.IsParticipant(actor.UserID) {
			return apperror.ErrNotParticipant
		}

		now := time.Now()
		dpatch, err := d.Withdraw(actor.UserID, now)
		if err != nil {
			return err
		}
		opatch, err := o.RestoreAfterWithdrawal(d.OrderStatusBefore, now)
		if err != nil {
			return err
		}
		if err := repos.Disputes.Patch(ctx, d.ID, dpatch); err != nil {
			return apperror.Database(err, "не удалось обновить спор")
		}
		if err := order.PatchOrder(ctx, repos, o, opatch); err != nil {
			return err
		}

		out.Notify(notify.DisputeWithdrawn(o, d)...)
		result = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}
