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

type OpenDisputeInput struct {
	OrderID     uuid.UUID
	Actor       valueobject.Actor
	Reason      string
	Description string
	Evidence    []string
}

// OpenDisputeUseCase - сторона заказа открывает спор. Заказ замораживается,
// средства остаются удержанными до решения администратора.
type OpenDisputeUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewOpenDisputeUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *OpenDisputeUseCase {
	return &OpenDisputeUseCase{uow: uow, publisher: publisher}
}

func (uc *OpenDisputeUseCase) Execute(ctx context.Context, in OpenDisputeInput) (*entity.Dispute, error) {
	var (
		out    outbox.Outbox
		result *entity.Dispute
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, err := order.LockOrder(ctx, repos, in.OrderID)
		if err != nil {
			return err
		}
		if !o.IsParticipant(in.Actor.UserID) {
			return apperror.ErrNotParticipant
		}

		open, err := repos.Disputes.HasOpen(ctx, o.ID)
		if err != nil {
			return apperror.Database(err, "не удалось проверить споры по заказу")
		}
		if open {
			return apperror.ErrAlreadyDisputed
		}

		now := time.Now()
		d, err := entity.NewDispute(o, in.Actor.UserID, in.Reason, in.Description, in.Evidence, now)
		if err != nil {
			return err
		}
		patch, err := o.MarkDisputed(now)
		if err != nil {
			return err
		}

		if err := repos.Disputes.Create(ctx, d); err != nil {
			return apperror.Database(err, "не удалось сохранить спор")
		}
		if err := order.PatchOrder(ctx, repos, o, patch); err != nil {
			return err
		}

		out.Notify(notify.DisputeOpened(o, d)...)
		result = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}
