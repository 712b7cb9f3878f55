package milestone

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

type CreateMilestonesInput struct {
	OrderID uuid.UUID
	Actor   valueobject.Actor
	Items   []entity.MilestoneDraft
}

// CreateMilestonesUseCase - клиент разбивает заказ на этапы. План задаётся один раз.
type CreateMilestonesUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewCreateMilestonesUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *CreateMilestonesUseCase {
	return &CreateMilestonesUseCase{uow: uow, publisher: publisher}
}

func (uc *CreateMilestonesUseCase) Execute(ctx context.Context, in CreateMilestonesInput) ([]*entity.Milestone, error) {
	var (
		out    outbox.Outbox
		result []*entity.Milestone
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, err := order.LockOrder(ctx, repos, in.OrderID)
		if err != nil {
			return err
		}
		if !o.IsClient(in.Actor.UserID) {
			return apperror.ErrForbidden
		}

		count, err := repos.Milestones.CountByOrder(ctx, o.ID)
		if err != nil {
			return apperror.Database(err, "не удалось проверить этапы заказа")
		}
		if count > 0 {
			return apperror.ErrMilestonesExist
		}
		if o.Status != valueobject.OrderStatusPending && o.Status != valueobject.OrderStatusActive {
			return apperror.ErrInvalidOrderState
		}

		milestones, err := entity.NewMilestones(o, in.Items, time.Now())
		if err != nil {
			return err
		}
		if err := repos.Milestones.CreateBatch(ctx, milestones); err != nil {
			return apperror.Database(err, "не удалось сохранить этапы")
		}

		out.Notify(notify.MilestonesCreated(o, len(milestones)))
		result = milestones
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}
