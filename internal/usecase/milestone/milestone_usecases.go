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

type MilestoneInput struct {
	OrderID     uuid.UUID
	MilestoneID uuid.UUID
	Actor       valueobject.Actor
}

// lockPlan блокирует заказ и его этапы. Работа по этапам идёт только в активном заказе:
// открытый спор замораживает план.
func lockPlan(ctx context.Context, repos repository.Repositories, in MilestoneInput, allowed func(*entity.Order) bool) (*entity.Order, []*entity.Milestone, *entity.Milestone, error) {
	o, err := order.LockOrder(ctx, repos, in.OrderID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !allowed(o) {
		return nil, nil, nil, apperror.ErrForbidden
	}
	if o.Status != valueobject.OrderStatusActive {
		return nil, nil, nil, apperror.ErrInvalidOrderState
	}

	milestones, err := repos.Milestones.ListByOrderForUpdate(ctx, o.ID)
	if err != nil {
		return nil, nil, nil, apperror.Database(err, "не удалось получить этапы заказа")
	}
	for _, m := range milestones {
		if m.ID == in.MilestoneID {
			return o, milestones, m, nil
		}
	}
	return nil, nil, nil, apperror.ErrMilestoneNotFound
}

func patchMilestone(ctx context.Context, repos repository.Repositories, m *entity.Milestone, patch entity.MilestonePatch) error {
	if err := repos.Milestones.Patch(ctx, m.ID, patch); err != nil {
		return apperror.Database(err, "не удалось обновить этап")
	}
	return nil
}

// DeliverMilestoneUseCase - исполнитель сдаёт активный этап.
type DeliverMilestoneUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewDeliverMilestoneUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *DeliverMilestoneUseCase {
	return &DeliverMilestoneUseCase{uow: uow, publisher: publisher}
}

func (uc *DeliverMilestoneUseCase) Execute(ctx context.Context, in MilestoneInput) (*entity.Milestone, error) {
	var (
		out    outbox.Outbox
		result *entity.Milestone
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, _, m, err := lockPlan(ctx, repos, in, func(o *entity.Order) bool { return o.IsFreelancer(in.Actor.UserID) })
		if err != nil {
			return err
		}

		patch, err := m.Deliver(time.Now())
		if err != nil {
			return err
		}
		if err := patchMilestone(ctx, repos, m, patch); err != nil {
			return err
		}

		out.Notify(notify.MilestoneDelivered(o, m))
		result = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}

type ApproveMilestoneResult struct {
	Order     *entity.Order
	Milestone *entity.Milestone
	// Next этап, переведённый в работу, nil если этапов не осталось.
	Next        *entity.Milestone
	Transaction *entity.Transaction
	// OrderCompleted заказ завершён этим принятием.
	OrderCompleted bool
}

// ApproveMilestoneUseCase - клиент принимает сданный этап. По этапу начисляется
// отдельная выплата с собственной комиссией. Принятие последнего этапа завершает заказ.
type ApproveMilestoneUseCase struct {
	uow       repository.UnitOfWork
	platform  valueobject.Platform
	publisher *outbox.Publisher
}

func NewApproveMilestoneUseCase(uow repository.UnitOfWork, platform valueobject.Platform, publisher *outbox.Publisher) *ApproveMilestoneUseCase {
	return &ApproveMilestoneUseCase{uow: uow, platform: platform, publisher: publisher}
}

func (uc *ApproveMilestoneUseCase) Execute(ctx context.Context, in MilestoneInput) (*ApproveMilestoneResult, error) {
	var (
		out    outbox.Outbox
		result *ApproveMilestoneResult
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, milestones, m, err := lockPlan(ctx, repos, in, func(o *entity.Order) bool { return o.IsClient(in.Actor.UserID) })
		if err != nil {
			return err
		}

		now := time.Now()
		patch, err := m.Approve(now)
		if err != nil {
			return err
		}
		if err := patchMilestone(ctx, repos, m, patch); err != nil {
			return err
		}

		tx := entity.NewMilestonePayout(o, m, uc.platform.Fees, now)
		payout, err := order.AppendPayout(ctx, repos, tx)
		if err != nil {
			return err
		}
		out.Payout(payout)

		res := &ApproveMilestoneResult{Order: o, Milestone: m, Transaction: tx}
		if next := entity.NextPending(milestones); next != nil {
			patch, err := next.Activate(now)
			if err != nil {
				return err
			}
			if err := patchMilestone(ctx, repos, next, patch); err != nil {
				return err
			}
			res.Next = next
		}

		if entity.AllApproved(milestones) {
			patch, err := o.CompleteByMilestones(now)
			if err != nil {
				return err
			}
			if err := order.PatchOrder(ctx, repos, o, patch); err != nil {
				return err
			}
			if err := order.RecordFreelancerStats(ctx, repos, o); err != nil {
				return err
			}
			if err := order.SyncProject(ctx, repos, o, now); err != nil {
				return err
			}
			res.OrderCompleted = true
		}

		out.Notify(notify.MilestoneApproved(o, m, tx.NetAmount, res.OrderCompleted)...)
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}

// ListMilestonesUseCase - этапы заказа для его участников.
type ListMilestonesUseCase struct {
	repos repository.Repositories
}

func NewListMilestonesUseCase(uow repository.UnitOfWork) *ListMilestonesUseCase {
	return &ListMilestonesUseCase{repos: uow.Repositories()}
}

func (uc *ListMilestonesUseCase) Execute(ctx context.Context, orderID uuid.UUID, actor valueobject.Actor) ([]*entity.Milestone, error) {
	o, err := uc.repos.Orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить заказ")
	}
	if !o.CanView(actor) {
		return nil, apperror.ErrNotParticipant
	}

	milestones, err := uc.repos.Milestones.ListByOrder(ctx, o.ID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить этапы заказа")
	}
	return milestones, nil
}
