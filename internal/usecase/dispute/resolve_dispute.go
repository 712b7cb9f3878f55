package dispute

import (
	"context"
	"strings"
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

type ResolveDisputeInput struct {
	DisputeID  uuid.UUID
	Actor      valueobject.Actor
	Resolution string
	Note       string
}

type ResolveDisputeResult struct {
	Dispute *entity.Dispute
	Order   *entity.Order
	// Settlement выплата исполнителю, если решение отдаёт ему часть остатка.
	Settlement *entity.Transaction
}

// ResolveDisputeUseCase - администратор выносит решение по спору.
// Итоговый статус заказа и эскроу однозначно задаётся вариантом решения.
type ResolveDisputeUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewResolveDisputeUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *ResolveDisputeUseCase {
	return &ResolveDisputeUseCase{uow: uow, publisher: publisher}
}

func (uc *ResolveDisputeUseCase) Execute(ctx context.Context, in ResolveDisputeInput) (*ResolveDisputeResult, error) {
	if !in.Actor.IsAdmin() {
		return nil, apperror.ErrAdminOnly
	}
	resolution, err := valueobject.NewDisputeResolution(in.Resolution)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Note) == "" {
		return nil, apperror.Validation("комментарий к решению обязателен")
	}

	var (
		out    outbox.Outbox
		result *ResolveDisputeResult
	)
	err = uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, d, err := lockDispute(ctx, repos, in.DisputeID)
		if err != nil {
			return err
		}

		now := time.Now()
		dpatch, err := d.Resolve(in.Actor.UserID, resolution, in.Note, now)
		if err != nil {
			return err
		}
		opatch, err := o.ApplyResolution(resolution, now)
		if err != nil {
			return err
		}
		if err := repos.Disputes.Patch(ctx, d.ID, dpatch); err != nil {
			return apperror.Database(err, "не удалось обновить спор")
		}
		if err := order.PatchOrder(ctx, repos, o, opatch); err != nil {
			return err
		}

		res := &ResolveDisputeResult{Dispute: d, Order: o}
		if share := resolution.Outcome().FreelancerShare; share > 0 {
			tx, err := settle(ctx, repos, o, share, now, &out)
			if err != nil {
				return err
			}
			res.Settlement = tx
		}
		if err := order.SyncProject(ctx, repos, o, now); err != nil {
			return err
		}

		out.Notify(notify.DisputeResolved(o, d)...)
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}

// settle выплачивает исполнителю долю share от того, что не было выплачено
// по принятым этапам, и засчитывает заказ в его статистику с учётом всех выплат.
func settle(ctx context.Context, repos repository.Repositories, o *entity.Order, share float64, now time.Time, out *outbox.Outbox) (*entity.Transaction, error) {
	paid, err := order.PaidOut(ctx, repos, o.ID)
	if err != nil {
		return nil, err
	}

	net := valueobject.RoundMoney((o.FreelancerEarnings - paid.Net) * share)
	gross := valueobject.RoundMoney((o.Amount - paid.Gross) * share)
	if net < valueobject.MoneyTolerance {
		if err := order.RecordFreelancerEarnings(ctx, repos, o, paid.Net); err != nil {
			return nil, err
		}
		return nil, nil
	}

	tx := entity.NewSettlementPayout(o, gross, net, now)
	payout, err := order.AppendPayout(ctx, repos, tx)
	if err != nil {
		return nil, err
	}
	if err := order.RecordFreelancerEarnings(ctx, repos, o, paid.Net+net); err != nil {
		return nil, err
	}
	out.Payout(payout)
	return tx, nil
}

// lockDispute блокирует заказ, затем спор, в том же порядке, что и остальные операции с заказом.
func lockDispute(ctx context.Context, repos repository.Repositories, disputeID uuid.UUID) (*entity.Order, *entity.Dispute, error) {
	d, err := repos.Disputes.FindByID(ctx, disputeID)
	if err != nil {
		return nil, nil, apperror.Database(err, "не удалось получить спор")
	}
	o, err := order.LockOrder(ctx, repos, d.OrderID)
	if err != nil {
		return nil, nil, err
	}
	d, err = repos.Disputes.GetForUpdate(ctx, disputeID)
	if err != nil {
		return nil, nil, apperror.Database(err, "не удалось получить спор")
	}
	return o, d, nil
}
