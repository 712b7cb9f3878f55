package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/payment"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

// RecordFreelancerStats засчитывает завершённый заказ исполнителю.
// Доход берётся из зафиксированного при создании значения.
func RecordFreelancerStats(ctx context.Context, repos repository.Repositories, o *entity.Order) error {
	return RecordFreelancerEarnings(ctx, repos, o, o.FreelancerEarnings)
}

// RecordFreelancerEarnings засчитывает заказ с фактически полученной суммой.
func RecordFreelancerEarnings(ctx context.Context, repos repository.Repositories, o *entity.Order, earned float64) error {
	if err := repos.Users.RecordCompletedOrder(ctx, o.FreelancerID, valueobject.RoundMoney(earned)); err != nil {
		return apperror.Database(err, "не удалось обновить статистику исполнителя")
	}
	return nil
}

// SyncProject доводит проект до итогового статуса вслед за заказом.
func SyncProject(ctx context.Context, repos repository.Repositories, o *entity.Order, now time.Time) error {
	if o.ProjectID == nil {
		return nil
	}
	project, err := repos.Projects.GetForUpdate(ctx, *o.ProjectID)
	if err != nil {
		return apperror.Database(err, "не удалось получить проект")
	}

	var patch entity.ProjectPatch
	switch o.Status {
	case valueobject.OrderStatusCompleted:
		p, ok := project.Complete(now)
		if !ok {
			return nil
		}
		patch = p
	case valueobject.OrderStatusCancelled:
		p, err := project.Close(now)
		if err != nil {
			return nil
		}
		patch = p
	default:
		return nil
	}

	if err := repos.Projects.Patch(ctx, project.ID, patch); err != nil {
		return apperror.Database(err, "не удалось обновить проект")
	}
	return nil
}

// AppendPayout записывает выплату в журнал и возвращает запрос к платёжному провайдеру.
func AppendPayout(ctx context.Context, repos repository.Repositories, tx *entity.Transaction) (payment.PayoutRequest, error) {
	if err := repos.Transactions.Create(ctx, tx); err != nil {
		return payment.PayoutRequest{}, apperror.Database(err, "не удалось записать выплату")
	}
	return payment.PayoutRequest{
		TransactionID: tx.ID,
		OrderID:       tx.OrderID,
		FreelancerID:  tx.FreelancerID,
		Amount:        tx.NetAmount,
		Currency:      tx.Currency,
		Note:          tx.Description,
	}, nil
}

// Payouts итог уже записанных выплат по заказу.
type Payouts struct {
	Gross float64
	Fee   float64
	Net   float64
}

// PaidOut суммирует выплаты, уже начисленные исполнителю по заказу.
func PaidOut(ctx context.Context, repos repository.Repositories, orderID uuid.UUID) (Payouts, error) {
	txs, err := repos.Transactions.ListByOrder(ctx, orderID)
	if err != nil {
		return Payouts{}, apperror.Database(err, "не удалось получить выплаты по заказу")
	}
	var total Payouts
	for _, t := range txs {
		total.Gross += t.Amount
		total.Fee += t.Fee
		total.Net += t.NetAmount
	}
	total.Gross = valueobject.RoundMoney(total.Gross)
	total.Fee = valueobject.RoundMoney(total.Fee)
	total.Net = valueobject.RoundMoney(total.Net)
	return total, nil
}
