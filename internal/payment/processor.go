// Package payment связь с внешним платёжным провайдером.
// Движок заказов только фиксирует намерение выплаты, деньги двигает провайдер.
package payment

import (
	"context"

	"github.com/google/uuid"
)

// Transfer перевод на подключённый аккаунт исполнителя.
type Transfer struct {
	ReferenceID uuid.UUID
	OrderID     uuid.UUID
	Receiver    string
	Amount      float64
	Currency    string
	Note        string
}

// Processor провайдер, исполняющий переводы. Возвращает идентификатор перевода у провайдера.
type Processor interface {
	Name() string
	Transfer(ctx context.Context, t Transfer) (string, error)
}

// PayoutRequest запрос на выплату исполнителю после освобождения средств.
type PayoutRequest struct {
	TransactionID uuid.UUID
	OrderID       uuid.UUID
	FreelancerID  uuid.UUID
	Amount        float64
	Currency      string
	Note          string
}

// PayoutRequester принимает запросы на выплату. Ничего не возвращает:
// выплата выполняется асинхронно, сбой логируется.
type PayoutRequester interface {
	RequestPayout(ctx context.Context, req PayoutRequest)
}

// NopPayouts игнорирует запросы на выплату.
type NopPayouts struct{}

func (NopPayouts) RequestPayout(context.Context, PayoutRequest) {}
