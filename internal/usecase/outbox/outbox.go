// Package outbox копит побочные эффекты операции и публикует их после фиксации транзакции.
package outbox

import (
	"context"

	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/payment"
)

// Outbox эффекты одной операции. Заполняется внутри транзакции.
type Outbox struct {
	messages []notify.Message
	payouts  []payment.PayoutRequest
}

func (o *Outbox) Notify(msgs ...notify.Message) {
	o.messages = append(o.messages, msgs...)
}

func (o *Outbox) Payout(req payment.PayoutRequest) {
	o.payouts = append(o.payouts, req)
}

func (o *Outbox) Messages() []notify.Message {
	return o.messages
}

func (o *Outbox) Payouts() []payment.PayoutRequest {
	return o.payouts
}

// Publisher отправляет накопленные эффекты. Вызывается только после успешного commit.
type Publisher struct {
	notifier notify.Notifier
	payouts  payment.PayoutRequester
}

func NewPublisher(notifier notify.Notifier, payouts payment.PayoutRequester) *Publisher {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if payouts == nil {
		payouts = payment.NopPayouts{}
	}
	return &Publisher{notifier: notifier, payouts: payouts}
}

func (p *Publisher) Publish(ctx context.Context, o *Outbox) {
	if o == nil {
		return
	}
	if len(o.messages) > 0 {
		p.notifier.Dispatch(ctx, o.messages...)
	}
	for _, req := range o.payouts {
		p.payouts.RequestPayout(ctx, req)
	}
}
