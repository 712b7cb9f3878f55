package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/plutov/paypal/v4"
)

type payoutClient interface {
	CreatePayout(ctx context.Context, p paypal.Payout) (*paypal.PayoutResponse, error)
}

// PayPalProcessor выплаты исполнителям через PayPal Payouts.
// Получатель задаётся email-адресом подключённого аккаунта.
type PayPalProcessor struct {
	client payoutClient
}

// NewPayPalProcessor создаёт клиента и сразу получает токен доступа.
func NewPayPalProcessor(ctx context.Context, clientID, secret string, live bool) (*PayPalProcessor, error) {
	base := paypal.APIBaseSandBox
	if live {
		base = paypal.APIBaseLive
	}

	c, err := paypal.NewClient(clientID, secret, base)
	if err != nil {
		return nil, fmt.Errorf("paypal: не удалось создать клиента: %w", err)
	}
	if _, err := c.GetAccessToken(ctx); err != nil {
		return nil, fmt.Errorf("paypal: не удалось получить токен доступа: %w", err)
	}
	return &PayPalProcessor{client: c}, nil
}

func (p *PayPalProcessor) Name() string { return "paypal" }

func (p *PayPalProcessor) Transfer(ctx context.Context, t Transfer) (string, error) {
	if t.Receiver == "" {
		return "", fmt.Errorf("paypal: не указан получатель перевода")
	}

	payout := paypal.Payout{
		SenderBatchHeader: &paypal.SenderBatchHeader{
			SenderBatchID: t.ReferenceID.String(),
			EmailSubject:  "Выплата по заказу",
		},
		Items: []paypal.PayoutItem{{
			RecipientType: "EMAIL",
			Receiver:      t.Receiver,
			Amount: &paypal.AmountPayout{
				Currency: t.Currency,
				Value:    strconv.FormatFloat(t.Amount, 'f', 2, 64),
			},
			Note:         t.Note,
			SenderItemID: t.OrderID.String(),
		}},
	}

	resp, err := p.client.CreatePayout(ctx, payout)
	if err != nil {
		return "", fmt.Errorf("paypal: выплата не создана: %w", err)
	}
	if resp == nil || resp.BatchHeader == nil {
		return "", fmt.Errorf("paypal: пустой ответ на создание выплаты")
	}
	return resp.BatchHeader.PayoutBatchID, nil
}
