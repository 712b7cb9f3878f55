package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
)

// Transaction запись журнала выплат. Только добавляется, никогда не изменяется.
type Transaction struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	MilestoneID  *uuid.UUID
	FreelancerID uuid.UUID
	Type         valueobject.TransactionType
	Amount       float64
	Fee          float64
	NetAmount    float64
	Currency     string
	Description  string
	CreatedAt    time.Time
}

// NewOrderPayout выплата по заказу целиком. Берёт зафиксированный доход заказа.
func NewOrderPayout(order *Order, now time.Time) *Transaction {
	return &Transaction{
		ID:           uuid.New(),
		OrderID:      order.ID,
		FreelancerID: order.FreelancerID,
		Type:         valueobject.TransactionPayout,
		Amount:       order.Amount,
		Fee:          order.PlatformFee,
		NetAmount:    order.FreelancerEarnings,
		Currency:     order.Currency,
		Description:  "Выплата по заказу: " + order.Title,
		CreatedAt:    now,
	}
}

// NewMilestonePayout выплата по этапу. Комиссия считается для суммы этапа отдельно.
func NewMilestonePayout(order *Order, milestone *Milestone, fees valueobject.FeeSchedule, now time.Time) *Transaction {
	split := fees.Split(milestone.Amount)
	id := milestone.ID
	return &Transaction{
		ID:           uuid.New(),
		OrderID:      order.ID,
		MilestoneID:  &id,
		FreelancerID: order.FreelancerID,
		Type:         valueobject.TransactionMilestonePayout,
		Amount:       split.Gross,
		Fee:          split.Fee,
		NetAmount:    split.Net,
		Currency:     order.Currency,
		Description:  "Выплата по этапу: " + milestone.Title,
		CreatedAt:    now,
	}
}

// NewSettlementPayout выплата по решению спора. gross и net относятся только к
// выплачиваемой части, комиссия равна их разнице.
func NewSettlementPayout(order *Order, gross, net float64, now time.Time) *Transaction {
	gross = valueobject.RoundMoney(gross)
	net = valueobject.RoundMoney(net)
	return &Transaction{
		ID:           uuid.New(),
		OrderID:      order.ID,
		FreelancerID: order.FreelancerID,
		Type:         valueobject.TransactionPayout,
		Amount:       gross,
		Fee:          valueobject.RoundMoney(gross - net),
		NetAmount:    net,
		Currency:     order.Currency,
		Description:  "Выплата по решению спора: " + order.Title,
		CreatedAt:    now,
	}
}
