// Package notify доставка уведомлений о переходах заказа.
// Доставка best-effort: ошибки каналов логируются и никогда не возвращаются вызывающему.
package notify

import (
	"context"

	"github.com/google/uuid"
)

type Kind string

const (
	KindBidPlaced          Kind = "bid_placed"
	KindBidAccepted        Kind = "bid_accepted"
	KindBidRejected        Kind = "bid_rejected"
	KindProjectClosed      Kind = "project_closed"
	KindOrderCreated       Kind = "order_created"
	KindOrderActivated     Kind = "order_activated"
	KindOrderDelivered     Kind = "order_delivered"
	KindRevisionRequested  Kind = "revision_requested"
	KindOrderCompleted     Kind = "order_completed"
	KindOrderCancelled     Kind = "order_cancelled"
	KindMilestonesCreated  Kind = "milestones_created"
	KindMilestoneDelivered Kind = "milestone_delivered"
	KindMilestoneApproved  Kind = "milestone_approved"
	KindDisputeOpened      Kind = "dispute_opened"
	KindDisputeResolved    Kind = "dispute_resolved"
	KindDisputeWithdrawn   Kind = "dispute_withdrawn"
)

// Message одно уведомление одному пользователю.
type Message struct {
	UserID uuid.UUID `json:"user_id"`
	Kind   Kind      `json:"kind"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	Link   string    `json:"link"`
}

// Notifier принимает уведомления к доставке. Ничего не возвращает:
// сбой доставки не должен влиять на операцию, которая его вызвала.
type Notifier interface {
	Dispatch(ctx context.Context, msgs ...Message)
}

// Sink канал доставки (БД, websocket, email).
type Sink interface {
	Name() string
	Deliver(ctx context.Context, msg Message) error
}

// Nop отбрасывает уведомления.
type Nop struct{}

func (Nop) Dispatch(context.Context, ...Message) {}
