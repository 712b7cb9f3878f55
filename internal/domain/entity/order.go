package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

// Order финансовый договор между клиентом и исполнителем.
// PlatformFee и FreelancerEarnings фиксируются при создании и больше не пересчитываются.
type Order struct {
	ID                 uuid.UUID
	ClientID           uuid.UUID
	FreelancerID       uuid.UUID
	ProjectID          *uuid.UUID
	BidID              *uuid.UUID
	GigID              *uuid.UUID
	Title              string
	Amount             float64
	Currency           string
	PlatformFee        float64
	FreelancerEarnings float64
	DeliveryDays       int
	Status             valueobject.OrderStatus
	EscrowStatus       valueobject.EscrowStatus
	DeliveredAt        *time.Time
	CompletedAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderDraft условия будущего заказа: из принятой ставки или покупки пакета услуги.
type OrderDraft struct {
	ClientID     uuid.UUID
	FreelancerID uuid.UUID
	ProjectID    *uuid.UUID
	BidID        *uuid.UUID
	GigID        *uuid.UUID
	Title        string
	Amount       float64
	Currency     string
	DeliveryDays int
}

// OrderPatch частичное обновление заказа: nil означает "не менять".
type OrderPatch struct {
	Status       *valueobject.OrderStatus
	EscrowStatus *valueobject.EscrowStatus
	DeliveredAt  *time.Time
	CompletedAt  *time.Time
	UpdatedAt    time.Time
}

func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.EscrowStatus == nil && p.DeliveredAt == nil && p.CompletedAt == nil
}

// NewOrder считает комиссию по шкале платформы и создаёт заказ в статусе,
// который задаёт политика захвата оплаты.
func NewOrder(draft OrderDraft, platform valueobject.Platform, now time.Time) (*Order, error) {
	if draft.ClientID == uuid.Nil || draft.FreelancerID == uuid.Nil {
		return nil, apperror.Validation("у заказа должны быть клиент и исполнитель")
	}
	if draft.ClientID == draft.FreelancerID {
		return nil, apperror.Validation("клиент и исполнитель должны различаться")
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, apperror.Validation("название заказа обязательно")
	}
	money, err := valueobject.NewMoney(draft.Amount, draft.Currency)
	if err != nil {
		return nil, err
	}
	if draft.DeliveryDays <= 0 {
		return nil, apperror.Validation("срок выполнения должен быть больше нуля")
	}

	earnings := platform.Fees.Split(money.Amount)
	return &Order{
		ID:                 uuid.New(),
		ClientID:           draft.ClientID,
		FreelancerID:       draft.FreelancerID,
		ProjectID:          draft.ProjectID,
		BidID:              draft.BidID,
		GigID:              draft.GigID,
		Title:              title,
		Amount:             money.Amount,
		Currency:           money.Currency,
		PlatformFee:        earnings.Fee,
		FreelancerEarnings: earnings.Net,
		DeliveryDays:       draft.DeliveryDays,
		Status:             platform.Capture.InitialOrderStatus(),
		EscrowStatus:       valueobject.EscrowHeld,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func (o *Order) IsClient(userID uuid.UUID) bool {
	return o.ClientID == userID
}

func (o *Order) IsFreelancer(userID uuid.UUID) bool {
	return o.FreelancerID == userID
}

func (o *Order) IsParticipant(userID uuid.UUID) bool {
	return o.IsClient(userID) || o.IsFreelancer(userID)
}

// CanView участник заказа или администратор.
func (o *Order) CanView(actor valueobject.Actor) bool {
	return actor.IsAdmin() || o.IsParticipant(actor.UserID)
}

// Activate оплата подтверждена провайдером: pending -> active.
func (o *Order) Activate(now time.Time) (OrderPatch, error) {
	if o.Status != valueobject.OrderStatusPending {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	return o.transition(valueobject.OrderStatusActive, nil, now)
}

// Deliver исполнитель сдал работу: active|revision -> delivered.
func (o *Order) Deliver(now time.Time) (OrderPatch, error) {
	if o.Status != valueobject.OrderStatusActive && o.Status != valueobject.OrderStatusRevision {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	patch, err := o.transition(valueobject.OrderStatusDelivered, nil, now)
	if err != nil {
		return OrderPatch{}, err
	}
	patch.DeliveredAt = &now
	o.Apply(patch)
	return patch, nil
}

// RequestRevision клиент вернул работу на доработку: delivered -> revision.
func (o *Order) RequestRevision(now time.Time) (OrderPatch, error) {
	if o.Status != valueobject.OrderStatusDelivered {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	return o.transition(valueobject.OrderStatusRevision, nil, now)
}

// ApproveDelivery клиент принял работу: delivered -> completed, средства освобождаются.
func (o *Order) ApproveDelivery(now time.Time) (OrderPatch, error) {
	if o.Status != valueobject.OrderStatusDelivered {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	return o.release(now)
}

// CompleteByMilestones закрывает заказ после принятия последнего этапа.
func (o *Order) CompleteByMilestones(now time.Time) (OrderPatch, error) {
	if o.Status != valueobject.OrderStatusActive {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	return o.release(now)
}

func (o *Order) release(now time.Time) (OrderPatch, error) {
	escrow := valueobject.EscrowReleased
	patch, err := o.transition(valueobject.OrderStatusCompleted, &escrow, now)
	if err != nil {
		return OrderPatch{}, err
	}
	patch.CompletedAt = &now
	o.Apply(patch)
	return patch, nil
}

// Cancel отмена до начала работ (неуспешная оплата, истёк срок ожидания оплаты).
func (o *Order) Cancel(now time.Time) (OrderPatch, error) {
	if o.Status != valueobject.OrderStatusPending {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	escrow := valueobject.EscrowRefunded
	return o.transition(valueobject.OrderStatusCancelled, &escrow, now)
}

// MarkDisputed открытие спора замораживает заказ, средства остаются удержанными.
func (o *Order) MarkDisputed(now time.Time) (OrderPatch, error) {
	if o.Status == valueobject.OrderStatusDisputed {
		return OrderPatch{}, apperror.ErrAlreadyDisputed
	}
	if o.Status.IsTerminal() {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	return o.transition(valueobject.OrderStatusDisputed, nil, now)
}

// ApplyResolution переводит заказ в итоговое состояние по решению спора.
func (o *Order) ApplyResolution(resolution valueobject.DisputeResolution, now time.Time) (OrderPatch, error) {
	if o.Status != valueobject.OrderStatusDisputed {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	out := resolution.Outcome()
	patch, err := o.transition(out.OrderStatus, &out.EscrowStatus, now)
	if err != nil {
		return OrderPatch{}, err
	}
	if out.OrderStatus == valueobject.OrderStatusCompleted {
		patch.CompletedAt = &now
		o.Apply(patch)
	}
	return patch, nil
}

// RestoreAfterWithdrawal возвращает заказ в статус, в котором был открыт отозванный спор.
func (o *Order) RestoreAfterWithdrawal(previous valueobject.OrderStatus, now time.Time) (OrderPatch, error) {
	if o.Status != valueobject.OrderStatusDisputed || previous.IsTerminal() || previous == valueobject.OrderStatusDisputed {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	return o.transition(previous, nil, now)
}

func (o *Order) transition(next valueobject.OrderStatus, escrow *valueobject.EscrowStatus, now time.Time) (OrderPatch, error) {
	if !o.Status.CanTransitionTo(next) {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	if escrow != nil && !o.EscrowStatus.CanTransitionTo(*escrow) {
		return OrderPatch{}, apperror.ErrInvalidOrderState
	}
	patch := OrderPatch{Status: &next, EscrowStatus: escrow, UpdatedAt: now}
	o.Apply(patch)
	return patch, nil
}

func (o *Order) Apply(patch OrderPatch) {
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.EscrowStatus != nil {
		o.EscrowStatus = *patch.EscrowStatus
	}
	if patch.DeliveredAt != nil {
		t := *patch.DeliveredAt
		o.DeliveredAt = &t
	}
	if patch.CompletedAt != nil {
		t := *patch.CompletedAt
		o.CompletedAt = &t
	}
	if !patch.UpdatedAt.IsZero() {
		o.UpdatedAt = patch.UpdatedAt
	}
}
