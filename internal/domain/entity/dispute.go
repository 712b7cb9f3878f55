package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

const MaxDisputeEvidence = 20

type Dispute struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	OpenedBy    uuid.UUID
	Reason      string
	Description string
	Evidence    []string
	Status      valueobject.DisputeStatus
	// OrderStatusBefore статус, в который заказ вернётся при отзыве спора.
	OrderStatusBefore valueobject.OrderStatus
	Resolution        *valueobject.DisputeResolution
	ResolutionNote    *string
	ResolvedBy        *uuid.UUID
	ResolvedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisputePatch частичное обновление спора: nil означает "не менять".
type DisputePatch struct {
	Status            *valueobject.DisputeStatus
	OrderStatusBefore *valueobject.OrderStatus
	Resolution        *valueobject.DisputeResolution
	ResolutionNote    *string
	ResolvedBy        *uuid.UUID
	ResolvedAt        *time.Time
	UpdatedAt         time.Time
}

func NewDispute(order *Order, openedBy uuid.UUID, reason, description string, evidence []string, now time.Time) (*Dispute, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperror.Validation("укажите причину спора")
	}
	if utf8.RuneCountInString(reason) > 200 {
		return nil, apperror.Validation("причина спора не должна превышать 200 символов")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperror.Validation("опишите суть спора")
	}
	if len(evidence) > MaxDisputeEvidence {
		return nil, apperror.Validation("слишком много вложений")
	}

	cleaned := make([]string, 0, len(evidence))
	for _, e := range evidence {
		if e = strings.TrimSpace(e); e != "" {
			cleaned = append(cleaned, e)
		}
	}

	return &Dispute{
		ID:                uuid.New(),
		OrderID:           order.ID,
		OpenedBy:          openedBy,
		Reason:            reason,
		Description:       description,
		Evidence:          cleaned,
		Status:            valueobject.DisputeStatusOpen,
		OrderStatusBefore: order.Status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (d *Dispute) IsOpen() bool {
	return d.Status == valueobject.DisputeStatusOpen
}

func (d *Dispute) Resolve(adminID uuid.UUID, resolution valueobject.DisputeResolution, note string, now time.Time) (DisputePatch, error) {
	if !d.IsOpen() {
		return DisputePatch{}, apperror.ErrDisputeAlreadyResolved
	}
	if !resolution.IsValid() {
		return DisputePatch{}, apperror.Validation("некорректный вариант разрешения спора")
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return DisputePatch{}, apperror.Validation("комментарий к решению обязателен")
	}

	status := valueobject.DisputeStatusResolved
	patch := DisputePatch{
		Status:         &status,
		Resolution:     &resolution,
		ResolutionNote: &note,
		ResolvedBy:     &adminID,
		ResolvedAt:     &now,
		UpdatedAt:      now,
	}
	d.Apply(patch)
	return patch, nil
}

// Withdraw отзыв спора открывшей его стороной.
func (d *Dispute) Withdraw(userID uuid.UUID, now time.Time) (DisputePatch, error) {
	if !d.IsOpen() {
		return DisputePatch{}, apperror.ErrDisputeAlreadyResolved
	}
	if d.OpenedBy != userID {
		return DisputePatch{}, apperror.New(apperror.ErrCodeForbidden, "отозвать спор может только его инициатор")
	}
	status := valueobject.DisputeStatusClosed
	patch := DisputePatch{Status: &status, ResolvedBy: &userID, ResolvedAt: &now, UpdatedAt: now}
	d.Apply(patch)
	return patch, nil
}

// RecordPaymentCaptured учитывает оплату, пришедшую во время спора по неоплаченному
// заказу: при отзыве спора заказ вернётся уже в active.
func (d *Dispute) RecordPaymentCaptured(now time.Time) (DisputePatch, bool) {
	if !d.IsOpen() || d.OrderStatusBefore != valueobject.OrderStatusPending {
		return DisputePatch{}, false
	}
	active := valueobject.OrderStatusActive
	patch := DisputePatch{OrderStatusBefore: &active, UpdatedAt: now}
	d.Apply(patch)
	return patch, true
}

func (d *Dispute) Apply(patch DisputePatch) {
	if patch.Status != nil {
		d.Status = *patch.Status
	}
	if patch.OrderStatusBefore != nil {
		d.OrderStatusBefore = *patch.OrderStatusBefore
	}
	if patch.Resolution != nil {
		r := *patch.Resolution
		d.Resolution = &r
	}
	if patch.ResolutionNote != nil {
		n := *patch.ResolutionNote
		d.ResolutionNote = &n
	}
	if patch.ResolvedBy != nil {
		id := *patch.ResolvedBy
		d.ResolvedBy = &id
	}
	if patch.ResolvedAt != nil {
		t := *patch.ResolvedAt
		d.ResolvedAt = &t
	}
	if !patch.UpdatedAt.IsZero() {
		d.UpdatedAt = patch.UpdatedAt
	}
}
