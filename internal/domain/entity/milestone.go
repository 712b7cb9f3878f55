package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

type Milestone struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	Title       string
	Amount      float64
	Status      valueobject.MilestoneStatus
	SortOrder   int
	DeliveredAt *time.Time
	ApprovedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MilestoneDraft описание этапа в запросе клиента.
type MilestoneDraft struct {
	Title  string
	Amount float64
}

// MilestonePatch частичное обновление этапа: nil означает "не менять".
type MilestonePatch struct {
	Status      *valueobject.MilestoneStatus
	DeliveredAt *time.Time
	ApprovedAt  *time.Time
	UpdatedAt   time.Time
}

// NewMilestones разбивает заказ на этапы в заданном порядке.
// Первый этап сразу становится активным, сумма этапов должна совпасть с суммой заказа.
func NewMilestones(order *Order, drafts []MilestoneDraft, now time.Time) ([]*Milestone, error) {
	if len(drafts) == 0 {
		return nil, apperror.Validation("нужен хотя бы один этап")
	}

	var total float64
	milestones := make([]*Milestone, 0, len(drafts))
	for i, d := range drafts {
		title := strings.TrimSpace(d.Title)
		if title == "" {
			return nil, apperror.Validation(fmt.Sprintf("у этапа %d не указано название", i+1))
		}
		if d.Amount <= 0 {
			return nil, apperror.Validation(fmt.Sprintf("сумма этапа %d должна быть больше нуля", i+1))
		}
		total += d.Amount

		status := valueobject.MilestoneStatusPending
		if i == 0 {
			status = valueobject.MilestoneStatusActive
		}
		milestones = append(milestones, &Milestone{
			ID:        uuid.New(),
			OrderID:   order.ID,
			Title:     title,
			Amount:    valueobject.RoundMoney(d.Amount),
			Status:    status,
			SortOrder: i + 1,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if !valueobject.AmountsMatch(total, order.Amount) {
		return nil, apperror.Validation(fmt.Sprintf(
			"сумма этапов %.2f не совпадает с суммой заказа %.2f", total, order.Amount))
	}
	return milestones, nil
}

func (m *Milestone) Activate(now time.Time) (MilestonePatch, error) {
	if m.Status != valueobject.MilestoneStatusPending {
		return MilestonePatch{}, apperror.New(apperror.ErrCodeConflict, "этап уже запущен")
	}
	return m.transition(valueobject.MilestoneStatusActive, now)
}

func (m *Milestone) Deliver(now time.Time) (MilestonePatch, error) {
	if m.Status != valueobject.MilestoneStatusActive {
		return MilestonePatch{}, apperror.ErrMilestoneNotActive
	}
	patch, err := m.transition(valueobject.MilestoneStatusDelivered, now)
	if err != nil {
		return MilestonePatch{}, err
	}
	patch.DeliveredAt = &now
	m.Apply(patch)
	return patch, nil
}

func (m *Milestone) Approve(now time.Time) (MilestonePatch, error) {
	if m.Status != valueobject.MilestoneStatusDelivered {
		return MilestonePatch{}, apperror.ErrMilestoneNotDelivered
	}
	patch, err := m.transition(valueobject.MilestoneStatusApproved, now)
	if err != nil {
		return MilestonePatch{}, err
	}
	patch.ApprovedAt = &now
	m.Apply(patch)
	return patch, nil
}

func (m *Milestone) transition(next valueobject.MilestoneStatus, now time.Time) (MilestonePatch, error) {
	if !m.Status.CanTransitionTo(next) {
		return MilestonePatch{}, apperror.New(apperror.ErrCodeConflict, "недопустимый переход статуса этапа")
	}
	patch := MilestonePatch{Status: &next, UpdatedAt: now}
	m.Apply(patch)
	return patch, nil
}

func (m *Milestone) Apply(patch MilestonePatch) {
	if patch.Status != nil {
		m.Status = *patch.Status
	}
	if patch.DeliveredAt != nil {
		t := *patch.DeliveredAt
		m.DeliveredAt = &t
	}
	if patch.ApprovedAt != nil {
		t := *patch.ApprovedAt
		m.ApprovedAt = &t
	}
	if !patch.UpdatedAt.IsZero() {
		m.UpdatedAt = patch.UpdatedAt
	}
}

// NextPending первый по порядку этап в статусе pending.
// Ожидает срез, отсортированный по SortOrder.
func NextPending(milestones []*Milestone) *Milestone {
	for _, m := range milestones {
		if m.Status == valueobject.MilestoneStatusPending {
			return m
		}
	}
	return nil
}

// AllApproved true, если все этапы приняты клиентом.
func AllApproved(milestones []*Milestone) bool {
	if len(milestones) == 0 {
		return false
	}
	for _, m := range milestones {
		if m.Status != valueobject.MilestoneStatusApproved {
			return false
		}
	}
	return true
}
