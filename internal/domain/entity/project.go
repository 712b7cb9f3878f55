package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

type Project struct {
	ID                   uuid.UUID
	ClientID             uuid.UUID
	Title                string
	Description          string
	Currency             string
	Status               valueobject.ProjectStatus
	SelectedFreelancerID *uuid.UUID
	BidCount             int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ProjectPatch частичное обновление проекта: nil означает "не менять".
type ProjectPatch struct {
	Status               *valueobject.ProjectStatus
	SelectedFreelancerID *uuid.UUID
	UpdatedAt            time.Time
}

func NewProject(clientID uuid.UUID, title, description, currency string) (*Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("название проекта обязательно")
	}
	if utf8.RuneCountInString(title) > 200 {
		return nil, apperror.Validation("название проекта не должно превышать 200 символов")
	}
	cur, err := valueobject.NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Project{
		ID:          uuid.New(),
		ClientID:    clientID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Currency:    cur,
		Status:      valueobject.ProjectStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (p *Project) IsOwnedBy(userID uuid.UUID) bool {
	return p.ClientID == userID
}

func (p *Project) IsOpen() bool {
	return p.Status == valueobject.ProjectStatusOpen
}

// SelectFreelancer фиксирует победителя и переводит проект в работу.
// Исполнитель назначается ровно один раз, при выходе из статуса open.
func (p *Project) SelectFreelancer(freelancerID uuid.UUID, now time.Time) (ProjectPatch, error) {
	if !p.IsOpen() || p.SelectedFreelancerID != nil {
		return ProjectPatch{}, apperror.ErrProjectNotOpen
	}
	status := valueobject.ProjectStatusInProgress
	patch := ProjectPatch{Status: &status, SelectedFreelancerID: &freelancerID, UpdatedAt: now}
	p.Apply(patch)
	return patch, nil
}

func (p *Project) Close(now time.Time) (ProjectPatch, error) {
	if !p.Status.CanTransitionTo(valueobject.ProjectStatusClosed) {
		return ProjectPatch{}, apperror.New(apperror.ErrCodeConflict, "проект уже закрыт")
	}
	status := valueobject.ProjectStatusClosed
	patch := ProjectPatch{Status: &status, UpdatedAt: now}
	p.Apply(patch)
	return patch, nil
}

// Complete отмечает проект завершённым вместе с его заказом.
// Возвращает false, если проект уже не в работе.
func (p *Project) Complete(now time.Time) (ProjectPatch, bool) {
	if !p.Status.CanTransitionTo(valueobject.ProjectStatusCompleted) {
		return ProjectPatch{}, false
	}
	status := valueobject.ProjectStatusCompleted
	patch := ProjectPatch{Status: &status, UpdatedAt: now}
	p.Apply(patch)
	return patch, true
}

func (p *Project) Apply(patch ProjectPatch) {
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.SelectedFreelancerID != nil {
		id := *patch.SelectedFreelancerID
		p.SelectedFreelancerID = &id
	}
	if !patch.UpdatedAt.IsZero() {
		p.UpdatedAt = patch.UpdatedAt
	}
}
