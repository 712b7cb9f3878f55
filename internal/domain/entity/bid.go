package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

const (
	MinPitchLength = 20
	MaxPitchLength = 5000
)

type Bid struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	FreelancerID uuid.UUID
	Amount       float64
	Currency     string
	DeliveryDays int
	Pitch        string
	Status       valueobject.BidStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewBid(projectID, freelancerID uuid.UUID, amount float64, currency string, deliveryDays int, pitch string) (*Bid, error) {
	money, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return nil, err
	}
	if deliveryDays <= 0 {
		return nil, apperror.Validation("срок выполнения должен быть больше нуля")
	}
	pitch = strings.TrimSpace(pitch)
	length := utf8.RuneCountInString(pitch)
	if length < MinPitchLength {
		return nil, apperror.Validation("сопроводительный текст должен содержать не менее 20 символов")
	}
	if length > MaxPitchLength {
		return nil, apperror.Validation("сопроводительный текст не должен превышать 5000 символов")
	}

	now := time.Now()
	return &Bid{
		ID:           uuid.New(),
		ProjectID:    projectID,
		FreelancerID: freelancerID,
		Amount:       money.Amount,
		Currency:     money.Currency,
		DeliveryDays: deliveryDays,
		Pitch:        pitch,
		Status:       valueobject.BidStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (b *Bid) Accept(now time.Time) error {
	return b.moveTo(valueobject.BidStatusAccepted, now)
}

func (b *Bid) Reject(now time.Time) error {
	return b.moveTo(valueobject.BidStatusRejected, now)
}

func (b *Bid) moveTo(next valueobject.BidStatus, now time.Time) error {
	if !b.Status.CanTransitionTo(next) {
		return apperror.ErrBidNotPending
	}
	b.Status = next
	b.UpdatedAt = now
	return nil
}
