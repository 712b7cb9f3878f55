package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

// Gig услуга исполнителя с фиксированными пакетами.
type Gig struct {
	ID           uuid.UUID
	FreelancerID uuid.UUID
	Title        string
	Currency     string
	IsActive     bool
	Packages     []GigPackage
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type GigPackage struct {
	ID           uuid.UUID
	GigID        uuid.UUID
	Name         string
	Price        float64
	DeliveryDays int
}

type GigPackageDraft struct {
	Name         string
	Price        float64
	DeliveryDays int
}

func NewGig(freelancerID uuid.UUID, title, currency string, drafts []GigPackageDraft) (*Gig, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.Validation("название услуги обязательно")
	}
	cur, err := valueobject.NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, apperror.Validation("у услуги должен быть хотя бы один пакет")
	}

	now := time.Now()
	gig := &Gig{
		ID:           uuid.New(),
		FreelancerID: freelancerID,
		Title:        title,
		Currency:     cur,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for i, d := range drafts {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, apperror.Validation(fmt.Sprintf("у пакета %d не указано название", i+1))
		}
		if d.Price <= 0 || d.DeliveryDays <= 0 {
			return nil, apperror.Validation(fmt.Sprintf("у пакета %d некорректная цена или срок", i+1))
		}
		gig.Packages = append(gig.Packages, GigPackage{
			ID:           uuid.New(),
			GigID:        gig.ID,
			Name:         name,
			Price:        valueobject.RoundMoney(d.Price),
			DeliveryDays: d.DeliveryDays,
		})
	}
	return gig, nil
}

func (g *Gig) Package(id uuid.UUID) (*GigPackage, bool) {
	for i := range g.Packages {
		if g.Packages[i].ID == id {
			return &g.Packages[i], true
		}
	}
	return nil, false
}

// OrderDraft условия заказа при покупке пакета.
func (g *Gig) OrderDraft(clientID uuid.UUID, pkg *GigPackage) OrderDraft {
	gigID := g.ID
	return OrderDraft{
		ClientID:     clientID,
		FreelancerID: g.FreelancerID,
		GigID:        &gigID,
		Title:        fmt.Sprintf("%s (%s)", g.Title, pkg.Name),
		Amount:       pkg.Price,
		Currency:     g.Currency,
		DeliveryDays: pkg.DeliveryDays,
	}
}
