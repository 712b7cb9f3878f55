package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
)

type GigPackageRequest struct {
	Name         string  `json:"name" binding:"required"`
	Price        float64 `json:"price" binding:"required"`
	DeliveryDays int     `json:"delivery_days" binding:"required"`
}

type CreateGigRequest struct {
	Title    string              `json:"title" binding:"required"`
	Currency string              `json:"currency"`
	Packages []GigPackageRequest `json:"packages" binding:"required,min=1,dive"`
}

func (r CreateGigRequest) Drafts() []entity.GigPackageDraft {
	drafts := make([]entity.GigPackageDraft, 0, len(r.Packages))
	for _, p := range r.Packages {
		drafts = append(drafts, entity.GigPackageDraft{Name: p.Name, Price: p.Price, DeliveryDays: p.DeliveryDays})
	}
	return drafts
}

type PurchaseGigRequest struct {
	PackageID string `json:"package_id" binding:"required,uuid"`
}

type GigPackageResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	DeliveryDays int       `json:"delivery_days"`
}

type GigResponse struct {
	ID           uuid.UUID            `json:"id"`
	FreelancerID uuid.UUID            `json:"freelancer_id"`
	Title        string               `json:"title"`
	Currency     string               `json:"currency"`
	IsActive     bool                 `json:"is_active"`
	Packages     []GigPackageResponse `json:"packages"`
	CreatedAt    time.Time            `json:"created_at"`
}

func ToGigResponse(g *entity.Gig) GigResponse {
	resp := GigResponse{
		ID:           g.ID,
		FreelancerID: g.FreelancerID,
		Title:        g.Title,
		Currency:     g.Currency,
		IsActive:     g.IsActive,
		Packages:     make([]GigPackageResponse, 0, len(g.Packages)),
		CreatedAt:    g.CreatedAt,
	}
	for _, p := range g.Packages {
		resp.Packages = append(resp.Packages, GigPackageResponse{
			ID: p.ID, Name: p.Name, Price: p.Price, DeliveryDays: p.DeliveryDays,
		})
	}
	return resp
}
