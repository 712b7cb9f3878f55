package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
)

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Currency    string `json:"currency"`
}

type ProjectResponse struct {
	ID                   uuid.UUID  `json:"id"`
	ClientID             uuid.UUID  `json:"client_id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Currency             string     `json:"currency"`
	Status               string     `json:"status"`
	SelectedFreelancerID *uuid.UUID `json:"selected_freelancer_id"`
	BidCount             int        `json:"bid_count"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func ToProjectResponse(p *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:                   p.ID,
		ClientID:             p.ClientID,
		Title:                p.Title,
		Description:          p.Description,
		Currency:             p.Currency,
		Status:               string(p.Status),
		SelectedFreelancerID: p.SelectedFreelancerID,
		BidCount:             p.BidCount,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
