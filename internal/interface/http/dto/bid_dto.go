package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
)

type PlaceBidRequest struct {
	Amount       float64 `json:"amount" binding:"required"`
	DeliveryDays int     `json:"delivery_days" binding:"required"`
	Pitch        string  `json:"pitch" binding:"required"`
	Currency     string  `json:"currency"`
}

type SelectBidRequest struct {
	BidID string `json:"bid_id" binding:"required,uuid"`
}

type BidResponse struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	FreelancerID uuid.UUID `json:"freelancer_id"`
	Amount       float64   `json:"amount"`
	Currency     string    `json:"currency"`
	DeliveryDays int       `json:"delivery_days"`
	Pitch        string    `json:"pitch"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToBidResponse(b *entity.Bid) BidResponse {
	return BidResponse{
		ID:           b.ID,
		ProjectID:    b.ProjectID,
		FreelancerID: b.FreelancerID,
		Amount:       b.Amount,
		Currency:     b.Currency,
		DeliveryDays: b.DeliveryDays,
		Pitch:        b.Pitch,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt,
	}
}

func ToBidResponses(bids []*entity.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, ToBidResponse(b))
	}
	return out
}

// SelectWinnerResponse результат выбора: проект в работе, принятая ставка и созданный заказ.
type SelectWinnerResponse struct {
	Project ProjectResponse `json:"project"`
	Bid     BidResponse     `json:"bid"`
	Order   OrderResponse   `json:"order"`
}
