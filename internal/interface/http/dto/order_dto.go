package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
)

type OrderResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ClientID           uuid.UUID  `json:"client_id"`
	FreelancerID       uuid.UUID  `json:"freelancer_id"`
	ProjectID          *uuid.UUID `json:"project_id"`
	BidID              *uuid.UUID `json:"bid_id"`
	GigID              *uuid.UUID `json:"gig_id"`
	Title              string     `json:"title"`
	Amount             float64    `json:"amount"`
	Currency           string     `json:"currency"`
	PlatformFee        float64    `json:"platform_fee"`
	FreelancerEarnings float64    `json:"freelancer_earnings"`
	DeliveryDays       int        `json:"delivery_days"`
	Status             string     `json:"status"`
	EscrowStatus       string     `json:"escrow_status"`
	DeliveredAt        *time.Time `json:"delivered_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func ToOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:                 o.ID,
		ClientID:           o.ClientID,
		FreelancerID:       o.FreelancerID,
		ProjectID:          o.ProjectID,
		BidID:              o.BidID,
		GigID:              o.GigID,
		Title:              o.Title,
		Amount:             o.Amount,
		Currency:           o.Currency,
		PlatformFee:        o.PlatformFee,
		FreelancerEarnings: o.FreelancerEarnings,
		DeliveryDays:       o.DeliveryDays,
		Status:             string(o.Status),
		EscrowStatus:       string(o.EscrowStatus),
		DeliveredAt:        o.DeliveredAt,
		CompletedAt:        o.CompletedAt,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func ToOrderResponses(orders []*entity.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}

type OrderDetailsResponse struct {
	OrderResponse
	Milestones   []MilestoneResponse   `json:"milestones"`
	Transactions []TransactionResponse `json:"transactions"`
	Disputes     []DisputeResponse     `json:"disputes"`
}

func ToOrderDetailsResponse(d *order.OrderDetails) OrderDetailsResponse {
	resp := OrderDetailsResponse{
		OrderResponse: ToOrderResponse(d.Order),
		Milestones:    ToMilestoneResponses(d.Milestones),
		Transactions:  ToTransactionResponses(d.Transactions),
		Disputes:      make([]DisputeResponse, 0, len(d.Disputes)),
	}
	for _, disp := range d.Disputes {
		resp.Disputes = append(resp.Disputes, ToDisputeResponse(disp))
	}
	return resp
}

type TransactionResponse struct {
	ID           uuid.UUID  `json:"id"`
	OrderID      uuid.UUID  `json:"order_id"`
	MilestoneID  *uuid.UUID `json:"milestone_id"`
	FreelancerID uuid.UUID  `json:"freelancer_id"`
	Type         string     `json:"type"`
	Amount       float64    `json:"amount"`
	Fee          float64    `json:"fee"`
	NetAmount    float64    `json:"net_amount"`
	Currency     string     `json:"currency"`
	Description  string     `json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ToTransactionResponses(txs []*entity.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, TransactionResponse{
			ID:           t.ID,
			OrderID:      t.OrderID,
			MilestoneID:  t.MilestoneID,
			FreelancerID: t.FreelancerID,
			Type:         string(t.Type),
			Amount:       t.Amount,
			Fee:          t.Fee,
			NetAmount:    t.NetAmount,
			Currency:     t.Currency,
			Description:  t.Description,
			CreatedAt:    t.CreatedAt,
		})
	}
	return out
}
