package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/usecase/dispute"
)

type OpenDisputeRequest struct {
	Reason      string   `json:"reason" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Evidence    []string `json:"evidence"`
}

type ResolveDisputeRequest struct {
	Resolution     string `json:"resolution" binding:"required"`
	ResolutionNote string `json:"resolution_note"`
}

type DisputeResponse struct {
	ID                uuid.UUID  `json:"id"`
	OrderID           uuid.UUID  `json:"order_id"`
	OpenedBy          uuid.UUID  `json:"opened_by"`
	Reason            string     `json:"reason"`
	Description       string     `json:"description"`
	Evidence          []string   `json:"evidence"`
	Status            string     `json:"status"`
	OrderStatusBefore string     `json:"order_status_before"`
	Resolution        *string    `json:"resolution"`
	ResolutionNote    *string    `json:"resolution_note"`
	ResolvedBy        *uuid.UUID `json:"resolved_by"`
	ResolvedAt        *time.Time `json:"resolved_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

func ToDisputeResponse(d *entity.Dispute) DisputeResponse {
	resp := DisputeResponse{
		ID:                d.ID,
		OrderID:           d.OrderID,
		OpenedBy:          d.OpenedBy,
		Reason:            d.Reason,
		Description:       d.Description,
		Evidence:          d.Evidence,
		Status:            string(d.Status),
		OrderStatusBefore: string(d.OrderStatusBefore),
		ResolutionNote:    d.ResolutionNote,
		ResolvedBy:        d.ResolvedBy,
		ResolvedAt:        d.ResolvedAt,
		CreatedAt:         d.CreatedAt,
	}
	if resp.Evidence == nil {
		resp.Evidence = []string{}
	}
	if d.Resolution != nil {
		r := string(*d.Resolution)
		resp.Resolution = &r
	}
	return resp
}

type ResolveDisputeResponse struct {
	Dispute    DisputeResponse      `json:"dispute"`
	Order      OrderResponse        `json:"order"`
	Settlement *TransactionResponse `json:"settlement"`
}

func ToResolveDisputeResponse(r *dispute.ResolveDisputeResult) ResolveDisputeResponse {
	resp := ResolveDisputeResponse{
		Dispute: ToDisputeResponse(r.Dispute),
		Order:   ToOrderResponse(r.Order),
	}
	if r.Settlement != nil {
		tx := ToTransactionResponses([]*entity.Transaction{r.Settlement})[0]
		resp.Settlement = &tx
	}
	return resp
}
