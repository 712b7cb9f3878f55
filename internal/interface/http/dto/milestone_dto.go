package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/usecase/milestone"
)

type MilestoneItem struct {
	Title  string  `json:"title" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

type CreateMilestonesRequest struct {
	Milestones []MilestoneItem `json:"milestones" binding:"required,min=1,dive"`
}

func (r CreateMilestonesRequest) Drafts() []entity.MilestoneDraft {
	drafts := make([]entity.MilestoneDraft, 0, len(r.Milestones))
	for _, m := range r.Milestones {
		drafts = append(drafts, entity.MilestoneDraft{Title: m.Title, Amount: m.Amount})
	}
	return drafts
}

type MilestoneResponse struct {
	ID          uuid.UUID  `json:"id"`
	OrderID     uuid.UUID  `json:"order_id"`
	Title       string     `json:"title"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	SortOrder   int        `json:"sort_order"`
	DeliveredAt *time.Time `json:"delivered_at"`
	ApprovedAt  *time.Time `json:"approved_at"`
}

func ToMilestoneResponse(m *entity.Milestone) MilestoneResponse {
	return MilestoneResponse{
		ID:          m.ID,
		OrderID:     m.OrderID,
		Title:       m.Title,
		Amount:      m.Amount,
		Status:      string(m.Status),
		SortOrder:   m.SortOrder,
		DeliveredAt: m.DeliveredAt,
		ApprovedAt:  m.ApprovedAt,
	}
}

func ToMilestoneResponses(ms []*entity.Milestone) []MilestoneResponse {
	out := make([]MilestoneResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, ToMilestoneResponse(m))
	}
	return out
}

type ApproveMilestoneResponse struct {
	Order          OrderResponse        `json:"order"`
	Milestone      MilestoneResponse    `json:"milestone"`
	Next           *MilestoneResponse   `json:"next_milestone"`
	Transaction    *TransactionResponse `json:"transaction"`
	OrderCompleted bool                 `json:"order_completed"`
}

func ToApproveMilestoneResponse(r *milestone.ApproveMilestoneResult) ApproveMilestoneResponse {
	resp := ApproveMilestoneResponse{
		Order:          ToOrderResponse(r.Order),
		Milestone:      ToMilestoneResponse(r.Milestone),
		OrderCompleted: r.OrderCompleted,
	}
	if r.Next != nil {
		next := ToMilestoneResponse(r.Next)
		resp.Next = &next
	}
	if r.Transaction != nil {
		tx := ToTransactionResponses([]*entity.Transaction{r.Transaction})[0]
		resp.Transaction = &tx
	}
	return resp
}
