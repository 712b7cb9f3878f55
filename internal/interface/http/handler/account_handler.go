package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/interface/http/dto"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/response"
	"github.com/ignatzorin/freelance-orders/internal/usecase/ledger"
	"github.com/ignatzorin/freelance-orders/internal/usecase/notification"
)

// AccountHandler личные данные пользователя: история выплат и уведомления.
type AccountHandler struct {
	transactions      *ledger.ListTransactionsUseCase
	listNotifications *notification.ListNotificationsUseCase
	markRead          *notification.MarkNotificationReadUseCase
}

func NewAccountHandler(
	transactions *ledger.ListTransactionsUseCase,
	listNotifications *notification.ListNotificationsUseCase,
	markRead *notification.MarkNotificationReadUseCase,
) *AccountHandler {
	return &AccountHandler{transactions: transactions, listNotifications: listNotifications, markRead: markRead}
}

// Transactions GET /api/transactions?freelancer_id=
// Без freelancer_id возвращается собственная история.
func (h *AccountHandler) Transactions(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	freelancerID := actor.UserID
	if raw := c.Query("freelancer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "неверный формат freelancer_id")
			return
		}
		freelancerID = id
	}

	txs, total, err := h.transactions.Execute(c.Request.Context(), ledger.ListTransactionsInput{
		Actor:        actor,
		FreelancerID: freelancerID,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dto.ToTransactionResponses(txs), total, limit, offset)
}

// Notifications GET /api/notifications
func (h *AccountHandler) Notifications(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	items, total, err := h.listNotifications.Execute(c.Request.Context(), actor.UserID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dto.ToNotificationResponses(items), total, limit, offset)
}

// MarkNotificationRead POST /api/notifications/:id/read
func (h *AccountHandler) MarkNotificationRead(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.markRead.Execute(c.Request.Context(), id, actor.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": id, "is_read": true})
}
