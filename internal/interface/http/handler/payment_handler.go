package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-orders/internal/interface/http/response"
	"github.com/ignatzorin/freelance-orders/internal/logger"
	"github.com/ignatzorin/freelance-orders/internal/payment"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
)

const maxWebhookBody = 64 << 10

// PaymentHandler принимает вебхуки платёжного провайдера.
type PaymentHandler struct {
	events *order.HandlePaymentEventUseCase
	secret string
}

func NewPaymentHandler(events *order.HandlePaymentEventUseCase, secret string) *PaymentHandler {
	return &PaymentHandler{events: events, secret: secret}
}

// Webhook POST /api/payments/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(c, "не удалось прочитать тело запроса")
		return
	}
	if !payment.VerifySignature(h.secret, body, c.GetHeader(payment.SignatureHeader)) {
		response.Unauthorized(c, "неверная подпись")
		return
	}

	var event payment.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		response.BadRequest(c, "некорректное событие")
		return
	}

	res, err := h.events.Execute(c.Request.Context(), event)
	if err != nil {
		response.Error(c, err)
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"event_id": event.ID,
		"type":     event.Type,
		"order_id": event.OrderID,
		"applied":  res.Applied,
	}).Info("payments: вебхук обработан")

	c.JSON(http.StatusOK, response.Response{
		Success: true,
		Data:    gin.H{"order_id": res.Order.ID, "status": res.Order.Status, "applied": res.Applied},
	})
}
