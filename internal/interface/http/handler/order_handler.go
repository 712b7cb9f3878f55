package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/dto"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/response"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
)

type OrderHandler struct {
	getOrder        *order.GetOrderUseCase
	listOrders      *order.ListOrdersUseCase
	deliver         *order.DeliverOrderUseCase
	requestRevision *order.RequestRevisionUseCase
	approveDelivery *order.ApproveDeliveryUseCase
}

func NewOrderHandler(
	getOrder *order.GetOrderUseCase,
	listOrders *order.ListOrdersUseCase,
	deliver *order.DeliverOrderUseCase,
	requestRevision *order.RequestRevisionUseCase,
	approveDelivery *order.ApproveDeliveryUseCase,
) *OrderHandler {
	return &OrderHandler{
		getOrder:        getOrder,
		listOrders:      listOrders,
		deliver:         deliver,
		requestRevision: requestRevision,
		approveDelivery: approveDelivery,
	}
}

// Get GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	details, err := h.getOrder.Execute(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderDetailsResponse(details))
}

// List GET /api/orders?status=&limit=&offset=
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	limit, offset := pagination(c)

	orders, total, err := h.listOrders.Execute(c.Request.Context(), order.ListOrdersInput{
		Actor:  actor,
		Status: c.Query("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dto.ToOrderResponses(orders), total, limit, offset)
}

// Deliver POST /api/orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, h.deliver.Execute)
}

// RequestRevision POST /api/orders/:id/revision
func (h *OrderHandler) RequestRevision(c *gin.Context) {
	h.transition(c, h.requestRevision.Execute)
}

// Approve POST /api/orders/:id/approve
func (h *OrderHandler) Approve(c *gin.Context) {
	h.transition(c, h.approveDelivery.Execute)
}

type orderAction func(ctx context.Context, in order.ActionInput) (*entity.Order, error)

func (h *OrderHandler) transition(c *gin.Context, action orderAction) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	o, err := action(c.Request.Context(), order.ActionInput{OrderID: id, Actor: actor})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrderResponse(o))
}
