package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/interface/http/dto"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/response"
	"github.com/ignatzorin/freelance-orders/internal/usecase/gig"
)

type GigHandler struct {
	create   *gig.CreateGigUseCase
	get      *gig.GetGigUseCase
	purchase *gig.PurchaseGigUseCase
}

func NewGigHandler(create *gig.CreateGigUseCase, get *gig.GetGigUseCase, purchase *gig.PurchaseGigUseCase) *GigHandler {
	return &GigHandler{create: create, get: get, purchase: purchase}
}

// Create POST /api/gigs
func (h *GigHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	g, err := h.create.Execute(c.Request.Context(), gig.CreateGigInput{
		Actor:    actor,
		Title:    req.Title,
		Currency: req.Currency,
		Packages: req.Drafts(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToGigResponse(g))
}

// Get GET /api/gigs/:id
func (h *GigHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	g, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToGigResponse(g))
}

// Purchase POST /api/gigs/:id/purchase
func (h *GigHandler) Purchase(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.PurchaseGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	o, err := h.purchase.Execute(c.Request.Context(), gig.PurchaseGigInput{
		GigID:     id,
		PackageID: uuid.MustParse(req.PackageID),
		Actor:     actor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToOrderResponse(o))
}
