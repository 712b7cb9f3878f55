package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/interface/http/dto"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/response"
	"github.com/ignatzorin/freelance-orders/internal/usecase/bid"
	"github.com/ignatzorin/freelance-orders/internal/usecase/project"
)

type ProjectHandler struct {
	createProject *project.CreateProjectUseCase
	getProject    *project.GetProjectUseCase
	closeProject  *project.CloseProjectUseCase
	placeBid      *bid.PlaceBidUseCase
	selectWinner  *bid.SelectWinnerUseCase
	listBids      *bid.ListBidsUseCase
}

func NewProjectHandler(
	createProject *project.CreateProjectUseCase,
	getProject *project.GetProjectUseCase,
	closeProject *project.CloseProjectUseCase,
	placeBid *bid.PlaceBidUseCase,
	selectWinner *bid.SelectWinnerUseCase,
	listBids *bid.ListBidsUseCase,
) *ProjectHandler {
	return &ProjectHandler{
		createProject: createProject,
		getProject:    getProject,
		closeProject:  closeProject,
		placeBid:      placeBid,
		selectWinner:  selectWinner,
		listBids:      listBids,
	}
}

// Create POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.createProject.Execute(c.Request.Context(), project.CreateProjectInput{
		Actor:       actor,
		Title:       req.Title,
		Description: req.Description,
		Currency:    req.Currency,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToProjectResponse(p))
}

// Get GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	p, err := h.getProject.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToProjectResponse(p))
}

// Close POST /api/projects/:id/close
func (h *ProjectHandler) Close(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	p, err := h.closeProject.Execute(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToProjectResponse(p))
}

// PlaceBid POST /api/projects/:id/bid
func (h *ProjectHandler) PlaceBid(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	b, err := h.placeBid.Execute(c.Request.Context(), bid.PlaceBidInput{
		ProjectID:    id,
		Actor:        actor,
		Amount:       req.Amount,
		Currency:     req.Currency,
		DeliveryDays: req.DeliveryDays,
		Pitch:        req.Pitch,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToBidResponse(b))
}

// ListBids GET /api/projects/:id/bids
func (h *ProjectHandler) ListBids(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	bids, err := h.listBids.Execute(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToBidResponses(bids))
}

// Select POST /api/projects/:id/select
func (h *ProjectHandler) Select(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.SelectBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.selectWinner.Execute(c.Request.Context(), bid.SelectWinnerInput{
		ProjectID: id,
		BidID:     uuid.MustParse(req.BidID),
		Actor:     actor,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.SelectWinnerResponse{
		Project: dto.ToProjectResponse(res.Project),
		Bid:     dto.ToBidResponse(res.Bid),
		Order:   dto.ToOrderResponse(res.Order),
	})
}
