package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-orders/internal/interface/http/dto"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/response"
	"github.com/ignatzorin/freelance-orders/internal/usecase/milestone"
)

type MilestoneHandler struct {
	create  *milestone.CreateMilestonesUseCase
	list    *milestone.ListMilestonesUseCase
	deliver *milestone.DeliverMilestoneUseCase
	approve *milestone.ApproveMilestoneUseCase
}

func NewMilestoneHandler(
	create *milestone.CreateMilestonesUseCase,
	list *milestone.ListMilestonesUseCase,
	deliver *milestone.DeliverMilestoneUseCase,
	approve *milestone.ApproveMilestoneUseCase,
) *MilestoneHandler {
	return &MilestoneHandler{create: create, list: list, deliver: deliver, approve: approve}
}

// Create POST /api/orders/:id/milestones
func (h *MilestoneHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateMilestonesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	milestones, err := h.create.Execute(c.Request.Context(), milestone.CreateMilestonesInput{
		OrderID: orderID,
		Actor:   actor,
		Items:   req.Drafts(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToMilestoneResponses(milestones))
}

// List GET /api/orders/:id/milestones
func (h *MilestoneHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	milestones, err := h.list.Execute(c.Request.Context(), orderID, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToMilestoneResponses(milestones))
}

// Deliver POST /api/orders/:id/milestones/:milestoneId/deliver
func (h *MilestoneHandler) Deliver(c *gin.Context) {
	in, ok := milestoneInput(c)
	if !ok {
		return
	}

	m, err := h.deliver.Execute(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToMilestoneResponse(m))
}

// Approve POST /api/orders/:id/milestones/:milestoneId/approve
func (h *MilestoneHandler) Approve(c *gin.Context) {
	in, ok := milestoneInput(c)
	if !ok {
		return
	}

	res, err := h.approve.Execute(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToApproveMilestoneResponse(res))
}

func milestoneInput(c *gin.Context) (milestone.MilestoneInput, bool) {
	actor, ok := currentActor(c)
	if !ok {
		return milestone.MilestoneInput{}, false
	}
	orderID, ok := uuidParam(c, "id")
	if !ok {
		return milestone.MilestoneInput{}, false
	}
	milestoneID, ok := uuidParam(c, "milestoneId")
	if !ok {
		return milestone.MilestoneInput{}, false
	}
	return milestone.MilestoneInput{OrderID: orderID, MilestoneID: milestoneID, Actor: actor}, true
}
