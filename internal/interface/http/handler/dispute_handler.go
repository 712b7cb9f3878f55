package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/freelance-orders/internal/interface/http/dto"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/response"
	"github.com/ignatzorin/freelance-orders/internal/usecase/dispute"
)

type DisputeHandler struct {
	open           *dispute.OpenDisputeUseCase
	get            *dispute.GetDisputeUseCase
	resolve        *dispute.ResolveDisputeUseCase
	withdraw       *dispute.WithdrawDisputeUseCase
	attachEvidence *dispute.AttachEvidenceUseCase
	maxUploadBytes int64
}

func NewDisputeHandler(
	open *dispute.OpenDisputeUseCase,
	get *dispute.GetDisputeUseCase,
	resolve *dispute.ResolveDisputeUseCase,
	withdraw *dispute.WithdrawDisputeUseCase,
	attachEvidence *dispute.AttachEvidenceUseCase,
	maxUploadMB int64,
) *DisputeHandler {
	return &DisputeHandler{
		open:           open,
		get:            get,
		resolve:        resolve,
		withdraw:       withdraw,
		attachEvidence: attachEvidence,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}
}

// Open POST /api/disputes/:id, где id - идентификатор заказа
func (h *DisputeHandler) Open(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.OpenDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	d, err := h.open.Execute(c.Request.Context(), dispute.OpenDisputeInput{
		OrderID:     orderID,
		Actor:       actor,
		Reason:      req.Reason,
		Description: req.Description,
		Evidence:    req.Evidence,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToDisputeResponse(d))
}

// Get GET /api/disputes/:id
func (h *DisputeHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	d, err := h.get.Execute(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToDisputeResponse(d))
}

// Resolve POST /api/disputes/:id/resolve
func (h *DisputeHandler) Resolve(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req dto.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.resolve.Execute(c.Request.Context(), dispute.ResolveDisputeInput{
		DisputeID:  id,
		Actor:      actor,
		Resolution: req.Resolution,
		Note:       req.ResolutionNote,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToResolveDisputeResponse(res))
}

// Withdraw POST /api/disputes/:id/withdraw
func (h *DisputeHandler) Withdraw(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	d, err := h.withdraw.Execute(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToDisputeResponse(d))
}

// UploadEvidence POST /api/disputes/:id/evidence (multipart, поле file)
func (h *DisputeHandler) UploadEvidence(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, response.Response{
				Success: false,
				Error:   &response.ErrorInfo{Code: "FILE_TOO_LARGE", Message: "файл превышает допустимый размер"},
			})
			return
		}
		response.BadRequest(c, "файл обязателен")
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, response.Response{
			Success: false,
			Error:   &response.ErrorInfo{Code: "FILE_TOO_LARGE", Message: "файл превышает допустимый размер"},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "не удалось прочитать файл")
		return
	}
	defer file.Close()

	d, err := h.attachEvidence.Execute(c.Request.Context(), dispute.AttachEvidenceInput{
		DisputeID: id,
		Actor:     actor,
		FileName:  fileHeader.Filename,
		Content:   file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToDisputeResponse(d))
}
