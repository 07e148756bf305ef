package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/housing"
	domainHousing "github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// RoommateHandler handles roommate requests between students
type RoommateHandler struct {
	BaseHandler
	roommateService *housing.RoommateService
}

// NewRoommateHandler creates a new roommate handler
func NewRoommateHandler(roommateService *housing.RoommateService) *RoommateHandler {
	return &RoommateHandler{roommateService: roommateService}
}

// Send godoc
// @ID           sendRoommateRequest
// @Summary      Ask another student to share a room
// @Tags         roommates
// @Accept       json
// @Produce      json
// @Param        request body SendRoommateRequest true "Request"
// @Success      201 {object} dto.Response{data=housing.RoommateRequestDTO}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /roommate-requests [post]
func (h *RoommateHandler) Send(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req SendRoommateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	roomID, ok := h.optionalID(c, "room_id", req.RoomID)
	if !ok {
		return
	}
	result, err := h.roommateService.Send(c.Request.Context(), actor, housing.SendRoommateRequestInput{
		TargetID: uuid.MustParse(req.TargetID),
		RoomID:   roomID,
		Message:  req.Message,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// List godoc
// @ID           listRoommateRequests
// @Summary      List roommate requests
// @Description  Students see requests they sent or received, administrators see all
// @Tags         roommates
// @Produce      json
// @Param        box query string false "sent or received"
// @Param        status query string false "Request status"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]housing.RoommateRequestDTO}
// @Security     BearerAuth
// @Router       /roommate-requests [get]
func (h *RoommateHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListRoommateRequestsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.roommateService.List(c.Request.Context(), actor, housing.ListRoommateRequestsInput{
		Box:      q.Box,
		Status:   optionalEnum[domainHousing.RoommateRequestStatus](q.Status),
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Get godoc
// @ID           getRoommateRequest
// @Summary      Get a roommate request
// @Tags         roommates
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} dto.Response{data=housing.RoommateRequestDTO}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /roommate-requests/{id} [get]
func (h *RoommateHandler) Get(c *gin.Context) {
	h.act(c, h.roommateService.Get)
}

// Accept godoc
// @ID           acceptRoommateRequest
// @Summary      Accept a roommate request
// @Tags         roommates
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} dto.Response{data=housing.RoommateRequestDTO}
// @Failure      403 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /roommate-requests/{id}/accept [post]
func (h *RoommateHandler) Accept(c *gin.Context) {
	h.act(c, h.roommateService.Accept)
}

// Reject godoc
// @ID           rejectRoommateRequest
// @Summary      Reject a roommate request
// @Tags         roommates
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} dto.Response{data=housing.RoommateRequestDTO}
// @Failure      403 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /roommate-requests/{id}/reject [post]
func (h *RoommateHandler) Reject(c *gin.Context) {
	h.act(c, h.roommateService.Reject)
}

// Cancel godoc
// @ID           cancelRoommateRequest
// @Summary      Withdraw a roommate request
// @Tags         roommates
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} dto.Response{data=housing.RoommateRequestDTO}
// @Failure      403 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /roommate-requests/{id}/cancel [post]
func (h *RoommateHandler) Cancel(c *gin.Context) {
	h.act(c, h.roommateService.Cancel)
}

func (h *RoommateHandler) act(c *gin.Context, fn func(context.Context, shared.Actor, uuid.UUID) (*housing.RoommateRequestDTO, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
