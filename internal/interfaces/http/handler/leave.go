package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/welfare"
	"github.com/hostelhub/backend/internal/domain/shared"
	domainWelfare "github.com/hostelhub/backend/internal/domain/welfare"
)

// LeaveHandler handles leave applications
type LeaveHandler struct {
	BaseHandler
	leaveService *welfare.LeaveService
}

// NewLeaveHandler creates a new leave handler
func NewLeaveHandler(leaveService *welfare.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// Apply godoc
// @ID           applyLeave
// @Summary      Apply for leave
// @Description  Periods may not overlap another pending or approved application
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        request body ApplyLeaveRequest true "Leave period"
// @Success      201 {object} dto.Response{data=welfare.LeaveDTO}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /leaves [post]
func (h *LeaveHandler) Apply(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req ApplyLeaveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	from, _ := time.Parse(dateLayout, req.FromDate)
	to, _ := time.Parse(dateLayout, req.ToDate)
	if to.Before(from) {
		h.invalidParam(c, "to_date", "must not be before from_date")
		return
	}

	leave, err := h.leaveService.Apply(c.Request.Context(), actor, welfare.ApplyLeaveInput{
		FromDate:     from,
		ToDate:       to,
		Reason:       req.Reason,
		Destination:  req.Destination,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, leave)
}

// List godoc
// @ID           listLeaves
// @Summary      List leave applications
// @Tags         leaves
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        student_id query string false "Student ID (admin)"
// @Param        status query string false "Status"
// @Param        active_on query string false "Applications covering this day (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]welfare.LeaveDTO}
// @Security     BearerAuth
// @Router       /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListLeavesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	studentID, ok := h.optionalID(c, "student_id", q.StudentID)
	if !ok {
		return
	}
	activeOn, _ := optionalDate(q.ActiveOn)
	page, err := h.leaveService.List(c.Request.Context(), actor, welfare.ListLeavesInput{
		StudentID: studentID,
		Status:    optionalEnum[domainWelfare.LeaveStatus](q.Status),
		ActiveOn:  activeOn,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Get godoc
// @ID           getLeave
// @Summary      Get a leave application
// @Tags         leaves
// @Produce      json
// @Param        id path string true "Leave ID"
// @Success      200 {object} dto.Response{data=welfare.LeaveDTO}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /leaves/{id} [get]
func (h *LeaveHandler) Get(c *gin.Context) {
	h.act(c, h.leaveService.Get)
}

// Cancel godoc
// @ID           cancelLeave
// @Summary      Cancel a pending leave application
// @Tags         leaves
// @Produce      json
// @Param        id path string true "Leave ID"
// @Success      200 {object} dto.Response{data=welfare.LeaveDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /leaves/{id}/cancel [post]
func (h *LeaveHandler) Cancel(c *gin.Context) {
	h.act(c, h.leaveService.Cancel)
}

// Approve godoc
// @ID           approveLeave
// @Summary      Approve a leave application
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave ID"
// @Param        request body ReviewLeaveRequest false "Reviewer note"
// @Success      200 {object} dto.Response{data=welfare.LeaveDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /leaves/{id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.review(c, h.leaveService.Approve)
}

// Reject godoc
// @ID           rejectLeave
// @Summary      Reject a leave application
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Param        id path string true "Leave ID"
// @Param        request body ReviewLeaveRequest false "Reviewer note"
// @Success      200 {object} dto.Response{data=welfare.LeaveDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /leaves/{id}/reject [post]
func (h *LeaveHandler) Reject(c *gin.Context) {
	h.review(c, h.leaveService.Reject)
}

func (h *LeaveHandler) act(c *gin.Context, fn func(context.Context, shared.Actor, uuid.UUID) (*welfare.LeaveDTO, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	leave, err := fn(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leave)
}

func (h *LeaveHandler) review(c *gin.Context, fn func(context.Context, shared.Actor, uuid.UUID, string) (*welfare.LeaveDTO, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ReviewLeaveRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	leave, err := fn(c.Request.Context(), actor, id, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, leave)
}
