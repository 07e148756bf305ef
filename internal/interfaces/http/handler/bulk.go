package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	bulkapp "github.com/hostelhub/backend/internal/application/bulk"
	"github.com/hostelhub/backend/internal/domain/bulk"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// BulkHandler runs administrator batch operations. Every operation answers
// per item results and is recorded in the history.
type BulkHandler struct {
	BaseHandler
	service *bulkapp.Service
}

// NewBulkHandler creates a new bulk handler
func NewBulkHandler(service *bulkapp.Service) *BulkHandler {
	return &BulkHandler{service: service}
}

// ImportStudents godoc
// @ID           bulkImportStudents
// @Summary      Import students from CSV
// @Description  Columns: email, name, password, phone, student_number, gender,
// @Description  guardian_name, guardian_phone. Valid rows are created even when others fail.
// @Tags         bulk
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV file"
// @Success      200 {object} dto.Response{data=bulkapp.ActionResult}
// @Failure      400 {object} dto.Response
// @Failure      413 {object} dto.Response
// @Security     BearerAuth
// @Router       /bulk/students/import [post]
func (h *BulkHandler) ImportStudents(c *gin.Context) {
	h.importFile(c, h.service.ImportStudents)
}

// ImportRooms godoc
// @ID           bulkImportRooms
// @Summary      Import rooms from CSV
// @Description  Columns: number, block, floor, type, capacity, monthly_rent, gender, amenities
// @Tags         bulk
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV file"
// @Success      200 {object} dto.Response{data=bulkapp.ActionResult}
// @Failure      400 {object} dto.Response
// @Failure      413 {object} dto.Response
// @Security     BearerAuth
// @Router       /bulk/rooms/import [post]
func (h *BulkHandler) ImportRooms(c *gin.Context) {
	h.importFile(c, h.service.ImportRooms)
}

// GenerateRent godoc
// @ID           bulkGenerateRent
// @Summary      Charge monthly rent
// @Description  Creates one RENT payment per active booking. Bookings already
// @Description  charged for the month are skipped.
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body GenerateRentRequest false "Billing month"
// @Success      200 {object} dto.Response{data=bulkapp.ActionResult}
// @Security     BearerAuth
// @Router       /bulk/payments/generate-rent [post]
func (h *BulkHandler) GenerateRent(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req GenerateRentRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.GenerateRent(c.Request.Context(), actor, req.Month)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UpdatePaymentStatus godoc
// @ID           bulkPaymentStatus
// @Summary      Change the status of many payments
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body BulkPaymentStatusRequest true "Payments"
// @Success      200 {object} dto.Response{data=bulkapp.ActionResult}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /bulk/payments/status [post]
func (h *BulkHandler) UpdatePaymentStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req BulkPaymentStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.UpdatePaymentStatus(c.Request.Context(), actor, bulkapp.PaymentStatusInput{
		IDs:       req.IDs,
		Status:    finance.PaymentStatus(req.Status),
		Method:    finance.PaymentMethod(req.Method),
		Reference: req.Reference,
		Notes:     req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ReviewLeaves godoc
// @ID           bulkLeaveReview
// @Summary      Approve or reject many leave applications
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body BulkLeaveReviewRequest true "Applications"
// @Success      200 {object} dto.Response{data=bulkapp.ActionResult}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /bulk/leaves/review [post]
func (h *BulkHandler) ReviewLeaves(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req BulkLeaveReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.ReviewLeaves(c.Request.Context(), actor, bulkapp.LeaveReviewInput{
		IDs:     req.IDs,
		Approve: *req.Approve,
		Note:    req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// CancelBookings godoc
// @ID           bulkCancelBookings
// @Summary      Cancel many bookings
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body BulkCancelBookingsRequest true "Bookings"
// @Success      200 {object} dto.Response{data=bulkapp.ActionResult}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /bulk/bookings/cancel [post]
func (h *BulkHandler) CancelBookings(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req BulkCancelBookingsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.CancelBookings(c.Request.Context(), actor, req.IDs, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// SetUserStatus godoc
// @ID           bulkUserStatus
// @Summary      Activate or deactivate many accounts
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body BulkUserStatusRequest true "Users"
// @Success      200 {object} dto.Response{data=bulkapp.ActionResult}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /bulk/users/status [post]
func (h *BulkHandler) SetUserStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req BulkUserStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.SetUserStatus(c.Request.Context(), actor, req.IDs, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Notify godoc
// @ID           bulkNotify
// @Summary      Notify many users
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request body BulkNotificationRequest true "Notification"
// @Success      200 {object} dto.Response{data=bulkapp.ActionResult}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /bulk/notifications [post]
func (h *BulkHandler) Notify(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req BulkNotificationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.Notify(c.Request.Context(), actor, bulkapp.NotificationInput{
		UserIDs: req.UserIDs,
		Type:    notification.Type(req.Type),
		Title:   req.Title,
		Message: req.Message,
		Link:    req.Link,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// History godoc
// @ID           bulkHistory
// @Summary      List bulk operations
// @Tags         bulk
// @Produce      json
// @Param        action query string false "Action"
// @Param        status query string false "processing, completed, partial or failed"
// @Param        performed_by query string false "Administrator ID"
// @Param        from query string false "Started on or after (YYYY-MM-DD)"
// @Param        to query string false "Started on or before (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]bulkapp.OperationDTO}
// @Security     BearerAuth
// @Router       /bulk/operations [get]
func (h *BulkHandler) History(c *gin.Context) {
	var q ListBulkOperationsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	performedBy, ok := h.optionalID(c, "performed_by", q.PerformedBy)
	if !ok {
		return
	}
	from, _ := optionalDate(q.From)
	to, _ := optionalDate(q.To)
	page, err := h.service.History(c.Request.Context(), bulkapp.ListOperationsInput{
		Action:      optionalEnum[bulk.ActionType](q.Action),
		Status:      optionalEnum[bulk.OperationStatus](q.Status),
		PerformedBy: performedBy,
		From:        from,
		To:          to,
		Page:        q.Page,
		PageSize:    q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Operation godoc
// @ID           bulkOperation
// @Summary      Get a bulk operation
// @Tags         bulk
// @Produce      json
// @Param        id path string true "Operation ID"
// @Success      200 {object} dto.Response{data=bulkapp.OperationDTO}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /bulk/operations/{id} [get]
func (h *BulkHandler) Operation(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	op, err := h.service.Operation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, op)
}

func (h *BulkHandler) importFile(c *gin.Context, fn func(context.Context, shared.Actor, bulkapp.ImportInput) (*bulkapp.ActionResult, error)) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	file, ok := h.readFormFile(c, "file")
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), actor, bulkapp.ImportInput{FileName: file.Name, Data: file.Data})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
