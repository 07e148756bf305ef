package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/welfare"
	domainWelfare "github.com/hostelhub/backend/internal/domain/welfare"
)

// ComplaintHandler handles complaint requests
type ComplaintHandler struct {
	BaseHandler
	complaintService *welfare.ComplaintService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *welfare.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{complaintService: complaintService}
}

// List godoc
// @ID           listComplaints
// @Summary      List complaints
// @Description  Students see their own complaints. Administrators see all of them.
// @Tags         complaints
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        sort_by query string false "created_at, updated_at, priority or status"
// @Param        sort_order query string false "asc or desc"
// @Param        search query string false "Title or description"
// @Param        student_id query string false "Student ID (admin)"
// @Param        room_id query string false "Room ID"
// @Param        assigned_to query string false "Assignee ID"
// @Param        status query string false "Status"
// @Param        category query string false "Category"
// @Param        priority query string false "Priority"
// @Param        from query string false "Filed on or after (YYYY-MM-DD)"
// @Param        to query string false "Filed on or before (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]welfare.ComplaintDTO}
// @Security     BearerAuth
// @Router       /complaints [get]
func (h *ComplaintHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListComplaintsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	studentID, ok := h.optionalID(c, "student_id", q.StudentID)
	if !ok {
		return
	}
	roomID, ok := h.optionalID(c, "room_id", q.RoomID)
	if !ok {
		return
	}
	assignedTo, ok := h.optionalID(c, "assigned_to", q.AssignedTo)
	if !ok {
		return
	}
	from, _ := optionalDate(q.From)
	to, _ := optionalDate(q.To)
	page, err := h.complaintService.List(c.Request.Context(), actor, welfare.ListComplaintsInput{
		StudentID:  studentID,
		RoomID:     roomID,
		AssignedTo: assignedTo,
		Status:     optionalEnum[domainWelfare.ComplaintStatus](q.Status),
		Category:   optionalEnum[domainWelfare.ComplaintCategory](q.Category),
		Priority:   optionalEnum[domainWelfare.ComplaintPriority](q.Priority),
		Search:     q.Search,
		From:       from,
		To:         to,
		Page:       q.Page,
		PageSize:   q.PageSize,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Get godoc
// @ID           getComplaint
// @Summary      Get a complaint
// @Tags         complaints
// @Produce      json
// @Param        id path string true "Complaint ID"
// @Success      200 {object} dto.Response{data=welfare.ComplaintDTO}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /complaints/{id} [get]
func (h *ComplaintHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	complaint, err := h.complaintService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, complaint)
}

// Create godoc
// @ID           createComplaint
// @Summary      File a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        request body CreateComplaintRequest true "Complaint"
// @Success      201 {object} dto.Response{data=welfare.ComplaintDTO}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /complaints [post]
func (h *ComplaintHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateComplaintRequest
	if !h.bindJSON(c, &req) {
		return
	}
	roomID, ok := h.optionalID(c, "room_id", req.RoomID)
	if !ok {
		return
	}
	complaint, err := h.complaintService.Create(c.Request.Context(), actor, welfare.CreateComplaintInput{
		RoomID:      roomID,
		Category:    domainWelfare.ComplaintCategory(req.Category),
		Title:       req.Title,
		Description: req.Description,
		Priority:    domainWelfare.ComplaintPriority(req.Priority),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, complaint)
}

// Update godoc
// @ID           updateComplaint
// @Summary      Edit a complaint
// @Description  Students may only edit their own open complaints
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        id path string true "Complaint ID"
// @Param        request body UpdateComplaintRequest true "Changes"
// @Success      200 {object} dto.Response{data=welfare.ComplaintDTO}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /complaints/{id} [put]
func (h *ComplaintHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateComplaintRequest
	if !h.bindJSON(c, &req) {
		return
	}

	input := welfare.UpdateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.RoomID != nil {
		roomID := uuid.MustParse(*req.RoomID)
		input.RoomID = &roomID
	}
	if req.Category != nil {
		input.Category = optionalEnum[domainWelfare.ComplaintCategory](*req.Category)
	}
	if req.Priority != nil {
		input.Priority = optionalEnum[domainWelfare.ComplaintPriority](*req.Priority)
	}
	complaint, err := h.complaintService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, complaint)
}

// Delete godoc
// @ID           deleteComplaint
// @Summary      Withdraw a complaint
// @Tags         complaints
// @Param        id path string true "Complaint ID"
// @Success      204
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /complaints/{id} [delete]
func (h *ComplaintHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.complaintService.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ChangeStatus godoc
// @ID           changeComplaintStatus
// @Summary      Change complaint status
// @Description  RESOLVED requires a resolution. The student is notified.
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        id path string true "Complaint ID"
// @Param        request body ComplaintStatusRequest true "New status"
// @Success      200 {object} dto.Response{data=welfare.ComplaintDTO}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /complaints/{id}/status [put]
func (h *ComplaintHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req ComplaintStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	complaint, err := h.complaintService.ChangeStatus(c.Request.Context(), id, welfare.ChangeComplaintStatusInput{
		Status:     domainWelfare.ComplaintStatus(req.Status),
		Resolution: req.Resolution,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, complaint)
}

// Assign godoc
// @ID           assignComplaint
// @Summary      Assign a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Param        id path string true "Complaint ID"
// @Param        request body AssignComplaintRequest true "Assignee"
// @Success      200 {object} dto.Response{data=welfare.ComplaintDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /complaints/{id}/assign [put]
func (h *ComplaintHandler) Assign(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req AssignComplaintRequest
	if !h.bindJSON(c, &req) {
		return
	}
	complaint, err := h.complaintService.Assign(c.Request.Context(), id, uuid.MustParse(req.AssigneeID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, complaint)
}

// Reopen godoc
// @ID           reopenComplaint
// @Summary      Reopen a resolved complaint
// @Tags         complaints
// @Produce      json
// @Param        id path string true "Complaint ID"
// @Success      200 {object} dto.Response{data=welfare.ComplaintDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /complaints/{id}/reopen [post]
func (h *ComplaintHandler) Reopen(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	complaint, err := h.complaintService.Reopen(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, complaint)
}

// UploadAttachment godoc
// @ID           uploadComplaintAttachment
// @Summary      Attach a photo or document
// @Tags         complaints
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Complaint ID"
// @Param        file formData file true "Attachment"
// @Success      201 {object} dto.Response{data=welfare.ComplaintDTO}
// @Failure      400 {object} dto.Response
// @Failure      413 {object} dto.Response
// @Security     BearerAuth
// @Router       /complaints/{id}/attachments [post]
func (h *ComplaintHandler) UploadAttachment(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	file, ok := h.readFormFile(c, "file")
	if !ok {
		return
	}
	complaint, err := h.complaintService.UploadAttachment(c.Request.Context(), actor, id, welfare.UploadInput{
		FileName:    file.Name,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, complaint)
}

// AttachmentURL godoc
// @ID           complaintAttachmentURL
// @Summary      Get a download link for an attachment
// @Tags         complaints
// @Produce      json
// @Param        id path string true "Complaint ID"
// @Param        key query string true "Attachment key"
// @Success      200 {object} dto.Response{data=welfare.AttachmentURL}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /complaints/{id}/attachments/url [get]
func (h *ComplaintHandler) AttachmentURL(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	key := c.Query("key")
	if key == "" {
		h.invalidParam(c, "key", "key is required")
		return
	}
	link, err := h.complaintService.AttachmentURL(c.Request.Context(), actor, id, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, link)
}
