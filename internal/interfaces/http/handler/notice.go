package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/application/community"
	domainCommunity "github.com/hostelhub/backend/internal/domain/community"
)

// NoticeHandler handles notice board requests
type NoticeHandler struct {
	BaseHandler
	noticeService *community.NoticeService
}

// NewNoticeHandler creates a new notice handler
func NewNoticeHandler(noticeService *community.NoticeService) *NoticeHandler {
	return &NoticeHandler{noticeService: noticeService}
}

// List godoc
// @ID           listNotices
// @Summary      List notices
// @Description  Pinned notices first, then newest. Users only see notices addressed
// @Description  to everyone or to their role. include_expired is honoured for admins.
// @Tags         notices
// @Produce      json
// @Param        priority query string false "Priority"
// @Param        search query string false "Title or content"
// @Param        include_expired query bool false "Include expired notices (admin)"
// @Param        audience query string false "Audience to list (admin)" Enums(ALL, ADMIN, STUDENT)
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]community.NoticeDTO}
// @Security     BearerAuth
// @Router       /notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListNoticesQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.noticeService.List(c.Request.Context(), actor, community.ListNoticesInput{
		Priority:       optionalEnum[domainCommunity.Priority](q.Priority),
		Audience:       optionalEnum[domainCommunity.Audience](q.Audience),
		Search:         q.Search,
		IncludeExpired: q.IncludeExpired,
		Page:           q.Page,
		PageSize:       q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Get godoc
// @ID           getNotice
// @Summary      Get a notice
// @Tags         notices
// @Produce      json
// @Param        id path string true "Notice ID"
// @Success      200 {object} dto.Response{data=community.NoticeDTO}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /notices/{id} [get]
func (h *NoticeHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	notice, err := h.noticeService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notice)
}

// Create godoc
// @ID           createNotice
// @Summary      Publish a notice
// @Description  The audience is notified
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        request body CreateNoticeRequest true "Notice"
// @Success      201 {object} dto.Response{data=community.NoticeDTO}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /notices [post]
func (h *NoticeHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateNoticeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	notice, err := h.noticeService.Create(c.Request.Context(), actor, community.CreateNoticeInput{
		Title:     req.Title,
		Content:   req.Content,
		Audience:  domainCommunity.Audience(req.Audience),
		Priority:  domainCommunity.Priority(req.Priority),
		Pinned:    req.Pinned,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, notice)
}

// Update godoc
// @ID           updateNotice
// @Summary      Update a notice
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        id path string true "Notice ID"
// @Param        request body UpdateNoticeRequest true "Changes"
// @Success      200 {object} dto.Response{data=community.NoticeDTO}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /notices/{id} [put]
func (h *NoticeHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateNoticeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input := community.UpdateNoticeInput{
		Title:        req.Title,
		Content:      req.Content,
		Pinned:       req.Pinned,
		ExpiresAt:    req.ExpiresAt,
		ClearExpires: req.ClearExpires,
	}
	if req.Audience != nil {
		input.Audience = optionalEnum[domainCommunity.Audience](*req.Audience)
	}
	if req.Priority != nil {
		input.Priority = optionalEnum[domainCommunity.Priority](*req.Priority)
	}
	notice, err := h.noticeService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, notice)
}

// Delete godoc
// @ID           deleteNotice
// @Summary      Delete a notice
// @Tags         notices
// @Param        id path string true "Notice ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /notices/{id} [delete]
func (h *NoticeHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.noticeService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
