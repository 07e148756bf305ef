package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/application/community"
	domainCommunity "github.com/hostelhub/backend/internal/domain/community"
)

// EventHandler handles hostel events and registrations
type EventHandler struct {
	BaseHandler
	eventService *community.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *community.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List godoc
// @ID           listEvents
// @Summary      List events
// @Tags         events
// @Produce      json
// @Param        status query string false "SCHEDULED, CANCELLED or COMPLETED"
// @Param        upcoming query bool false "Only events that have not ended"
// @Param        search query string false "Title or location"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]community.EventDTO}
// @Security     BearerAuth
// @Router       /events [get]
func (h *EventHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListEventsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.eventService.List(c.Request.Context(), actor, community.ListEventsInput{
		Status:       optionalEnum[domainCommunity.EventStatus](q.Status),
		UpcomingOnly: q.Upcoming,
		Search:       q.Search,
		Page:         q.Page,
		PageSize:     q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Get godoc
// @ID           getEvent
// @Summary      Get an event
// @Description  Includes the registration count and whether the caller is registered
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} dto.Response{data=community.EventDTO}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	event, err := h.eventService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// Create godoc
// @ID           createEvent
// @Summary      Schedule an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body CreateEventRequest true "Event"
// @Success      201 {object} dto.Response{data=community.EventDTO}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateEventRequest
	if !h.bindJSON(c, &req) {
		return
	}
	event, err := h.eventService.Create(c.Request.Context(), actor, community.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, event)
}

// Update godoc
// @ID           updateEvent
// @Summary      Update an event
// @Description  Capacity cannot drop below the current registrations
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id path string true "Event ID"
// @Param        request body UpdateEventRequest true "Changes"
// @Success      200 {object} dto.Response{data=community.EventDTO}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.bindJSON(c, &req) {
		return
	}
	event, err := h.eventService.Update(c.Request.Context(), id, community.UpdateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Capacity:    req.Capacity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// Cancel godoc
// @ID           cancelEvent
// @Summary      Cancel an event
// @Description  Registered users are notified
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} dto.Response{data=community.EventDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /events/{id}/cancel [post]
func (h *EventHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	event, err := h.eventService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// Delete godoc
// @ID           deleteEvent
// @Summary      Delete an event
// @Tags         events
// @Param        id path string true "Event ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Register godoc
// @ID           registerForEvent
// @Summary      Register for an event
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} dto.Response{data=community.EventDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /events/{id}/register [post]
func (h *EventHandler) Register(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	event, err := h.eventService.Register(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// Unregister godoc
// @ID           unregisterFromEvent
// @Summary      Withdraw an event registration
// @Tags         events
// @Param        id path string true "Event ID"
// @Success      204
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /events/{id}/register [delete]
func (h *EventHandler) Unregister(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.Unregister(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Attendees godoc
// @ID           listEventAttendees
// @Summary      List the attendees of an event
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} dto.Response{data=[]community.AttendeeDTO}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /events/{id}/attendees [get]
func (h *EventHandler) Attendees(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	attendees, err := h.eventService.Attendees(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, attendees)
}
