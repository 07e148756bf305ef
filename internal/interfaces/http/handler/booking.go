package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/housing"
	domainHousing "github.com/hostelhub/backend/internal/domain/housing"
)

// BookingHandler handles booking lifecycle requests
type BookingHandler struct {
	BaseHandler
	bookingService *housing.BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *housing.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create godoc
// @ID           createBooking
// @Summary      Book a room
// @Description  Students book for themselves; administrators may pass student_id.
// @Description  A student can hold only one open booking.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body CreateBookingRequest true "Booking"
// @Success      201 {object} dto.Response{data=housing.BookingDTO}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req CreateBookingRequest
	if !h.bindJSON(c, &req) {
		return
	}

	// binding already checked the formats
	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	input := housing.CreateBookingInput{
		RoomID:    uuid.MustParse(req.RoomID),
		StartDate: start,
		EndDate:   end,
		Notes:     req.Notes,
	}
	if req.StudentID != "" {
		input.StudentID = uuid.MustParse(req.StudentID)
	}

	booking, err := h.bookingService.Create(c.Request.Context(), actor, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, booking)
}

// List godoc
// @ID           listBookings
// @Summary      List bookings
// @Description  Students only see their own bookings
// @Tags         bookings
// @Produce      json
// @Param        student_id query string false "Student ID (admin)"
// @Param        room_id query string false "Room ID"
// @Param        status query string false "Booking status"
// @Param        from query string false "Start date from (YYYY-MM-DD)"
// @Param        to query string false "Start date to (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]housing.BookingDTO}
// @Security     BearerAuth
// @Router       /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListBookingsQuery
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
	from, _ := optionalDate(q.From)
	to, _ := optionalDate(q.To)
	page, err := h.bookingService.List(c.Request.Context(), actor, housing.ListBookingsInput{
		StudentID: studentID,
		RoomID:    roomID,
		Status:    optionalEnum[domainHousing.BookingStatus](q.Status),
		From:      from,
		To:        to,
		Page:      q.Page,
		PageSize:  q.PageSize,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Current godoc
// @ID           currentBooking
// @Summary      Current open booking of a student
// @Description  data is null when the student has no open booking
// @Tags         bookings
// @Produce      json
// @Param        student_id query string false "Student ID (admin, defaults to the caller)"
// @Success      200 {object} dto.Response{data=housing.BookingDTO}
// @Security     BearerAuth
// @Router       /bookings/current [get]
func (h *BookingHandler) Current(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	studentID := actor.UserID
	if s := c.Query("student_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			h.invalidParam(c, "student_id", "Invalid UUID format")
			return
		}
		studentID = id
	}

	booking, err := h.bookingService.Current(c.Request.Context(), actor, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, booking)
}

// Get godoc
// @ID           getBooking
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200 {object} dto.Response{data=housing.BookingDTO}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	booking, err := h.bookingService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, booking)
}

// Confirm godoc
// @ID           confirmBooking
// @Summary      Confirm a pending booking
// @Description  Takes a bed in the room
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200 {object} dto.Response{data=housing.BookingDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	h.transition(c, h.bookingService.Confirm)
}

// CheckIn godoc
// @ID           checkInBooking
// @Summary      Check a student in
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200 {object} dto.Response{data=housing.BookingDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /bookings/{id}/check-in [post]
func (h *BookingHandler) CheckIn(c *gin.Context) {
	h.transition(c, h.bookingService.CheckIn)
}

// Complete godoc
// @ID           completeBooking
// @Summary      Complete a stay
// @Description  Releases the bed
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Booking ID"
// @Success      200 {object} dto.Response{data=housing.BookingDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	h.transition(c, h.bookingService.Complete)
}

func (h *BookingHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*housing.BookingDTO, error)) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	booking, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, booking)
}

// Cancel godoc
// @ID           cancelBooking
// @Summary      Cancel a booking
// @Description  Owners may cancel while PENDING or CONFIRMED, administrators while not terminal.
// @Description  A held bed is released in the same transaction.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID"
// @Param        request body CancelRequest false "Reason"
// @Success      200 {object} dto.Response{data=housing.BookingDTO}
// @Failure      403 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req CancelRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	booking, err := h.bookingService.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, booking)
}
