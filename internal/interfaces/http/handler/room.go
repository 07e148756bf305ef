package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/application/housing"
	domainHousing "github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RoomHandler handles room inventory requests
type RoomHandler struct {
	BaseHandler
	roomService *housing.RoomService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomService *housing.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// List godoc
// @ID           listRooms
// @Summary      List rooms
// @Tags         rooms
// @Produce      json
// @Param        status query string false "AVAILABLE, OCCUPIED or MAINTENANCE"
// @Param        type query string false "SINGLE, DOUBLE, TRIPLE or DORMITORY"
// @Param        block query string false "Block"
// @Param        floor query int false "Floor"
// @Param        gender query string false "Gender"
// @Param        min_rent query number false "Minimum monthly rent"
// @Param        max_rent query number false "Maximum monthly rent"
// @Param        available query bool false "Only rooms with a free bed"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]housing.RoomDTO}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	input, ok := h.listInput(c)
	if !ok {
		return
	}
	page, err := h.roomService.List(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// ListAvailable godoc
// @ID           listAvailableRooms
// @Summary      List rooms with a free bed
// @Tags         rooms
// @Produce      json
// @Param        type query string false "Room type"
// @Param        gender query string false "Gender"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]housing.RoomDTO}
// @Security     BearerAuth
// @Router       /rooms/available [get]
func (h *RoomHandler) ListAvailable(c *gin.Context) {
	input, ok := h.listInput(c)
	if !ok {
		return
	}
	page, err := h.roomService.ListAvailable(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

func (h *RoomHandler) listInput(c *gin.Context) (housing.ListRoomsInput, bool) {
	var q ListRoomsQuery
	if !h.bindQuery(c, &q) {
		return housing.ListRoomsInput{}, false
	}
	input := housing.ListRoomsInput{
		Status:        optionalEnum[domainHousing.RoomStatus](q.Status),
		Type:          optionalEnum[domainHousing.RoomType](q.Type),
		Block:         q.Block,
		Floor:         q.Floor,
		Gender:        optionalEnum[shared.Gender](q.Gender),
		AvailableOnly: q.Available,
		Search:        q.Search,
		Page:          q.Page,
		PageSize:      q.PageSize,
		SortBy:        q.SortBy,
		SortOrder:     q.SortOrder,
	}
	if q.MinRent != "" {
		v, err := decimal.NewFromString(q.MinRent)
		if err != nil {
			h.invalidParam(c, "min_rent", "Must be a number")
			return housing.ListRoomsInput{}, false
		}
		input.MinRent = &v
	}
	if q.MaxRent != "" {
		v, err := decimal.NewFromString(q.MaxRent)
		if err != nil {
			h.invalidParam(c, "max_rent", "Must be a number")
			return housing.ListRoomsInput{}, false
		}
		input.MaxRent = &v
	}
	return input, true
}

// Get godoc
// @ID           getRoom
// @Summary      Get a room
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Success      200 {object} dto.Response{data=housing.RoomDTO}
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.roomService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// Create godoc
// @ID           createRoom
// @Summary      Create a room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body CreateRoomRequest true "Room"
// @Success      201 {object} dto.Response{data=housing.RoomDTO}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if !h.bindJSON(c, &req) {
		return
	}
	room, err := h.roomService.Create(c.Request.Context(), housing.CreateRoomInput{
		Number:      req.Number,
		Block:       req.Block,
		Floor:       req.Floor,
		Type:        domainHousing.RoomType(req.Type),
		Capacity:    req.Capacity,
		MonthlyRent: req.MonthlyRent,
		Gender:      shared.Gender(req.Gender),
		Amenities:   req.Amenities,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, room)
}

// Update godoc
// @ID           updateRoom
// @Summary      Update a room
// @Description  Capacity cannot drop below the current occupancy
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id path string true "Room ID"
// @Param        request body UpdateRoomRequest true "Changes"
// @Success      200 {object} dto.Response{data=housing.RoomDTO}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /rooms/{id} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateRoomRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input := housing.UpdateRoomInput{
		Block:       req.Block,
		Floor:       req.Floor,
		Capacity:    req.Capacity,
		MonthlyRent: req.MonthlyRent,
		Amenities:   req.Amenities,
		Description: req.Description,
	}
	if req.Type != nil {
		input.Type = optionalEnum[domainHousing.RoomType](*req.Type)
	}
	if req.Gender != nil {
		input.Gender = optionalEnum[shared.Gender](*req.Gender)
	}

	room, err := h.roomService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// SetMaintenance godoc
// @ID           setRoomMaintenance
// @Summary      Put a room into or out of maintenance
// @Description  Occupied rooms cannot enter maintenance
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id path string true "Room ID"
// @Param        request body MaintenanceRequest true "Maintenance flag"
// @Success      200 {object} dto.Response{data=housing.RoomDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /rooms/{id}/maintenance [put]
func (h *RoomHandler) SetMaintenance(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req MaintenanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	room, err := h.roomService.SetMaintenance(c.Request.Context(), id, *req.On)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, room)
}

// Delete godoc
// @ID           deleteRoom
// @Summary      Delete a room
// @Description  Rooms with occupants or open bookings cannot be deleted
// @Tags         rooms
// @Param        id path string true "Room ID"
// @Success      204
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Bookings godoc
// @ID           listRoomBookings
// @Summary      List the bookings of a room
// @Tags         rooms
// @Produce      json
// @Param        id path string true "Room ID"
// @Param        status query string false "Booking status"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]housing.BookingDTO}
// @Security     BearerAuth
// @Router       /rooms/{id}/bookings [get]
func (h *RoomHandler) Bookings(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var q ListBookingsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.roomService.Bookings(c.Request.Context(), id, housing.ListBookingsInput{
		Status:    optionalEnum[domainHousing.BookingStatus](q.Status),
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
