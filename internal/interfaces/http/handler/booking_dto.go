package handler

import "github.com/hostelhub/backend/internal/interfaces/http/dto"

// CreateBookingRequest is the body for reserving a room. StudentID is only
// read for administrators booking on behalf of a student.
type CreateBookingRequest struct {
	StudentID string `json:"student_id" binding:"omitempty,uuid"`
	RoomID    string `json:"room_id" binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02" example:"2026-09-01"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02" example:"2027-06-30"`
	Notes     string `json:"notes" binding:"omitempty,max=500"`
}

// CancelRequest carries an optional reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// ListBookingsQuery filters the booking list
type ListBookingsQuery struct {
	dto.ListRequest
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	RoomID    string `form:"room_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED ACTIVE COMPLETED CANCELLED"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// SendRoommateRequest is the body for asking another student to share a room
type SendRoommateRequest struct {
	TargetID string `json:"target_id" binding:"required,uuid"`
	RoomID   string `json:"room_id" binding:"omitempty,uuid"`
	Message  string `json:"message" binding:"omitempty,max=500"`
}

// ListRoommateRequestsQuery filters roommate requests
type ListRoommateRequestsQuery struct {
	Box      string `form:"box" binding:"omitempty,oneof=sent received"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING ACCEPTED REJECTED CANCELLED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
