package handler

import "github.com/hostelhub/backend/internal/interfaces/http/dto"

// CreateComplaintRequest files a complaint
type CreateComplaintRequest struct {
	RoomID      string `json:"room_id" binding:"omitempty,uuid"`
	Category    string `json:"category" binding:"required,oneof=MAINTENANCE CLEANLINESS NOISE SECURITY FOOD OTHER"`
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"required,min=1,max=5000"`
	Priority    string `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
}

// UpdateComplaintRequest carries optional complaint changes
type UpdateComplaintRequest struct {
	RoomID      *string `json:"room_id" binding:"omitempty,uuid"`
	Category    *string `json:"category" binding:"omitempty,oneof=MAINTENANCE CLEANLINESS NOISE SECURITY FOOD OTHER"`
	Title       *string `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string `json:"description" binding:"omitempty,min=1,max=5000"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
}

// ComplaintStatusRequest moves a complaint through its workflow
type ComplaintStatusRequest struct {
	Status     string `json:"status" binding:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Resolution string `json:"resolution" binding:"omitempty,max=5000"`
}

// AssignComplaintRequest names the staff member handling a complaint
type AssignComplaintRequest struct {
	AssigneeID string `json:"assignee_id" binding:"required,uuid"`
}

// ListComplaintsQuery filters the complaint list
type ListComplaintsQuery struct {
	dto.ListRequest
	StudentID  string `form:"student_id" binding:"omitempty,uuid"`
	RoomID     string `form:"room_id" binding:"omitempty,uuid"`
	AssignedTo string `form:"assigned_to" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Category   string `form:"category" binding:"omitempty,oneof=MAINTENANCE CLEANLINESS NOISE SECURITY FOOD OTHER"`
	Priority   string `form:"priority" binding:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// ApplyLeaveRequest is the body of a leave application
type ApplyLeaveRequest struct {
	FromDate     string `json:"from_date" binding:"required,datetime=2006-01-02"`
	ToDate       string `json:"to_date" binding:"required,datetime=2006-01-02"`
	Reason       string `json:"reason" binding:"required,min=3,max=1000"`
	Destination  string `json:"destination" binding:"omitempty,max=200"`
	ContactPhone string `json:"contact_phone" binding:"omitempty,max=20"`
}

// ReviewLeaveRequest carries an optional reviewer note
type ReviewLeaveRequest struct {
	Note string `json:"note" binding:"omitempty,max=1000"`
}

// ListLeavesQuery filters the leave list
type ListLeavesQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED CANCELLED"`
	ActiveOn  string `form:"active_on" binding:"omitempty,datetime=2006-01-02"`
}
