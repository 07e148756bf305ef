package handler

import "github.com/google/uuid"

// GenerateRentRequest selects the billing month. Empty means the current month.
type GenerateRentRequest struct {
	Month string `json:"month" binding:"omitempty,yearmonth" example:"2026-10"`
}

// BulkPaymentStatusRequest moves many payments to one status
type BulkPaymentStatusRequest struct {
	IDs       []uuid.UUID `json:"ids" binding:"required,min=1"`
	Status    string      `json:"status" binding:"required,oneof=PAID OVERDUE REFUNDED CANCELLED"`
	Method    string      `json:"method" binding:"omitempty,oneof=CASH CARD BANK_TRANSFER ONLINE"`
	Reference string      `json:"reference" binding:"omitempty,max=100"`
	Notes     string      `json:"notes" binding:"omitempty,max=500"`
}

// BulkLeaveReviewRequest approves or rejects many leave applications
type BulkLeaveReviewRequest struct {
	IDs     []uuid.UUID `json:"ids" binding:"required,min=1"`
	Approve *bool       `json:"approve" binding:"required"`
	Note    string      `json:"note" binding:"omitempty,max=1000"`
}

// BulkCancelBookingsRequest cancels many bookings
type BulkCancelBookingsRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required,min=1"`
	Reason string      `json:"reason" binding:"omitempty,max=500"`
}

// BulkUserStatusRequest activates or deactivates many accounts
type BulkUserStatusRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required,min=1"`
	Active *bool       `json:"active" binding:"required"`
}

// BulkNotificationRequest sends one notification to many users
type BulkNotificationRequest struct {
	UserIDs []uuid.UUID `json:"user_ids" binding:"required,min=1"`
	Type    string      `json:"type" binding:"omitempty,oneof=BOOKING PAYMENT NOTICE COMPLAINT LEAVE EVENT ROOMMATE SYSTEM"`
	Title   string      `json:"title" binding:"required,min=1,max=200"`
	Message string      `json:"message" binding:"required,min=1,max=2000"`
	Link    string      `json:"link" binding:"omitempty,max=500"`
}

// ListBulkOperationsQuery filters the bulk operation history
type ListBulkOperationsQuery struct {
	Action      string `form:"action" binding:"omitempty,oneof=import_students import_rooms generate_rent payment_status leave_review booking_cancellation user_status notification"`
	Status      string `form:"status" binding:"omitempty,oneof=processing completed partial failed"`
	PerformedBy string `form:"performed_by" binding:"omitempty,uuid"`
	From        string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To          string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
