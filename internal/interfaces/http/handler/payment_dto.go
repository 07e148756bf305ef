package handler

import (
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest raises a charge against a student
type CreatePaymentRequest struct {
	StudentID    string          `json:"student_id" binding:"required,uuid"`
	BookingID    string          `json:"booking_id" binding:"omitempty,uuid"`
	Type         string          `json:"type" binding:"required,oneof=RENT DEPOSIT FINE OTHER"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"number" example:"450.00"`
	BillingMonth string          `json:"billing_month" binding:"omitempty,yearmonth" example:"2026-09"`
	DueDate      string          `json:"due_date" binding:"required,datetime=2006-01-02" example:"2026-09-05"`
	Notes        string          `json:"notes" binding:"omitempty,max=500"`
}

// PayRequest settles a charge
type PayRequest struct {
	Method    string `json:"method" binding:"required,oneof=CASH CARD BANK_TRANSFER ONLINE"`
	Reference string `json:"reference" binding:"omitempty,max=100"`
}

// NotesRequest carries optional notes for refunds and cancellations
type NotesRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// ListPaymentsQuery filters the payment list
type ListPaymentsQuery struct {
	dto.ListRequest
	StudentID    string `form:"student_id" binding:"omitempty,uuid"`
	BookingID    string `form:"booking_id" binding:"omitempty,uuid"`
	Status       string `form:"status" binding:"omitempty,oneof=PENDING PAID OVERDUE REFUNDED CANCELLED"`
	Type         string `form:"type" binding:"omitempty,oneof=RENT DEPOSIT FINE OTHER"`
	BillingMonth string `form:"month" binding:"omitempty,yearmonth"`
}
