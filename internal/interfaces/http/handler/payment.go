package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/finance"
	domainFinance "github.com/hostelhub/backend/internal/domain/finance"
)

// PaymentHandler handles rent and fee payments
type PaymentHandler struct {
	BaseHandler
	paymentService *finance.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *finance.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List godoc
// @ID           listPayments
// @Summary      List payments
// @Description  Students only see their own payments
// @Tags         payments
// @Produce      json
// @Param        student_id query string false "Student ID (admin)"
// @Param        booking_id query string false "Booking ID"
// @Param        status query string false "Payment status"
// @Param        type query string false "Payment type"
// @Param        month query string false "Billing month (YYYY-MM)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]finance.PaymentDTO}
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var q ListPaymentsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	studentID, ok := h.optionalID(c, "student_id", q.StudentID)
	if !ok {
		return
	}
	bookingID, ok := h.optionalID(c, "booking_id", q.BookingID)
	if !ok {
		return
	}
	page, err := h.paymentService.List(c.Request.Context(), actor, finance.ListPaymentsInput{
		StudentID:    studentID,
		BookingID:    bookingID,
		Status:       optionalEnum[domainFinance.PaymentStatus](q.Status),
		Type:         optionalEnum[domainFinance.PaymentType](q.Type),
		BillingMonth: q.BillingMonth,
		Page:         q.Page,
		PageSize:     q.PageSize,
		SortBy:       q.SortBy,
		SortOrder:    q.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Get godoc
// @ID           getPayment
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200 {object} dto.Response{data=finance.PaymentDTO}
// @Failure      403 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	payment, err := h.paymentService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Create godoc
// @ID           createPayment
// @Summary      Raise a charge
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body CreatePaymentRequest true "Charge"
// @Success      201 {object} dto.Response{data=finance.PaymentDTO}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	bookingID, ok := h.optionalID(c, "booking_id", req.BookingID)
	if !ok {
		return
	}
	due, _ := time.Parse(dateLayout, req.DueDate)
	payment, err := h.paymentService.Create(c.Request.Context(), finance.CreatePaymentInput{
		StudentID:    uuid.MustParse(req.StudentID),
		BookingID:    bookingID,
		Type:         domainFinance.PaymentType(req.Type),
		Amount:       req.Amount,
		BillingMonth: req.BillingMonth,
		DueDate:      due,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// Pay godoc
// @ID           payPayment
// @Summary      Settle a payment
// @Description  Owners may settle their own PENDING or OVERDUE charges
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID"
// @Param        request body PayRequest true "Method and reference"
// @Success      200 {object} dto.Response{data=finance.PaymentDTO}
// @Failure      403 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments/{id}/pay [post]
func (h *PaymentHandler) Pay(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req PayRequest
	if !h.bindJSON(c, &req) {
		return
	}
	payment, err := h.paymentService.Pay(c.Request.Context(), actor, id, finance.PayInput{
		Method:    domainFinance.PaymentMethod(req.Method),
		Reference: req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Refund godoc
// @ID           refundPayment
// @Summary      Refund a paid payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID"
// @Param        request body NotesRequest false "Notes"
// @Success      200 {object} dto.Response{data=finance.PaymentDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	h.withNotes(c, h.paymentService.Refund)
}

// Cancel godoc
// @ID           cancelPayment
// @Summary      Cancel an unpaid charge
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID"
// @Param        request body NotesRequest false "Notes"
// @Success      200 {object} dto.Response{data=finance.PaymentDTO}
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c *gin.Context) {
	h.withNotes(c, h.paymentService.Cancel)
}

func (h *PaymentHandler) withNotes(c *gin.Context, fn func(context.Context, uuid.UUID, string) (*finance.PaymentDTO, error)) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req NotesRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	payment, err := fn(c.Request.Context(), id, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Summary godoc
// @ID           paymentSummary
// @Summary      Paid, pending and overdue totals
// @Description  Students get their own totals
// @Tags         payments
// @Produce      json
// @Param        student_id query string false "Student ID (admin)"
// @Success      200 {object} dto.Response{data=finance.SummaryDTO}
// @Security     BearerAuth
// @Router       /payments/summary [get]
func (h *PaymentHandler) Summary(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	studentID, ok := h.optionalID(c, "student_id", c.Query("student_id"))
	if !ok {
		return
	}
	summary, err := h.paymentService.Summary(c.Request.Context(), actor, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// MonthlyTotals godoc
// @ID           paymentMonthlyTotals
// @Summary      Paid totals per month of a year
// @Tags         payments
// @Produce      json
// @Param        year query int false "Year, defaults to the current one"
// @Param        student_id query string false "Student ID (admin)"
// @Success      200 {object} dto.Response{data=finance.MonthlyTotalsDTO}
// @Security     BearerAuth
// @Router       /payments/monthly [get]
func (h *PaymentHandler) MonthlyTotals(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	year := queryInt(c, "year", time.Now().Year())
	if year < 2000 || year > 2100 {
		h.invalidParam(c, "year", "Must be between 2000 and 2100")
		return
	}
	studentID, ok := h.optionalID(c, "student_id", c.Query("student_id"))
	if !ok {
		return
	}
	totals, err := h.paymentService.MonthlyTotals(c.Request.Context(), actor, year, studentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}

// Receipt godoc
// @ID           paymentReceipt
// @Summary      PDF receipt of a paid payment
// @Tags         payments
// @Produce      application/pdf
// @Param        id path string true "Payment ID"
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /payments/{id}/receipt [get]
func (h *PaymentHandler) Receipt(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	receipt, err := h.paymentService.Receipt(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+receipt.FileName+`"`)
	c.Data(http.StatusOK, "application/pdf", receipt.Content)
}
