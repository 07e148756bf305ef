package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind names a report
type Kind string

const (
	KindOccupancy  Kind = "occupancy"
	KindPayments   Kind = "payments"
	KindStudents   Kind = "students"
	KindComplaints Kind = "complaints"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindOccupancy, KindPayments, KindStudents, KindComplaints:
		return true
	}
	return false
}

// Format is the output encoding of a report
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatXLSX, FormatPDF:
		return true
	}
	return false
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/json"
}

// Extension returns the file extension of the format
func (f Format) Extension() string {
	return "." + string(f)
}

// Filter narrows report rows
type Filter struct {
	From   *time.Time
	To     *time.Time
	Status string
}

// OccupancyRow is one room in the occupancy report
type OccupancyRow struct {
	RoomNumber    string          `json:"room_number"`
	Block         string          `json:"block"`
	Floor         int             `json:"floor"`
	Type          string          `json:"type"`
	Gender        string          `json:"gender"`
	Capacity      int             `json:"capacity"`
	Occupancy     int             `json:"occupancy"`
	Status        string          `json:"status"`
	MonthlyRent   decimal.Decimal `json:"monthly_rent"`
	OccupancyRate float64         `json:"occupancy_rate"`
}

// PaymentRow is one payment in the payments report
type PaymentRow struct {
	PaymentID    uuid.UUID       `json:"payment_id"`
	StudentName  string          `json:"student_name"`
	StudentEmail string          `json:"student_email"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BillingMonth string          `json:"billing_month"`
	Status       string          `json:"status"`
	Method       string          `json:"method"`
	DueDate      time.Time       `json:"due_date"`
	PaidAt       *time.Time      `json:"paid_at"`
}

// StudentRow is one student in the students report
type StudentRow struct {
	StudentID     uuid.UUID       `json:"student_id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	StudentNumber string          `json:"student_number"`
	Gender        string          `json:"gender"`
	Status        string          `json:"status"`
	RoomNumber    string          `json:"room_number"`
	BookingStatus string          `json:"booking_status"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// ComplaintRow is one complaint in the complaints report
type ComplaintRow struct {
	ComplaintID uuid.UUID  `json:"complaint_id"`
	StudentName string     `json:"student_name"`
	RoomNumber  string     `json:"room_number"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

// ReportRepository loads report rows
type ReportRepository interface {
	OccupancyRows(ctx context.Context) ([]OccupancyRow, error)
	PaymentRows(ctx context.Context, filter Filter) ([]PaymentRow, error)
	StudentRows(ctx context.Context, filter Filter) ([]StudentRow, error)
	ComplaintRows(ctx context.Context, filter Filter) ([]ComplaintRow, error)
}
