package welfare

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/welfare"
)

// CreateComplaintInput is the input for filing a complaint
type CreateComplaintInput struct {
	RoomID      *uuid.UUID
	Category    welfare.ComplaintCategory
	Title       string
	Description string
	Priority    welfare.ComplaintPriority
}

// UpdateComplaintInput carries optional complaint changes
type UpdateComplaintInput struct {
	RoomID      *uuid.UUID
	Category    *welfare.ComplaintCategory
	Title       *string
	Description *string
	Priority    *welfare.ComplaintPriority
}

// ChangeComplaintStatusInput moves a complaint through its workflow
type ChangeComplaintStatusInput struct {
	Status     welfare.ComplaintStatus
	Resolution string
}

// ListComplaintsInput filters the complaint list
type ListComplaintsInput struct {
	StudentID  *uuid.UUID
	RoomID     *uuid.UUID
	AssignedTo *uuid.UUID
	Status     *welfare.ComplaintStatus
	Category   *welfare.ComplaintCategory
	Priority   *welfare.ComplaintPriority
	Search     string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// UploadInput is one uploaded file
type UploadInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ComplaintDTO is the API view of a complaint
type ComplaintDTO struct {
	ID          uuid.UUID                 `json:"id"`
	StudentID   uuid.UUID                 `json:"student_id"`
	RoomID      *uuid.UUID                `json:"room_id,omitempty"`
	Category    welfare.ComplaintCategory `json:"category"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Priority    welfare.ComplaintPriority `json:"priority"`
	Status      welfare.ComplaintStatus   `json:"status"`
	Resolution  string                    `json:"resolution,omitempty"`
	AssignedTo  *uuid.UUID                `json:"assigned_to,omitempty"`
	ResolvedAt  *time.Time                `json:"resolved_at,omitempty"`
	Attachments []string                  `json:"attachments"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
	Version     int                       `json:"version"`
}

// ToComplaintDTO converts a complaint to its DTO
func ToComplaintDTO(c *welfare.Complaint) ComplaintDTO {
	attachments := c.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return ComplaintDTO{
		ID:          c.ID,
		StudentID:   c.StudentID,
		RoomID:      c.RoomID,
		Category:    c.Category,
		Title:       c.Title,
		Description: c.Description,
		Priority:    c.Priority,
		Status:      c.Status,
		Resolution:  c.Resolution,
		AssignedTo:  c.AssignedTo,
		ResolvedAt:  c.ResolvedAt,
		Attachments: attachments,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// AttachmentURL is a time limited download link
type AttachmentURL struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ApplyLeaveInput is the input for a leave application
type ApplyLeaveInput struct {
	FromDate     time.Time
	ToDate       time.Time
	Reason       string
	Destination  string
	ContactPhone string
}

// ListLeavesInput filters the leave list
type ListLeavesInput struct {
	StudentID *uuid.UUID
	Status    *welfare.LeaveStatus
	ActiveOn  *time.Time
	Page      int
	PageSize  int
}

// LeaveDTO is the API view of a leave application
type LeaveDTO struct {
	ID           uuid.UUID           `json:"id"`
	StudentID    uuid.UUID           `json:"student_id"`
	FromDate     time.Time           `json:"from_date"`
	ToDate       time.Time           `json:"to_date"`
	Days         int                 `json:"days"`
	Reason       string              `json:"reason"`
	Destination  string              `json:"destination,omitempty"`
	ContactPhone string              `json:"contact_phone,omitempty"`
	Status       welfare.LeaveStatus `json:"status"`
	ReviewerID   *uuid.UUID          `json:"reviewer_id,omitempty"`
	ReviewNote   string              `json:"review_note,omitempty"`
	ReviewedAt   *time.Time          `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ToLeaveDTO converts a leave application to its DTO
func ToLeaveDTO(l *welfare.LeaveApplication) LeaveDTO {
	return LeaveDTO{
		ID:           l.ID,
		StudentID:    l.StudentID,
		FromDate:     l.FromDate,
		ToDate:       l.ToDate,
		Days:         l.Period().Days(),
		Reason:       l.Reason,
		Destination:  l.Destination,
		ContactPhone: l.ContactPhone,
		Status:       l.Status,
		ReviewerID:   l.ReviewerID,
		ReviewNote:   l.ReviewNote,
		ReviewedAt:   l.ReviewedAt,
		CreatedAt:    l.CreatedAt,
	}
}
