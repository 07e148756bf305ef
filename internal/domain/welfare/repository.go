package welfare

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ComplaintRepository defines persistence for complaints
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *Complaint) error
	Update(ctx context.Context, complaint *Complaint) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Complaint, error)
	FindAll(ctx context.Context, filter ComplaintFilter) ([]*Complaint, int64, error)
	CountByStatus(ctx context.Context) (map[ComplaintStatus]int64, error)
	CountByCategory(ctx context.Context) (map[ComplaintCategory]int64, error)
}

// ComplaintFilter contains filter options for complaint queries
type ComplaintFilter struct {
	StudentID  *uuid.UUID
	RoomID     *uuid.UUID
	AssignedTo *uuid.UUID
	Status     *ComplaintStatus
	Category   *ComplaintCategory
	Priority   *ComplaintPriority
	Keyword    string
	From       *time.Time
	To         *time.Time

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// LeaveRepository defines persistence for leave applications
type LeaveRepository interface {
	Create(ctx context.Context, leave *LeaveApplication) error
	Update(ctx context.Context, leave *LeaveApplication) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveApplication, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*LeaveApplication, error)
	FindAll(ctx context.Context, filter LeaveFilter) ([]*LeaveApplication, int64, error)
	// ExistsOverlapping checks the student's PENDING and APPROVED applications for a shared day
	ExistsOverlapping(ctx context.Context, studentID uuid.UUID, from, to time.Time) (bool, error)
	CountByStatus(ctx context.Context, status LeaveStatus) (int64, error)
}

// LeaveFilter contains filter options for leave queries
type LeaveFilter struct {
	StudentID *uuid.UUID
	Status    *LeaveStatus
	ActiveOn  *time.Time

	Page     int
	PageSize int
}
