package welfare

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
)

// LeaveStatus is the review state of a leave application
type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "PENDING"
	LeaveStatusApproved  LeaveStatus = "APPROVED"
	LeaveStatusRejected  LeaveStatus = "REJECTED"
	LeaveStatusCancelled LeaveStatus = "CANCELLED"
)

func (s LeaveStatus) IsValid() bool {
	switch s {
	case LeaveStatusPending, LeaveStatusApproved, LeaveStatusRejected, LeaveStatusCancelled:
		return true
	}
	return false
}

// BlockingLeaveStatuses are the states checked for overlapping applications
var BlockingLeaveStatuses = []LeaveStatus{LeaveStatusPending, LeaveStatusApproved}

// LeaveApplication is a student's request to be away from the hostel
type LeaveApplication struct {
	shared.BaseAggregateRoot
	StudentID    uuid.UUID
	FromDate     time.Time
	ToDate       time.Time
	Reason       string
	Destination  string
	ContactPhone string
	Status       LeaveStatus
	ReviewerID   *uuid.UUID
	ReviewNote   string
	ReviewedAt   *time.Time
}

// NewLeaveApplication creates a PENDING application. Both dates are inclusive.
func NewLeaveApplication(studentID uuid.UUID, from, to time.Time, reason, destination, contactPhone string) (*LeaveApplication, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student is required")
	}
	period, err := valueobject.NewDateRange(from, to)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_LEAVE_DATES", err.Error())
	}
	if period.StartsBefore(valueobject.Today()) {
		return nil, shared.NewDomainError("INVALID_LEAVE_DATES", "Leave cannot start in the past")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Reason cannot be empty")
	}

	l := &LeaveApplication{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StudentID:         studentID,
		FromDate:          period.Start(),
		ToDate:            period.End(),
		Reason:            reason,
		Destination:       strings.TrimSpace(destination),
		ContactPhone:      strings.TrimSpace(contactPhone),
		Status:            LeaveStatusPending,
	}
	l.RecordEvent(NewLeaveEvent(EventTypeLeaveRequested, l))
	return l, nil
}

// Period returns the leave date range
func (l *LeaveApplication) Period() valueobject.DateRange {
	r, _ := valueobject.NewDateRange(l.FromDate, l.ToDate)
	return r
}

// Overlaps reports whether two applications share a day
func (l *LeaveApplication) Overlaps(other *LeaveApplication) bool {
	return l.Period().Overlaps(other.Period())
}

// Approve accepts a PENDING application
func (l *LeaveApplication) Approve(reviewer uuid.UUID, note string) error {
	return l.review(reviewer, LeaveStatusApproved, note, EventTypeLeaveApproved)
}

// Reject declines a PENDING application
func (l *LeaveApplication) Reject(reviewer uuid.UUID, note string) error {
	return l.review(reviewer, LeaveStatusRejected, note, EventTypeLeaveRejected)
}

// Cancel withdraws a PENDING application, or an APPROVED one whose leave has not started on day now
func (l *LeaveApplication) Cancel(actor uuid.UUID, now time.Time) error {
	if actor != l.StudentID {
		return shared.NewDomainError("FORBIDDEN", "Only the applicant can cancel this leave application")
	}
	switch l.Status {
	case LeaveStatusPending:
	case LeaveStatusApproved:
		if !l.FromDate.After(valueobject.TruncateDay(now)) {
			return shared.NewDomainError("LEAVE_ALREADY_STARTED", "Approved leave that has started cannot be cancelled")
		}
	default:
		return shared.NewDomainError("LEAVE_INVALID_TRANSITION", "Cannot cancel a "+strings.ToLower(string(l.Status))+" leave application")
	}
	l.Status = LeaveStatusCancelled
	l.Touch()
	return nil
}

func (l *LeaveApplication) review(reviewer uuid.UUID, status LeaveStatus, note, eventType string) error {
	if l.Status != LeaveStatusPending {
		return shared.NewDomainError("LEAVE_INVALID_TRANSITION", "Only pending leave applications can be reviewed")
	}
	now := time.Now()
	l.Status = status
	l.ReviewerID = &reviewer
	l.ReviewNote = strings.TrimSpace(note)
	l.ReviewedAt = &now
	l.Touch()
	l.RecordEvent(NewLeaveEvent(eventType, l))
	return nil
}

// Leave event types
const (
	AggregateTypeLeave      = "LeaveApplication"
	EventTypeLeaveRequested = "LeaveRequested"
	EventTypeLeaveApproved  = "LeaveApproved"
	EventTypeLeaveRejected  = "LeaveRejected"
)

// LeaveEvent is published when a leave application is filed or reviewed
type LeaveEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID   `json:"student_id"`
	FromDate  time.Time   `json:"from_date"`
	ToDate    time.Time   `json:"to_date"`
	Status    LeaveStatus `json:"status"`
}

func NewLeaveEvent(eventType string, l *LeaveApplication) *LeaveEvent {
	return &LeaveEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeLeave, l.ID),
		StudentID:       l.StudentID,
		FromDate:        l.FromDate,
		ToDate:          l.ToDate,
		Status:          l.Status,
	}
}
