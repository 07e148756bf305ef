package welfare

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// ComplaintCategory groups complaints by topic
type ComplaintCategory string

const (
	CategoryMaintenance ComplaintCategory = "MAINTENANCE"
	CategoryCleanliness ComplaintCategory = "CLEANLINESS"
	CategoryNoise       ComplaintCategory = "NOISE"
	CategorySecurity    ComplaintCategory = "SECURITY"
	CategoryFood        ComplaintCategory = "FOOD"
	CategoryOther       ComplaintCategory = "OTHER"
)

func (c ComplaintCategory) IsValid() bool {
	switch c {
	case CategoryMaintenance, CategoryCleanliness, CategoryNoise, CategorySecurity, CategoryFood, CategoryOther:
		return true
	}
	return false
}

// ComplaintPriority orders complaints by urgency
type ComplaintPriority string

const (
	ComplaintPriorityLow    ComplaintPriority = "LOW"
	ComplaintPriorityNormal ComplaintPriority = "NORMAL"
	ComplaintPriorityHigh   ComplaintPriority = "HIGH"
	ComplaintPriorityUrgent ComplaintPriority = "URGENT"
)

func (p ComplaintPriority) IsValid() bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityNormal, ComplaintPriorityHigh, ComplaintPriorityUrgent:
		return true
	}
	return false
}

// ComplaintStatus is the handling state of a complaint
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "OPEN"
	ComplaintStatusInProgress ComplaintStatus = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatus = "RESOLVED"
	ComplaintStatusClosed     ComplaintStatus = "CLOSED"
)

var complaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintStatusOpen:       {ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusClosed},
	ComplaintStatusInProgress: {ComplaintStatusResolved, ComplaintStatusClosed},
	ComplaintStatusResolved:   {ComplaintStatusClosed, ComplaintStatusOpen},
}

func (s ComplaintStatus) IsValid() bool {
	switch s {
	case ComplaintStatusOpen, ComplaintStatusInProgress, ComplaintStatusResolved, ComplaintStatusClosed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the workflow allows moving to next
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	for _, allowed := range complaintTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MaxAttachments bounds the number of files on one complaint
const MaxAttachments = 5

// Complaint is an issue raised by a student
type Complaint struct {
	shared.BaseAggregateRoot
	StudentID   uuid.UUID
	RoomID      *uuid.UUID
	Category    ComplaintCategory
	Title       string
	Description string
	Priority    ComplaintPriority
	Status      ComplaintStatus
	Resolution  string
	AssignedTo  *uuid.UUID
	ResolvedAt  *time.Time
	Attachments []string
}

// NewComplaint opens a complaint
func NewComplaint(studentID uuid.UUID, roomID *uuid.UUID, category ComplaintCategory, title, description string, priority ComplaintPriority) (*Complaint, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student is required")
	}
	if priority == "" {
		priority = ComplaintPriorityNormal
	}
	c := &Complaint{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StudentID:         studentID,
		RoomID:            roomID,
		Status:            ComplaintStatusOpen,
		Attachments:       []string{},
	}
	if err := c.apply(category, title, description, priority); err != nil {
		return nil, err
	}
	c.RecordEvent(NewComplaintEvent(EventTypeComplaintFiled, c))
	return c, nil
}

// ComplaintUpdate carries optional changes; nil fields are left untouched
type ComplaintUpdate struct {
	Category    *ComplaintCategory
	Title       *string
	Description *string
	Priority    *ComplaintPriority
	RoomID      *uuid.UUID
}

// Update edits an OPEN complaint
func (c *Complaint) Update(u ComplaintUpdate) error {
	if c.Status != ComplaintStatusOpen {
		return shared.NewDomainError("COMPLAINT_NOT_OPEN", "Only open complaints can be edited")
	}
	category, title, desc, priority := c.Category, c.Title, c.Description, c.Priority
	if u.Category != nil {
		category = *u.Category
	}
	if u.Title != nil {
		title = *u.Title
	}
	if u.Description != nil {
		desc = *u.Description
	}
	if u.Priority != nil {
		priority = *u.Priority
	}
	if err := c.apply(category, title, desc, priority); err != nil {
		return err
	}
	if u.RoomID != nil {
		c.RoomID = u.RoomID
	}
	c.Touch()
	return nil
}

// ChangeStatus moves the complaint through its workflow. Resolving requires a resolution text.
func (c *Complaint) ChangeStatus(next ComplaintStatus, resolution string) error {
	if !next.IsValid() || !c.Status.CanTransitionTo(next) {
		return shared.NewDomainError("COMPLAINT_INVALID_TRANSITION",
			"Cannot change complaint from "+string(c.Status)+" to "+string(next))
	}
	resolution = strings.TrimSpace(resolution)
	if next == ComplaintStatusResolved && resolution == "" && c.Resolution == "" {
		return shared.NewDomainError("RESOLUTION_REQUIRED", "A resolution is required to resolve a complaint")
	}

	c.Status = next
	if resolution != "" {
		c.Resolution = resolution
	}
	switch next {
	case ComplaintStatusResolved:
		now := time.Now()
		c.ResolvedAt = &now
	case ComplaintStatusOpen:
		c.ResolvedAt = nil
	}
	c.Touch()
	c.RecordEvent(NewComplaintEvent(EventTypeComplaintStatusChanged, c))
	return nil
}

// Reopen sends a RESOLVED complaint back to OPEN, for the student who filed it
func (c *Complaint) Reopen(actor uuid.UUID) error {
	if actor != c.StudentID {
		return shared.NewDomainError("FORBIDDEN", "Only the student who filed the complaint can reopen it")
	}
	if c.Status != ComplaintStatusResolved {
		return shared.NewDomainError("COMPLAINT_INVALID_TRANSITION", "Only resolved complaints can be reopened")
	}
	return c.ChangeStatus(ComplaintStatusOpen, "")
}

// Assign hands the complaint to a staff member and starts work on it
func (c *Complaint) Assign(assignee uuid.UUID) error {
	if assignee == uuid.Nil {
		return shared.NewDomainError("INVALID_ASSIGNEE", "Assignee is required")
	}
	if c.Status == ComplaintStatusClosed {
		return shared.NewDomainError("COMPLAINT_INVALID_TRANSITION", "Closed complaints cannot be assigned")
	}
	c.AssignedTo = &assignee
	if c.Status == ComplaintStatusOpen {
		return c.ChangeStatus(ComplaintStatusInProgress, "")
	}
	c.Touch()
	return nil
}

// AddAttachment records an uploaded object key
func (c *Complaint) AddAttachment(key string) error {
	if c.Status == ComplaintStatusClosed {
		return shared.NewDomainError("COMPLAINT_INVALID_TRANSITION", "Closed complaints cannot take attachments")
	}
	if len(c.Attachments) >= MaxAttachments {
		return shared.NewDomainError("TOO_MANY_ATTACHMENTS", "A complaint can have at most 5 attachments")
	}
	c.Attachments = append(c.Attachments, key)
	c.Touch()
	return nil
}

// HasAttachment reports whether key belongs to the complaint
func (c *Complaint) HasAttachment(key string) bool {
	for _, a := range c.Attachments {
		if a == key {
			return true
		}
	}
	return false
}

// CanBeDeletedBy reports whether the actor may delete the complaint
func (c *Complaint) CanBeDeletedBy(actor shared.Actor) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.UserID == c.StudentID && c.Status == ComplaintStatusOpen
}

func (c *Complaint) apply(category ComplaintCategory, title, description string, priority ComplaintPriority) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Category must be MAINTENANCE, CLEANLINESS, NOISE, SECURITY, FOOD or OTHER")
	}
	if title == "" || len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title must be between 1 and 200 characters")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if !priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority must be LOW, NORMAL, HIGH or URGENT")
	}
	c.Category = category
	c.Title = title
	c.Description = description
	c.Priority = priority
	return nil
}

// Complaint event types
const (
	AggregateTypeComplaint          = "Complaint"
	EventTypeComplaintFiled         = "ComplaintFiled"
	EventTypeComplaintStatusChanged = "ComplaintStatusChanged"
)

// ComplaintEvent is published when a complaint is filed or changes status
type ComplaintEvent struct {
	shared.BaseDomainEvent
	StudentID uuid.UUID         `json:"student_id"`
	Title     string            `json:"title"`
	Category  ComplaintCategory `json:"category"`
	Status    ComplaintStatus   `json:"status"`
}

func NewComplaintEvent(eventType string, c *Complaint) *ComplaintEvent {
	return &ComplaintEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeComplaint, c.ID),
		StudentID:       c.StudentID,
		Title:           c.Title,
		Category:        c.Category,
		Status:          c.Status,
	}
}
