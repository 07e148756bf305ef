package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"gorm.io/datatypes"
)

// ComplaintModel is the persistence model for complaints.
// Attachments holds object storage keys.
type ComplaintModel struct {
	AggregateModel
	StudentID   uuid.UUID                 `gorm:"type:uuid;not null;index"`
	RoomID      *uuid.UUID                `gorm:"type:uuid;index"`
	Category    welfare.ComplaintCategory `gorm:"type:varchar(20);not null;index"`
	Title       string                    `gorm:"type:varchar(200);not null"`
	Description string                    `gorm:"type:text;not null"`
	Priority    welfare.ComplaintPriority `gorm:"type:varchar(20);not null"`
	Status      welfare.ComplaintStatus   `gorm:"type:varchar(20);not null;index"`
	Resolution  string                    `gorm:"type:text"`
	AssignedTo  *uuid.UUID                `gorm:"type:uuid;index"`
	ResolvedAt  *time.Time
	Attachments datatypes.JSONSlice[string]
	Student     *UserModel `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

func (ComplaintModel) TableName() string {
	return "complaints"
}

func (m *ComplaintModel) ToDomain() *welfare.Complaint {
	attachments := make([]string, len(m.Attachments))
	copy(attachments, m.Attachments)
	return &welfare.Complaint{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		StudentID:         m.StudentID,
		RoomID:            m.RoomID,
		Category:          m.Category,
		Title:             m.Title,
		Description:       m.Description,
		Priority:          m.Priority,
		Status:            m.Status,
		Resolution:        m.Resolution,
		AssignedTo:        m.AssignedTo,
		ResolvedAt:        m.ResolvedAt,
		Attachments:       attachments,
	}
}

func ComplaintModelFromDomain(c *welfare.Complaint) *ComplaintModel {
	m := &ComplaintModel{
		StudentID:   c.StudentID,
		RoomID:      c.RoomID,
		Category:    c.Category,
		Title:       c.Title,
		Description: c.Description,
		Priority:    c.Priority,
		Status:      c.Status,
		Resolution:  c.Resolution,
		AssignedTo:  c.AssignedTo,
		ResolvedAt:  utc(c.ResolvedAt),
		Attachments: datatypes.JSONSlice[string](c.Attachments),
	}
	if m.Attachments == nil {
		m.Attachments = datatypes.JSONSlice[string]{}
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// LeaveApplicationModel is the persistence model for leave applications
type LeaveApplicationModel struct {
	AggregateModel
	StudentID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	FromDate     datatypes.Date      `gorm:"not null;index"`
	ToDate       datatypes.Date      `gorm:"not null"`
	Reason       string              `gorm:"type:text;not null"`
	Destination  string              `gorm:"type:varchar(200)"`
	ContactPhone string              `gorm:"type:varchar(50)"`
	Status       welfare.LeaveStatus `gorm:"type:varchar(20);not null;index"`
	ReviewerID   *uuid.UUID          `gorm:"type:uuid"`
	ReviewNote   string              `gorm:"type:text"`
	ReviewedAt   *time.Time
	Student      *UserModel `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

func (LeaveApplicationModel) TableName() string {
	return "leave_applications"
}

func (m *LeaveApplicationModel) ToDomain() *welfare.LeaveApplication {
	return &welfare.LeaveApplication{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		StudentID:         m.StudentID,
		FromDate:          valueobject.TruncateDay(time.Time(m.FromDate)),
		ToDate:            valueobject.TruncateDay(time.Time(m.ToDate)),
		Reason:            m.Reason,
		Destination:       m.Destination,
		ContactPhone:      m.ContactPhone,
		Status:            m.Status,
		ReviewerID:        m.ReviewerID,
		ReviewNote:        m.ReviewNote,
		ReviewedAt:        m.ReviewedAt,
	}
}

func LeaveApplicationModelFromDomain(l *welfare.LeaveApplication) *LeaveApplicationModel {
	m := &LeaveApplicationModel{
		StudentID:    l.StudentID,
		FromDate:     datatypes.Date(valueobject.TruncateDay(l.FromDate)),
		ToDate:       datatypes.Date(valueobject.TruncateDay(l.ToDate)),
		Reason:       l.Reason,
		Destination:  l.Destination,
		ContactPhone: l.ContactPhone,
		Status:       l.Status,
		ReviewerID:   l.ReviewerID,
		ReviewNote:   l.ReviewNote,
		ReviewedAt:   utc(l.ReviewedAt),
	}
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	return m
}
