package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentModel is the persistence model for payments and charges
type PaymentModel struct {
	AggregateModel
	StudentID    uuid.UUID             `gorm:"type:uuid;not null;index"`
	BookingID    *uuid.UUID            `gorm:"type:uuid;index"`
	Type         finance.PaymentType   `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	BillingMonth string                `gorm:"type:varchar(7);index"`
	DueDate      datatypes.Date        `gorm:"not null;index"`
	Status       finance.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	Method       finance.PaymentMethod `gorm:"type:varchar(20)"`
	Reference    string                `gorm:"type:varchar(100)"`
	Notes        string                `gorm:"type:text"`
	PaidAt       *time.Time            `gorm:"index"`
	RefundedAt   *time.Time
	CancelledAt  *time.Time
	Student      *UserModel    `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT"`
	Booking      *BookingModel `gorm:"foreignKey:BookingID;constraint:OnDelete:SET NULL"`
}

func (PaymentModel) TableName() string {
	return "payments"
}

func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		StudentID:         m.StudentID,
		BookingID:         m.BookingID,
		Type:              m.Type,
		Amount:            m.Amount,
		BillingMonth:      m.BillingMonth,
		DueDate:           valueobject.TruncateDay(time.Time(m.DueDate)),
		Status:            m.Status,
		Method:            m.Method,
		Reference:         m.Reference,
		Notes:             m.Notes,
		PaidAt:            m.PaidAt,
		RefundedAt:        m.RefundedAt,
		CancelledAt:       m.CancelledAt,
	}
}

func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{
		StudentID:    p.StudentID,
		BookingID:    p.BookingID,
		Type:         p.Type,
		Amount:       p.Amount,
		BillingMonth: p.BillingMonth,
		DueDate:      datatypes.Date(valueobject.TruncateDay(p.DueDate)),
		Status:       p.Status,
		Method:       p.Method,
		Reference:    p.Reference,
		Notes:        p.Notes,
		PaidAt:       utc(p.PaidAt),
		RefundedAt:   utc(p.RefundedAt),
		CancelledAt:  utc(p.CancelledAt),
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
