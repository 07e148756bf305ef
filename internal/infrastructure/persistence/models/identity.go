package models

import (
	"time"

	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email             string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name              string              `gorm:"type:varchar(200);not null"`
	Phone             string              `gorm:"type:varchar(50)"`
	PasswordHash      string              `gorm:"type:varchar(255);not null"`
	Role              shared.Role         `gorm:"type:varchar(20);not null;index"`
	Status            identity.UserStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Gender            shared.Gender       `gorm:"type:varchar(20)"`
	StudentNumber     string              `gorm:"type:varchar(32);index"`
	GuardianName      string              `gorm:"type:varchar(200)"`
	GuardianPhone     string              `gorm:"type:varchar(50)"`
	TOTPSecret        string              `gorm:"column:totp_secret;type:varchar(64)"`
	TwoFactorEnabled  bool                `gorm:"not null;default:false"`
	LastLoginAt       *time.Time
	LastLoginIP       string `gorm:"type:varchar(45)"`
	FailedAttempts    int    `gorm:"not null;default:0"`
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		Name:              m.Name,
		Phone:             m.Phone,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		Status:            m.Status,
		Gender:            m.Gender,
		StudentNumber:     m.StudentNumber,
		GuardianName:      m.GuardianName,
		GuardianPhone:     m.GuardianPhone,
		TOTPSecret:        m.TOTPSecret,
		TwoFactorEnabled:  m.TwoFactorEnabled,
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		PasswordChangedAt: m.PasswordChangedAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.Name = u.Name
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.Gender = u.Gender
	m.StudentNumber = u.StudentNumber
	m.GuardianName = u.GuardianName
	m.GuardianPhone = u.GuardianPhone
	m.TOTPSecret = u.TOTPSecret
	m.TwoFactorEnabled = u.TwoFactorEnabled
	m.LastLoginAt = utc(u.LastLoginAt)
	m.LastLoginIP = u.LastLoginIP
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = utc(u.LockedUntil)
	m.PasswordChangedAt = utc(u.PasswordChangedAt)
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
