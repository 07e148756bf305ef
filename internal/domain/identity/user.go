package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/hostelhub/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE" // Disabled by an administrator
	UserStatusLocked   UserStatus = "LOCKED"   // Too many failed logins
)

// PasswordCost is the bcrypt cost used for new password hashes.
var PasswordCost = 12

var (
	emailRegex         = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	studentNumberRegex = regexp.MustCompile(`^[A-Za-z0-9\-/]{3,32}$`)
	hasLetter          = regexp.MustCompile(`[a-zA-Z]`)
	hasNumber          = regexp.MustCompile(`[0-9]`)
)

// User is a hostel account, either a resident student or an administrator
type User struct {
	shared.BaseAggregateRoot
	Email             string
	Name              string
	Phone             string
	PasswordHash      string
	Role              shared.Role
	Status            UserStatus
	Gender            shared.Gender
	StudentNumber     string
	GuardianName      string
	GuardianPhone     string
	TOTPSecret        string
	TwoFactorEnabled  bool
	LastLoginAt       *time.Time
	LastLoginIP       string
	FailedAttempts    int
	LockedUntil       *time.Time
	PasswordChangedAt *time.Time
}

// NewUser creates an active user with the given role
func NewUser(email, name, password string, role shared.Role) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be ADMIN or STUDENT")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password").WithCause(err)
	}

	now := time.Now()
	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              strings.TrimSpace(name),
		PasswordHash:      hash,
		Role:              role,
		Status:            UserStatusActive,
		PasswordChangedAt: &now,
	}

	user.RecordEvent(NewUserCreatedEvent(user))
	return user, nil
}

// NewStudent creates a STUDENT account
func NewStudent(email, name, password string) (*User, error) {
	return NewUser(email, name, password, shared.RoleStudent)
}

// NewAdmin creates an ADMIN account
func NewAdmin(email, name, password string) (*User, error) {
	return NewUser(email, name, password, shared.RoleAdmin)
}

// ProfileUpdate carries optional profile changes; nil fields are left untouched
type ProfileUpdate struct {
	Name          *string
	Email         *string
	Phone         *string
	Gender        *shared.Gender
	StudentNumber *string
	GuardianName  *string
	GuardianPhone *string
}

// UpdateProfile applies a profile update
func (u *User) UpdateProfile(p ProfileUpdate) error {
	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
		u.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		email := NormalizeEmail(*p.Email)
		if err := validateEmail(email); err != nil {
			return err
		}
		u.Email = email
	}
	if p.Phone != nil {
		if err := validatePhone(*p.Phone); err != nil {
			return err
		}
		u.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Gender != nil {
		if !p.Gender.IsValid() {
			return shared.NewDomainError("INVALID_GENDER", "Gender must be MALE, FEMALE or OTHER")
		}
		u.Gender = *p.Gender
	}
	if p.StudentNumber != nil {
		sn := strings.TrimSpace(*p.StudentNumber)
		if sn != "" && !studentNumberRegex.MatchString(sn) {
			return shared.NewDomainError("INVALID_STUDENT_NUMBER", "Student number has an invalid format")
		}
		u.StudentNumber = sn
	}
	if p.GuardianName != nil {
		u.GuardianName = strings.TrimSpace(*p.GuardianName)
	}
	if p.GuardianPhone != nil {
		if err := validatePhone(*p.GuardianPhone); err != nil {
			return err
		}
		u.GuardianPhone = strings.TrimSpace(*p.GuardianPhone)
	}

	u.Touch()
	return nil
}

// ChangeRole switches the user's role
func (u *User) ChangeRole(role shared.Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be ADMIN or STUDENT")
	}
	if u.Role == role {
		return nil
	}
	u.Role = role
	u.Touch()
	return nil
}

// ChangePassword changes the user's password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password").WithCause(err)
	}

	now := time.Now()
	u.PasswordHash = hash
	u.PasswordChangedAt = &now
	u.Touch()

	u.RecordEvent(NewUserPasswordChangedEvent(u))
	return nil
}

// VerifyPassword reports whether password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Activate re-enables a disabled or locked account
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("USER_ALREADY_ACTIVE", "User is already active")
	}
	old := u.Status
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()

	u.RecordEvent(NewUserStatusChangedEvent(u, old))
	return nil
}

// Deactivate disables the account
func (u *User) Deactivate() error {
	if u.Status == UserStatusInactive {
		return shared.NewDomainError("USER_ALREADY_INACTIVE", "User is already inactive")
	}
	old := u.Status
	u.Status = UserStatusInactive
	u.Touch()

	u.RecordEvent(NewUserStatusChangedEvent(u, old))
	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.Touch()
}

// RecordLoginFailure records a failed login attempt and reports whether the account got locked
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.Touch()

	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts && u.Status == UserStatusActive {
		old := u.Status
		until := time.Now().Add(lockDuration)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
		u.RecordEvent(NewUserStatusChangedEvent(u, old))
		return true
	}
	return false
}

// IsLocked reports whether the account is locked and the lock has not expired
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	return u.LockedUntil == nil || time.Now().Before(*u.LockedUntil)
}

// CanLogin reports whether the account may authenticate
func (u *User) CanLogin() bool {
	if u.Status == UserStatusInactive {
		return false
	}
	return !u.IsLocked()
}

func (u *User) IsAdmin() bool {
	return u.Role == shared.RoleAdmin
}

func (u *User) IsStudent() bool {
	return u.Role == shared.RoleStudent
}

// SetPendingTOTPSecret stores a secret that becomes active once EnableTwoFactor is called
func (u *User) SetPendingTOTPSecret(secret string) error {
	if u.TwoFactorEnabled {
		return shared.NewDomainError("TWO_FACTOR_ALREADY_ENABLED", "Two-factor authentication is already enabled")
	}
	u.TOTPSecret = secret
	u.Touch()
	return nil
}

// EnableTwoFactor turns on TOTP verification at login
func (u *User) EnableTwoFactor() error {
	if u.TOTPSecret == "" {
		return shared.NewDomainError("TWO_FACTOR_NOT_SETUP", "Two-factor authentication has not been set up")
	}
	u.TwoFactorEnabled = true
	u.Touch()
	return nil
}

// DisableTwoFactor turns off TOTP verification and forgets the secret
func (u *User) DisableTwoFactor() {
	u.TwoFactorEnabled = false
	u.TOTPSecret = ""
	u.Touch()
}

// Actor returns the user as a service caller
func (u *User) Actor() shared.Actor {
	return shared.NewActor(u.ID, u.Role)
}

// ValidatePassword checks password strength rules
func ValidatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasNumber.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

// NormalizeEmail is the stored form of an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validatePhone(phone string) error {
	if len(strings.TrimSpace(phone)) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
