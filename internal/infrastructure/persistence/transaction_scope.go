package persistence

import (
	"context"

	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"gorm.io/gorm"
)

// GormTransactionScope implements common.TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction, rolling back when it returns an error.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos common.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormTransactionalRepositories) Rooms() housing.RoomRepository {
	return NewGormRoomRepository(r.tx)
}

func (r *gormTransactionalRepositories) Bookings() housing.BookingRepository {
	return NewGormBookingRepository(r.tx)
}

func (r *gormTransactionalRepositories) Payments() finance.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) Events() community.EventRepository {
	return NewGormEventRepository(r.tx)
}

func (r *gormTransactionalRepositories) Leaves() welfare.LeaveRepository {
	return NewGormLeaveRepository(r.tx)
}

var (
	_ common.TransactionScope          = (*GormTransactionScope)(nil)
	_ common.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
