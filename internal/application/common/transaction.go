// Package common holds contracts shared by the application services.
package common

import (
	"context"

	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/welfare"
)

// TransactionScope runs fn inside one database transaction. The transaction is
// rolled back when fn returns an error and committed otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are repositories bound to the running transaction.
// Code inside Execute must only use these, never the non-transactional ones.
type TransactionalRepositories interface {
	Users() identity.UserRepository
	Rooms() housing.RoomRepository
	Bookings() housing.BookingRepository
	Payments() finance.PaymentRepository
	Events() community.EventRepository
	Leaves() welfare.LeaveRepository
}

// Repositories bundles plain repositories. It satisfies TransactionalRepositories
// for callers that run without a real transaction.
type Repositories struct {
	UserRepo    identity.UserRepository
	RoomRepo    housing.RoomRepository
	BookingRepo housing.BookingRepository
	PaymentRepo finance.PaymentRepository
	EventRepo   community.EventRepository
	LeaveRepo   welfare.LeaveRepository
}

func (r Repositories) Users() identity.UserRepository     { return r.UserRepo }
func (r Repositories) Rooms() housing.RoomRepository       { return r.RoomRepo }
func (r Repositories) Bookings() housing.BookingRepository { return r.BookingRepo }
func (r Repositories) Payments() finance.PaymentRepository { return r.PaymentRepo }
func (r Repositories) Events() community.EventRepository   { return r.EventRepo }
func (r Repositories) Leaves() welfare.LeaveRepository     { return r.LeaveRepo }

// NoOpTransactionScope runs fn directly against its repositories.
// It is used by tests and by tools that do not need atomicity.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = Repositories{}
)
