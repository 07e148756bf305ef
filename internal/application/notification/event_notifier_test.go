package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/domain/community"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notifierFixture struct {
	repo   *MockNotificationRepository
	users  *MockUserRepository
	events *MockEventRepository
	sent   *capture
	h      *EventNotifier
}

func newNotifierFixture() *notifierFixture {
	f := &notifierFixture{
		repo:   new(MockNotificationRepository),
		users:  new(MockUserRepository),
		events: new(MockEventRepository),
		sent:   &capture{},
	}
	f.sent.expect(f.repo)
	f.h = NewEventNotifier(NewService(f.repo, f.users, nil), f.events, nil)
	return f
}

func TestEventNotifier_BookingEvents(t *testing.T) {
	ctx := context.Background()
	f := newNotifierFixture()
	admins := []uuid.UUID{uuid.New(), uuid.New()}
	f.users.On("FindIDsByRole", ctx, shared.RoleAdmin).Return(admins, nil)

	booking := &housing.Booking{StudentID: uuid.New(), RoomID: uuid.New(), StartDate: time.Now(), EndDate: time.Now().AddDate(0, 6, 0)}
	booking.ID = uuid.New()

	require.NoError(t, f.h.Handle(ctx, housing.NewBookingCreatedEvent(booking)))
	require.NoError(t, f.h.Handle(ctx, housing.NewBookingConfirmedEvent(booking)))
	booking.CancelReason = "Changed plans"
	require.NoError(t, f.h.Handle(ctx, housing.NewBookingCancelledEvent(booking, true)))

	sent := f.sent.all()
	require.Len(t, sent, 4)
	assert.Equal(t, admins[0], sent[0].UserID)
	assert.Equal(t, "New booking request", sent[0].Title)
	assert.Equal(t, booking.StudentID, sent[2].UserID)
	assert.Equal(t, "Booking confirmed", sent[2].Title)
	assert.Contains(t, sent[3].Message, "Changed plans")
	assert.Equal(t, "/bookings/"+booking.ID.String(), sent[3].Link)
	assert.Equal(t, notification.TypeBooking, sent[3].Type)
}

func TestEventNotifier_PaymentEvent(t *testing.T) {
	ctx := context.Background()
	f := newNotifierFixture()

	p := &finance.Payment{StudentID: uuid.New(), Type: finance.PaymentTypeRent, Amount: decimal.NewFromInt(450), BillingMonth: "2026-10"}
	p.ID = uuid.New()

	require.NoError(t, f.h.Handle(ctx, finance.NewPaymentEvent(finance.EventTypePaymentOverdue, p)))
	sent := f.sent.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "Payment overdue", sent[0].Title)
	assert.Equal(t, "Your rent for 2026-10 payment of 450.00 is overdue", sent[0].Message)
}

func TestEventNotifier_NoticeFansOutToAudience(t *testing.T) {
	ctx := context.Background()
	f := newNotifierFixture()
	students := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	admins := []uuid.UUID{uuid.New()}
	f.users.On("FindIDsByRole", ctx, shared.RoleStudent).Return(students, nil)
	f.users.On("FindIDsByRole", ctx, shared.RoleAdmin).Return(admins, nil)

	notice, err := community.NewNotice(uuid.New(), "Water outage", "Sunday", community.AudienceAll, community.PriorityUrgent, false, nil)
	require.NoError(t, err)

	require.NoError(t, f.h.Handle(ctx, community.NewNoticePublishedEvent(notice)))
	sent := f.sent.all()
	assert.Len(t, sent, 4)
	assert.Equal(t, "[URGENT] Water outage", sent[0].Title)

	f2 := newNotifierFixture()
	f2.users.On("FindIDsByRole", ctx, shared.RoleStudent).Return(students, nil)
	studentsOnly, err := community.NewNotice(uuid.New(), "Mess menu", "Pasta", community.AudienceStudent, community.PriorityLow, false, nil)
	require.NoError(t, err)
	require.NoError(t, f2.h.Handle(ctx, community.NewNoticePublishedEvent(studentsOnly)))
	assert.Len(t, f2.sent.all(), 3)
	f2.users.AssertNotCalled(t, "FindIDsByRole", ctx, shared.RoleAdmin)
}

func TestEventNotifier_EventCancelledNotifiesRegistrants(t *testing.T) {
	ctx := context.Background()
	f := newNotifierFixture()

	start := time.Now().Add(24 * time.Hour)
	event, err := community.NewEvent(uuid.New(), "Quiz", "", "", start, start.Add(time.Hour), 0)
	require.NoError(t, err)
	a, b := uuid.New(), uuid.New()
	f.events.On("ListRegistrations", ctx, event.ID).Return([]community.Registration{{UserID: a}, {UserID: b}}, nil)

	require.NoError(t, f.h.Handle(ctx, community.NewEventChangedEvent(community.EventTypeEventScheduled, event)))
	assert.Empty(t, f.sent.all())

	require.NoError(t, f.h.Handle(ctx, community.NewEventChangedEvent(community.EventTypeEventCancelled, event)))
	sent := f.sent.all()
	require.Len(t, sent, 2)
	assert.Equal(t, notification.TypeEvent, sent[0].Type)
	assert.Contains(t, sent[0].Message, "Quiz")
}

func TestEventNotifier_WelfareEvents(t *testing.T) {
	ctx := context.Background()
	f := newNotifierFixture()
	admin := uuid.New()
	f.users.On("FindIDsByRole", ctx, shared.RoleAdmin).Return([]uuid.UUID{admin}, nil)

	student := uuid.New()
	complaint, err := welfare.NewComplaint(student, nil, welfare.CategoryFood, "Cold dinner", "Again", "")
	require.NoError(t, err)
	require.NoError(t, f.h.Handle(ctx, welfare.NewComplaintEvent(welfare.EventTypeComplaintFiled, complaint)))
	require.NoError(t, complaint.ChangeStatus(welfare.ComplaintStatusInProgress, ""))
	require.NoError(t, f.h.Handle(ctx, welfare.NewComplaintEvent(welfare.EventTypeComplaintStatusChanged, complaint)))

	from := time.Now().AddDate(0, 0, 1)
	leave, err := welfare.NewLeaveApplication(student, from, from.AddDate(0, 0, 2), "Home", "", "")
	require.NoError(t, err)
	require.NoError(t, leave.Approve(admin, ""))
	require.NoError(t, f.h.Handle(ctx, welfare.NewLeaveEvent(welfare.EventTypeLeaveApproved, leave)))

	sent := f.sent.all()
	require.Len(t, sent, 3)
	assert.Equal(t, admin, sent[0].UserID)
	assert.Equal(t, student, sent[1].UserID)
	assert.Contains(t, sent[1].Message, "in progress")
	assert.Equal(t, "Leave approved", sent[2].Title)
}

func TestEventNotifier_RoommateEvents(t *testing.T) {
	ctx := context.Background()
	f := newNotifierFixture()
	requester, target := uuid.New(), uuid.New()

	req, err := housing.NewRoommateRequest(requester, target, nil, "Hi")
	require.NoError(t, err)
	require.NoError(t, f.h.Handle(ctx, housing.NewRoommateRequestEvent(housing.EventTypeRoommateRequested, req)))
	require.NoError(t, req.Accept(target))
	require.NoError(t, f.h.Handle(ctx, housing.NewRoommateRequestEvent(housing.EventTypeRoommateAccepted, req)))

	sent := f.sent.all()
	require.Len(t, sent, 2)
	assert.Equal(t, target, sent[0].UserID)
	assert.Equal(t, requester, sent[1].UserID)
	assert.Equal(t, "Roommate request accepted", sent[1].Title)
}

func TestEventNotifier_UnknownEvent(t *testing.T) {
	f := newNotifierFixture()
	other := shared.NewBaseDomainEvent("Other", "Thing", uuid.New())
	assert.Error(t, f.h.Handle(context.Background(), &other))
}
