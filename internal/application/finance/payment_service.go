package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hostelhub/backend/internal/application/common"
	"github.com/hostelhub/backend/internal/domain/bulk"
	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/identity"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/shared/valueobject"
	"github.com/hostelhub/backend/internal/infrastructure/printing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	errChargeExists = shared.NewDomainError("PAYMENT_ALREADY_EXISTS", "A charge of this type already exists for the booking and month")
	errNotPaid      = shared.NewDomainError("PAYMENT_NOT_PAID", "Receipts are only available for paid payments")
	errNotStudent   = shared.NewDomainError("INVALID_STUDENT", "Charges can only be raised against students")
)

// PaymentServiceConfig holds billing settings
type PaymentServiceConfig struct {
	HostelName string
	// RentDueDay is the day of the month generated rent falls due (1-28)
	RentDueDay int
}

// PaymentService manages charges, settlements and receipts
type PaymentService struct {
	paymentRepo finance.PaymentRepository
	userRepo    identity.UserRepository
	bookingRepo housing.BookingRepository
	roomRepo    housing.RoomRepository
	publisher   shared.EventPublisher
	templates   *printing.TemplateEngine
	renderer    printing.PDFRenderer
	config      PaymentServiceConfig
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService. renderer may be nil when
// PDF receipts are disabled.
func NewPaymentService(
	paymentRepo finance.PaymentRepository,
	userRepo identity.UserRepository,
	bookingRepo housing.BookingRepository,
	roomRepo housing.RoomRepository,
	publisher shared.EventPublisher,
	templates *printing.TemplateEngine,
	renderer printing.PDFRenderer,
	config PaymentServiceConfig,
	logger *zap.Logger,
) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.RentDueDay < 1 || config.RentDueDay > 28 {
		config.RentDueDay = 5
	}
	if config.HostelName == "" {
		config.HostelName = "Hostel"
	}
	if templates == nil {
		templates = printing.NewTemplateEngine()
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		publisher:   publisher,
		templates:   templates,
		renderer:    renderer,
		config:      config,
		logger:      logger,
	}
}

// List returns payments. Students only see their own.
func (s *PaymentService) List(ctx context.Context, actor shared.Actor, input ListPaymentsInput) (*shared.Paginated[PaymentDTO], error) {
	if !actor.IsAdmin() {
		input.StudentID = &actor.UserID
	}
	if input.BillingMonth != "" && !finance.ValidBillingMonth(input.BillingMonth) {
		return nil, shared.NewDomainError("INVALID_BILLING_MONTH", "Billing month must use the YYYY-MM format")
	}
	filter := finance.PaymentFilter{
		StudentID:    input.StudentID,
		BookingID:    input.BookingID,
		Status:       input.Status,
		Type:         input.Type,
		BillingMonth: input.BillingMonth,
		Page:         input.Page,
		PageSize:     input.PageSize,
		SortBy:       input.SortBy,
		SortOrder:    input.SortOrder,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	payments, total, err := s.paymentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		items[i] = ToPaymentDTO(p)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns one payment
func (s *PaymentService) Get(ctx context.Context, actor shared.Actor, id uuid.UUID) (*PaymentDTO, error) {
	payment, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	dto := ToPaymentDTO(payment)
	return &dto, nil
}

// Create raises a charge against a student
func (s *PaymentService) Create(ctx context.Context, input CreatePaymentInput) (*PaymentDTO, error) {
	student, err := s.userRepo.FindByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}
	if student.Role != shared.RoleStudent {
		return nil, errNotStudent
	}
	if input.BookingID != nil {
		booking, err := s.bookingRepo.FindByID(ctx, *input.BookingID)
		if err != nil {
			return nil, err
		}
		if booking.StudentID != student.ID {
			return nil, shared.NewDomainError("INVALID_BOOKING", "Booking belongs to another student")
		}
	}

	payment, err := finance.NewPayment(student.ID, input.BookingID, input.Type, input.Amount,
		input.BillingMonth, input.DueDate, input.Notes)
	if err != nil {
		return nil, err
	}
	if payment.BookingID != nil && payment.BillingMonth != "" {
		exists, err := s.paymentRepo.ExistsForBookingMonth(ctx, *payment.BookingID, payment.Type, payment.BillingMonth)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errChargeExists
		}
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, payment)

	s.logger.Info("Payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("student_id", student.ID.String()),
		zap.String("type", string(payment.Type)),
		zap.String("amount", payment.Amount.String()))
	dto := ToPaymentDTO(payment)
	return &dto, nil
}

// Pay settles a PENDING or OVERDUE payment. Owners may pay their own charges.
func (s *PaymentService) Pay(ctx context.Context, actor shared.Actor, id uuid.UUID, input PayInput) (*PaymentDTO, error) {
	return s.apply(ctx, actor, id, func(p *finance.Payment) error {
		return p.MarkPaid(input.Method, input.Reference)
	})
}

// Refund reverses a PAID payment
func (s *PaymentService) Refund(ctx context.Context, id uuid.UUID, notes string) (*PaymentDTO, error) {
	return s.apply(ctx, shared.SystemActor, id, func(p *finance.Payment) error {
		return p.Refund(notes)
	})
}

// Cancel voids an outstanding payment
func (s *PaymentService) Cancel(ctx context.Context, id uuid.UUID, notes string) (*PaymentDTO, error) {
	return s.apply(ctx, shared.SystemActor, id, func(p *finance.Payment) error {
		return p.Cancel(notes)
	})
}

// UpdateStatus applies a status change by name
func (s *PaymentService) UpdateStatus(ctx context.Context, id uuid.UUID, status finance.PaymentStatus, method finance.PaymentMethod, reference, notes string) (*PaymentDTO, error) {
	return s.apply(ctx, shared.SystemActor, id, func(p *finance.Payment) error {
		return p.TransitionTo(status, method, reference, notes)
	})
}

func (s *PaymentService) apply(ctx context.Context, actor shared.Actor, id uuid.UUID, fn func(*finance.Payment) error) (*PaymentDTO, error) {
	payment, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := fn(payment); err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, payment)

	s.logger.Info("Payment status changed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("status", string(payment.Status)))
	dto := ToPaymentDTO(payment)
	return &dto, nil
}

// Summary sums amounts per status. Students always get their own figures.
func (s *PaymentService) Summary(ctx context.Context, actor shared.Actor, studentID *uuid.UUID) (*SummaryDTO, error) {
	if !actor.IsAdmin() {
		studentID = &actor.UserID
	}
	sum, err := s.paymentRepo.Summarize(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &SummaryDTO{
		TotalPaid:     sum.TotalPaid,
		TotalPending:  sum.TotalPending,
		TotalOverdue:  sum.TotalOverdue,
		TotalRefunded: sum.TotalRefunded,
		Outstanding:   sum.Outstanding(),
		PaidCount:     sum.PaidCount,
		PendingCount:  sum.PendingCount,
		OverdueCount:  sum.OverdueCount,
	}, nil
}

// MonthlyTotals returns paid revenue per month of year, twelve entries
func (s *PaymentService) MonthlyTotals(ctx context.Context, actor shared.Actor, year int, studentID *uuid.UUID) (*MonthlyTotalsDTO, error) {
	if !actor.IsAdmin() {
		studentID = &actor.UserID
	}
	if year == 0 {
		year = time.Now().Year()
	}
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("INVALID_YEAR", "Year must be between 2000 and 2100")
	}
	rows, err := s.paymentRepo.MonthlyTotals(ctx, year, studentID)
	if err != nil {
		return nil, err
	}
	months := finance.FillYear(year, rows)
	total := decimal.Zero
	for _, m := range months {
		total = total.Add(m.Total)
	}
	return &MonthlyTotalsDTO{Year: year, Months: months, Total: total}, nil
}

// Receipt renders the PDF receipt of a PAID payment
func (s *PaymentService) Receipt(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReceiptFile, error) {
	payment, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if payment.Status != finance.PaymentStatusPaid || payment.PaidAt == nil {
		return nil, errNotPaid
	}
	if s.renderer == nil {
		return nil, shared.NewDomainError("PDF_DISABLED", "PDF rendering is not configured")
	}
	student, err := s.userRepo.FindByID(ctx, payment.StudentID)
	if err != nil {
		return nil, err
	}

	receipt := s.buildReceipt(payment, student)
	html, err := s.templates.RenderReceipt(receipt)
	if err != nil {
		return nil, err
	}
	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:      html,
		PaperSize: printing.PaperSizeA5,
		Title:     "Receipt " + receipt.Number,
	})
	if err != nil {
		return nil, err
	}
	return &ReceiptFile{FileName: "receipt-" + receipt.Number + ".pdf", Content: result.PDFData}, nil
}

func (s *PaymentService) buildReceipt(p *finance.Payment, student *identity.User) *printing.Receipt {
	description := strings.ToLower(string(p.Type))
	if p.BillingMonth != "" {
		description += " for " + p.BillingMonth
	}
	return &printing.Receipt{
		Number:       receiptNumber(p),
		PaymentID:    p.ID,
		HostelName:   s.config.HostelName,
		StudentName:  student.Name,
		StudentEmail: student.Email,
		Type:         string(p.Type),
		Description:  description,
		BillingMonth: p.BillingMonth,
		Amount:       p.Amount,
		Method:       string(p.Method),
		Reference:    p.Reference,
		PaidAt:       *p.PaidAt,
		IssuedAt:     time.Now(),
	}
}

func receiptNumber(p *finance.Payment) string {
	return fmt.Sprintf("R%s-%s", p.PaidAt.UTC().Format("20060102"), strings.ToUpper(p.ID.String()[:8]))
}

// MarkOverdue flags PENDING payments whose due date has passed
func (s *PaymentService) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.paymentRepo.FindPendingDueBefore(ctx, valueobject.TruncateDay(now))
	if err != nil {
		return 0, err
	}
	done := 0
	for _, p := range due {
		if err := p.MarkOverdue(); err != nil {
			continue
		}
		if err := s.paymentRepo.Update(ctx, p); err != nil {
			s.logger.Warn("Failed to mark payment overdue", zap.String("payment_id", p.ID.String()), zap.Error(err))
			continue
		}
		common.PublishEvents(ctx, s.publisher, s.logger, p)
		done++
	}
	if done > 0 {
		s.logger.Info("Payments marked overdue", zap.Int("count", done))
	}
	return done, nil
}

// GenerateRent raises the rent charge of month for every ACTIVE booking.
// Bookings already charged for the month are skipped, so reruns are safe.
func (s *PaymentService) GenerateRent(ctx context.Context, month string) (*bulk.Result, error) {
	start, err := finance.ParseBillingMonth(month)
	if err != nil {
		return nil, err
	}
	due := start.AddDate(0, 0, s.config.RentDueDay-1)

	bookings, err := s.bookingRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	result := bulk.NewResult(len(bookings))
	rents := make(map[uuid.UUID]decimal.Decimal)
	for _, b := range bookings {
		created, err := s.chargeRent(ctx, b, month, due, rents)
		if err != nil {
			result.FailID(b.ID, err)
			continue
		}
		if created {
			result.Success()
		} else {
			result.Skip()
		}
	}
	s.logger.Info("Rent generated",
		zap.String("month", month),
		zap.Int("bookings", result.Total),
		zap.Int("created", result.Succeeded),
		zap.Int("failed", result.Failed))
	return result, nil
}

// ChargeFirstMonth raises the rent of the month a booking starts in unless it exists
func (s *PaymentService) ChargeFirstMonth(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return false, err
	}
	return s.chargeRent(ctx, booking, finance.BillingMonthOf(booking.StartDate), booking.StartDate, nil)
}

func (s *PaymentService) chargeRent(ctx context.Context, b *housing.Booking, month string, due time.Time, rents map[uuid.UUID]decimal.Decimal) (bool, error) {
	exists, err := s.paymentRepo.ExistsForBookingMonth(ctx, b.ID, finance.PaymentTypeRent, month)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	rent, ok := rents[b.RoomID]
	if !ok {
		room, err := s.roomRepo.FindByID(ctx, b.RoomID)
		if err != nil {
			return false, err
		}
		rent = room.MonthlyRent
		if rents != nil {
			rents[b.RoomID] = rent
		}
	}
	if !rent.IsPositive() {
		return false, nil
	}

	payment, err := finance.NewRentCharge(b.StudentID, b.ID, rent, month, due)
	if err != nil {
		return false, err
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	common.PublishEvents(ctx, s.publisher, s.logger, payment)
	return true, nil
}

func (s *PaymentService) load(ctx context.Context, actor shared.Actor, id uuid.UUID) (*finance.Payment, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(payment.StudentID) {
		return nil, shared.ErrForbidden
	}
	return payment, nil
}
