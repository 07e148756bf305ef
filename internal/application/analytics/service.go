// Package analytics builds the dashboard and statistics views.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/notification"
	"github.com/hostelhub/backend/internal/domain/report"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// KeyPrefix prefixes every cached analytics entry
const KeyPrefix = "analytics:"

// Cache stores computed views as JSON
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// RevenueDTO is paid revenue per month of a year
type RevenueDTO struct {
	Year   int                    `json:"year"`
	Months []finance.MonthlyTotal `json:"months"`
	Total  decimal.Decimal        `json:"total"`
}

// ComplaintStatsDTO groups complaint counts
type ComplaintStatsDTO struct {
	ByCategory []report.CountByKey `json:"by_category"`
	ByStatus   []report.CountByKey `json:"by_status"`
	Total      int64               `json:"total"`
}

// Service computes dashboards, caching administrator views for ttl
type Service struct {
	analytics     report.AnalyticsRepository
	payments      finance.PaymentRepository
	complaints    welfare.ComplaintRepository
	leaves        welfare.LeaveRepository
	notifications notification.Repository
	cache         Cache
	ttl           time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewService creates an analytics Service. A nil cache disables caching.
func NewService(
	analytics report.AnalyticsRepository,
	payments finance.PaymentRepository,
	complaints welfare.ComplaintRepository,
	leaves welfare.LeaveRepository,
	notifications notification.Repository,
	cache Cache,
	ttl time.Duration,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		analytics:     analytics,
		payments:      payments,
		complaints:    complaints,
		leaves:        leaves,
		notifications: notifications,
		cache:         cache,
		ttl:           ttl,
		logger:        logger,
		now:           time.Now,
	}
}

// AdminDashboard returns the administrator summary
func (s *Service) AdminDashboard(ctx context.Context) (*report.AdminDashboard, error) {
	return cached(ctx, s, KeyPrefix+"dashboard", func() (*report.AdminDashboard, error) {
		now := s.now()
		d := &report.AdminDashboard{GeneratedAt: now}

		var err error
		if d.Students, err = s.analytics.CountStudents(ctx); err != nil {
			return nil, err
		}
		overview, err := s.analytics.OccupancyOverview(ctx)
		if err != nil {
			return nil, err
		}
		d.Occupancy = *overview
		if d.BookingsByStatus, err = s.analytics.BookingsByStatus(ctx); err != nil {
			return nil, err
		}

		months, err := s.payments.MonthlyTotals(ctx, now.Year(), nil)
		if err != nil {
			return nil, err
		}
		current := finance.BillingMonthOf(now)
		d.RevenueThisMonth = decimal.Zero
		for _, m := range months {
			if m.Month == current {
				d.RevenueThisMonth = m.Total
			}
		}
		sum, err := s.payments.Summarize(ctx, nil)
		if err != nil {
			return nil, err
		}
		d.PendingAmount = sum.TotalPending
		d.OverdueAmount = sum.TotalOverdue

		byStatus, err := s.complaints.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		d.OpenComplaints = byStatus[welfare.ComplaintStatusOpen] + byStatus[welfare.ComplaintStatusInProgress]
		if d.PendingLeaves, err = s.leaves.CountByStatus(ctx, welfare.LeaveStatusPending); err != nil {
			return nil, err
		}
		if d.UpcomingEvents, err = s.analytics.CountUpcomingEvents(ctx, now); err != nil {
			return nil, err
		}
		return d, nil
	})
}

// Occupancy returns the overall bed usage
func (s *Service) Occupancy(ctx context.Context) (*report.OccupancyOverview, error) {
	return cached(ctx, s, KeyPrefix+"occupancy", func() (*report.OccupancyOverview, error) {
		return s.analytics.OccupancyOverview(ctx)
	})
}

// OccupancyBy groups bed usage by room type, block or floor
func (s *Service) OccupancyBy(ctx context.Context, dim report.OccupancyDimension) ([]report.OccupancyGroup, error) {
	if !dim.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIMENSION", "Group by must be type, block or floor")
	}
	return cached(ctx, s, KeyPrefix+"occupancy:"+string(dim), func() ([]report.OccupancyGroup, error) {
		groups, err := s.analytics.OccupancyBy(ctx, dim)
		if err != nil {
			return nil, err
		}
		for i := range groups {
			groups[i].OccupancyRate = report.Rate(groups[i].Occupied, groups[i].Capacity)
		}
		return groups, nil
	})
}

// Revenue returns paid revenue per month of year; zero means the current year
func (s *Service) Revenue(ctx context.Context, year int) (*RevenueDTO, error) {
	if year == 0 {
		year = s.now().Year()
	}
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("INVALID_YEAR", "Year must be between 2000 and 2100")
	}
	return cached(ctx, s, fmt.Sprintf("%srevenue:%d", KeyPrefix, year), func() (*RevenueDTO, error) {
		rows, err := s.payments.MonthlyTotals(ctx, year, nil)
		if err != nil {
			return nil, err
		}
		months := finance.FillYear(year, rows)
		total := decimal.Zero
		for _, m := range months {
			total = total.Add(m.Total)
		}
		return &RevenueDTO{Year: year, Months: months, Total: total}, nil
	})
}

// Complaints returns complaint counts by category and status
func (s *Service) Complaints(ctx context.Context) (*ComplaintStatsDTO, error) {
	return cached(ctx, s, KeyPrefix+"complaints", func() (*ComplaintStatsDTO, error) {
		byCategory, err := s.complaints.CountByCategory(ctx)
		if err != nil {
			return nil, err
		}
		byStatus, err := s.complaints.CountByStatus(ctx)
		if err != nil {
			return nil, err
		}
		out := &ComplaintStatsDTO{
			ByCategory: make([]report.CountByKey, 0, len(byCategory)),
			ByStatus:   make([]report.CountByKey, 0, len(byStatus)),
		}
		for k, v := range byCategory {
			out.ByCategory = append(out.ByCategory, report.CountByKey{Key: string(k), Count: v})
			out.Total += v
		}
		for k, v := range byStatus {
			out.ByStatus = append(out.ByStatus, report.CountByKey{Key: string(k), Count: v})
		}
		sortCounts(out.ByCategory)
		sortCounts(out.ByStatus)
		return out, nil
	})
}

// StudentDashboard returns the summary for one student. It is never cached.
func (s *Service) StudentDashboard(ctx context.Context, actor shared.Actor) (*report.StudentDashboard, error) {
	now := s.now()
	d := &report.StudentDashboard{GeneratedAt: now}

	var err error
	if d.Booking, err = s.analytics.CurrentBooking(ctx, actor.UserID); err != nil {
		return nil, err
	}
	sum, err := s.payments.Summarize(ctx, &actor.UserID)
	if err != nil {
		return nil, err
	}
	d.PendingAmount = sum.TotalPending
	d.OverdueAmount = sum.TotalOverdue
	if d.UnreadNotifications, err = s.notifications.CountUnread(ctx, actor.UserID); err != nil {
		return nil, err
	}
	if d.UpcomingEvents, err = s.analytics.CountUpcomingEvents(ctx, now); err != nil {
		return nil, err
	}
	if d.PendingLeaves, err = s.analytics.CountLeavesByStudent(ctx, actor.UserID, string(welfare.LeaveStatusPending)); err != nil {
		return nil, err
	}
	return d, nil
}

// Invalidate drops every cached analytics view
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.DeletePrefix(ctx, KeyPrefix)
}

func cached[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	if s.cache == nil {
		return load()
	}
	var hit T
	ok, err := s.cache.Get(ctx, key, &hit)
	if err != nil {
		s.logger.Warn("Analytics cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return hit, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("Analytics cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

func sortCounts(c []report.CountByKey) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].Count != c[j].Count {
			return c[i].Count > c[j].Count
		}
		return c[i].Key < c[j].Key
	})
}
