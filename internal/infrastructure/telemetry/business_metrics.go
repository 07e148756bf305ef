package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/hostelhub/backend/internal/domain/finance"
	"github.com/hostelhub/backend/internal/domain/housing"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/domain/welfare"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned by NewBusinessMetrics without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BusinessMetrics counts hostel activity. It subscribes to the event bus for
// bookings, payments and complaints, and observes scheduler jobs.
type BusinessMetrics struct {
	bookings      *Counter
	paymentsPaid  *Counter
	paymentAmount *Histogram
	overdue       *Counter
	complaints    *Counter
	jobRuns       *Counter
	jobDuration   *Histogram
	jobAffected   *Counter
	reports       *Counter
	occupancy     *FloatGauge
}

// NewBusinessMetrics creates the instruments on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	var (
		bm  BusinessMetrics
		err error
	)
	if bm.bookings, err = NewCounter(meter, "hostel.bookings", "Booking lifecycle transitions", "{booking}"); err != nil {
		return nil, err
	}
	if bm.paymentsPaid, err = NewCounter(meter, "hostel.payments.paid", "Payments settled", "{payment}"); err != nil {
		return nil, err
	}
	if bm.paymentAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "hostel.payments.amount",
		Description: "Settled payment amounts",
		Unit:        "{currency}",
		Buckets:     []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}); err != nil {
		return nil, err
	}
	if bm.overdue, err = NewCounter(meter, "hostel.payments.overdue", "Payments marked overdue", "{payment}"); err != nil {
		return nil, err
	}
	if bm.complaints, err = NewCounter(meter, "hostel.complaints.filed", "Complaints filed", "{complaint}"); err != nil {
		return nil, err
	}
	if bm.jobRuns, err = NewCounter(meter, "hostel.scheduler.runs", "Finished scheduler job runs", "{run}"); err != nil {
		return nil, err
	}
	if bm.jobDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "hostel.scheduler.duration",
		Description: "Scheduler job run time",
		Unit:        "s",
		Buckets:     JobDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if bm.jobAffected, err = NewCounter(meter, "hostel.scheduler.affected", "Records changed by scheduler jobs", "{record}"); err != nil {
		return nil, err
	}
	if bm.reports, err = NewCounter(meter, "hostel.reports.generated", "Reports generated", "{report}"); err != nil {
		return nil, err
	}
	if bm.occupancy, err = NewFloatGauge(meter, "hostel.occupancy.rate", "Occupied share of total capacity", "1"); err != nil {
		return nil, err
	}
	return &bm, nil
}

// EventTypes implements shared.EventHandler
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		housing.EventTypeBookingCreated,
		housing.EventTypeBookingConfirmed,
		housing.EventTypeBookingCheckedIn,
		housing.EventTypeBookingCompleted,
		housing.EventTypeBookingCancelled,
		finance.EventTypePaymentPaid,
		finance.EventTypePaymentOverdue,
		welfare.EventTypeComplaintFiled,
	}
}

// Handle implements shared.EventHandler
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *finance.PaymentEvent:
		typ := AttrPaymentType.String(string(e.Type))
		switch e.EventType() {
		case finance.EventTypePaymentPaid:
			bm.paymentsPaid.Inc(ctx, typ)
			amount, _ := e.Amount.Float64()
			bm.paymentAmount.Record(ctx, amount, typ)
		case finance.EventTypePaymentOverdue:
			bm.overdue.Inc(ctx, typ)
		}
	case *welfare.ComplaintEvent:
		bm.complaints.Inc(ctx, AttrCategory.String(string(e.Category)))
	default:
		if event.AggregateType() == housing.AggregateTypeBooking {
			bm.bookings.Inc(ctx, AttrBookingStatus.String(event.EventType()))
		}
	}
	return nil
}

// ObserveJob records one finished scheduler run
func (bm *BusinessMetrics) ObserveJob(ctx context.Context, name string, d time.Duration, affected int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	bm.jobRuns.Inc(ctx, AttrJob.String(name), AttrOutcome.String(outcome))
	bm.jobDuration.RecordDuration(ctx, d, AttrJob.String(name))
	if affected > 0 {
		bm.jobAffected.Add(ctx, int64(affected), AttrJob.String(name))
	}
}

// RecordReport counts a generated report
func (bm *BusinessMetrics) RecordReport(ctx context.Context, kind, format string) {
	bm.reports.Inc(ctx, AttrCategory.String(kind), AttrFormat.String(format))
}

// RecordOccupancy sets the current occupancy rate, 0 to 1
func (bm *BusinessMetrics) RecordOccupancy(ctx context.Context, rate float64) {
	bm.occupancy.Record(ctx, rate)
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
