package telemetry

import (
	"context"
	"errors"

	"github.com/hostelhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Telemetry bundles every provider the server starts
type Telemetry struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
	Business *BusinessMetrics
}

// Setup starts profiling first so span profiles can attach to the tracer.
// Providers that were started are shut down again when a later one fails.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Telemetry{}
	var err error

	if t.Profiler, err = NewProfiler(cfg, logger); err != nil {
		return nil, err
	}
	if t.Tracer, err = NewTracerProvider(ctx, cfg, logger); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if t.Profiler.IsEnabled() {
		t.Tracer.EnableSpanProfiles()
	}
	if t.Meter, err = NewMeterProvider(ctx, cfg, logger); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if t.Logs, err = NewLoggerProvider(ctx, cfg, logger); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	if t.Business, err = NewBusinessMetrics(t.Meter.Meter("hostel-backend/business")); err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}
	return t, nil
}

// Shutdown flushes every started provider and joins their errors
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Logs != nil {
		errs = append(errs, t.Logs.Shutdown(ctx))
	}
	if t.Meter != nil {
		errs = append(errs, t.Meter.Shutdown(ctx))
	}
	if t.Tracer != nil {
		errs = append(errs, t.Tracer.Shutdown(ctx))
	}
	if t.Profiler != nil {
		errs = append(errs, t.Profiler.Stop())
	}
	return errors.Join(errs...)
}
