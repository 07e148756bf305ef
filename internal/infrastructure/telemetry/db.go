package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hostelhub/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSlowQuery      = 200 * time.Millisecond
	poolStatsInterval     = 15 * time.Second
	startTimeInstanceKey  = "telemetry:start"
	dbMetricsPluginName   = "hostel:db_metrics"
	slowQueryCallbackName = "hostel:slow_query"
)

// RegisterDBTracing installs otelgorm and flags slow statements on their
// spans. It does nothing unless telemetry and DB tracing are enabled.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, dbSystem string, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []otelgorm.Option{otelgorm.WithDBName(dbSystem)}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	thresh := cfg.DBSlowQueryThresh
	if thresh <= 0 {
		thresh = defaultSlowQuery
	}
	if err := registerTiming(db, "hostel:trace_start", func(tx *gorm.DB) {
		tx.InstanceSet(startTimeInstanceKey, time.Now())
	}, slowQueryCallbackName, func(tx *gorm.DB) {
		markSlowQuery(tx, thresh, logger)
	}); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", thresh),
	)
	return nil
}

func markSlowQuery(tx *gorm.DB, thresh time.Duration, logger *zap.Logger) {
	elapsed, ok := elapsedSince(tx)
	if !ok || elapsed < thresh {
		return
	}
	span := trace.SpanFromContext(tx.Statement.Context)
	span.SetAttributes(
		attribute.Bool("db.slow_query", true),
		attribute.Int64("db.duration_ms", elapsed.Milliseconds()),
	)
	logger.Warn("Slow query",
		zap.String("table", tx.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.String("trace_id", TraceID(tx.Statement.Context)),
	)
}

func elapsedSince(tx *gorm.DB) (time.Duration, bool) {
	v, ok := tx.InstanceGet(startTimeInstanceKey)
	if !ok {
		return 0, false
	}
	start, ok := v.(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

// registerTiming adds a before and after callback around every gorm processor
func registerTiming(db *gorm.DB, beforeName string, before func(*gorm.DB), afterName string, after func(*gorm.DB)) error {
	cb := db.Callback()
	regs := []struct {
		op     string
		before func(name string, fn func(*gorm.DB)) error
		after  func(name string, fn func(*gorm.DB)) error
	}{
		{"create",
			func(n string, fn func(*gorm.DB)) error { return cb.Create().Before("gorm:create").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Create().After("gorm:create").Register(n, fn) }},
		{"query",
			func(n string, fn func(*gorm.DB)) error { return cb.Query().Before("gorm:query").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Query().After("gorm:query").Register(n, fn) }},
		{"update",
			func(n string, fn func(*gorm.DB)) error { return cb.Update().Before("gorm:update").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Update().After("gorm:update").Register(n, fn) }},
		{"delete",
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().Before("gorm:delete").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Delete().After("gorm:delete").Register(n, fn) }},
		{"row",
			func(n string, fn func(*gorm.DB)) error { return cb.Row().Before("gorm:row").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Row().After("gorm:row").Register(n, fn) }},
		{"raw",
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().Before("gorm:raw").Register(n, fn) },
			func(n string, fn func(*gorm.DB)) error { return cb.Raw().After("gorm:raw").Register(n, fn) }},
	}
	for _, r := range regs {
		if err := r.before(beforeName+":"+r.op, before); err != nil {
			return err
		}
		if err := r.after(afterName+":"+r.op, after); err != nil {
			return err
		}
	}
	return nil
}

// DBMetrics records query latency, errors and connection pool usage
type DBMetrics struct {
	queryDuration *Histogram
	queryErrors   *Counter
	poolConns     *Gauge
	logger        *zap.Logger

	mu     sync.Mutex
	sqlDB  *sql.DB
	cancel context.CancelFunc
	done   chan struct{}
}

// NewDBMetrics creates the instruments on meter
func NewDBMetrics(meter metric.Meter, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "db.query.duration",
		Description: "Database statement duration",
		Unit:        "s",
		Buckets:     DBDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	errs, err := NewCounter(meter, "db.query.errors", "Failed database statements", "{error}")
	if err != nil {
		return nil, err
	}
	conns, err := NewGauge(meter, "db.pool.connections", "Connections by pool state", "{connection}")
	if err != nil {
		return nil, err
	}
	return &DBMetrics{
		queryDuration: duration,
		queryErrors:   errs,
		poolConns:     conns,
		logger:        logger,
	}, nil
}

// Name implements gorm.Plugin
func (m *DBMetrics) Name() string {
	return dbMetricsPluginName
}

// Initialize implements gorm.Plugin
func (m *DBMetrics) Initialize(db *gorm.DB) error {
	if sqlDB, err := db.DB(); err == nil {
		m.mu.Lock()
		m.sqlDB = sqlDB
		m.mu.Unlock()
	}
	return registerTiming(db, "hostel:metrics_start", func(tx *gorm.DB) {
		tx.InstanceSet(startTimeInstanceKey, time.Now())
	}, "hostel:metrics_record", m.record)
}

func (m *DBMetrics) record(tx *gorm.DB) {
	elapsed, ok := elapsedSince(tx)
	if !ok {
		return
	}
	ctx := tx.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	attrs := []attribute.KeyValue{
		AttrDBOperation.String(operationOf(tx.Statement.SQL.String())),
		AttrDBTable.String(tx.Statement.Table),
	}
	m.queryDuration.RecordDuration(ctx, elapsed, attrs...)
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		m.queryErrors.Inc(ctx, attrs...)
	}
}

func operationOf(sqlText string) string {
	fields := strings.Fields(sqlText)
	if len(fields) == 0 {
		return "unknown"
	}
	switch op := strings.ToUpper(fields[0]); op {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return op
	case "WITH":
		return "SELECT"
	default:
		return "OTHER"
	}
}

// StartPoolStats samples sql.DBStats until Stop is called
func (m *DBMetrics) StartPoolStats(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil || m.sqlDB == nil {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(poolStatsInterval)
		defer ticker.Stop()
		for {
			m.collectPoolStats(ctx)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func (m *DBMetrics) collectPoolStats(ctx context.Context) {
	m.mu.Lock()
	sqlDB := m.sqlDB
	m.mu.Unlock()
	if sqlDB == nil {
		return
	}
	stats := sqlDB.Stats()
	m.poolConns.Record(ctx, int64(stats.InUse), AttrDBState.String("in_use"))
	m.poolConns.Record(ctx, int64(stats.Idle), AttrDBState.String("idle"))
	m.poolConns.Record(ctx, int64(stats.MaxOpenConnections), AttrDBState.String("max"))
}

// Stop ends pool sampling
func (m *DBMetrics) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

// RegisterDBMetrics creates DBMetrics on the provider and installs it on db
func RegisterDBMetrics(db *gorm.DB, mp *MeterProvider, logger *zap.Logger) (*DBMetrics, error) {
	m, err := NewDBMetrics(mp.Meter("hostel-backend/db"), logger)
	if err != nil {
		return nil, err
	}
	if err := db.Use(m); err != nil {
		return nil, err
	}
	return m, nil
}
