package telemetry

import (
	"context"
	"runtime/pprof"
	"testing"

	"github.com/hostelhub/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(config.TelemetryConfig{}, nil)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestWithProfilingLabels(t *testing.T) {
	var route, role string
	WithProfilingLabels(context.Background(), map[string]string{
		ProfilingLabelRoute: "/api/v1/rooms/:id",
		ProfilingLabelRole:  "ADMIN",
	}, func(ctx context.Context) {
		route, _ = pprof.Label(ctx, ProfilingLabelRoute)
		role, _ = pprof.Label(ctx, ProfilingLabelRole)
	})
	assert.Equal(t, "/api/v1/rooms/:id", route)
	assert.Equal(t, "ADMIN", role)

	called := false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
	assert.True(t, called)
}

func TestWithJobLabels(t *testing.T) {
	var job string
	WithJobLabels(context.Background(), "expire_pending_bookings", func(ctx context.Context) {
		job, _ = pprof.Label(ctx, "job")
	})
	assert.Equal(t, "expire_pending_bookings", job)
}
