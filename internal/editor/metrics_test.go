package editor

import (
	"context"
	"testing"

	"github.com/courtside/rotations/internal/court"
	"github.com/courtside/rotations/internal/phase"
	"github.com/courtside/rotations/internal/position"
	"github.com/courtside/rotations/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestIgnoredTransitionsAreCounted(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
	t.Cleanup(func() { otel.SetMeterProvider(noop.NewMeterProvider()) })

	s, err := New(position.NewResolver(court.DefaultTable(), memory.New()), Options{})
	require.NoError(t, err)

	assert.False(t, s.Fire(phase.AttackExecuted))
	assert.False(t, s.Fire(phase.DigFailed))
	assert.True(t, s.Fire(phase.StartServe))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "editor.transitions.ignored" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	assert.Equal(t, int64(2), total)
}
