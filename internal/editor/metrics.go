package editor

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/courtside/rotations/internal/editor"

type metrics struct {
	transitionsIgnored metric.Int64Counter
}

func newMetrics() (*metrics, error) {
	m := otel.Meter(instrumentationName)

	ignored, err := m.Int64Counter(
		"editor.transitions.ignored",
		metric.WithDescription("Triggers fired in a phase with no matching transition"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ignored counter: %w", err)
	}
	return &metrics{transitionsIgnored: ignored}, nil
}

func (m *metrics) ignored(from, trigger string) {
	m.transitionsIgnored.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("phase", from),
		attribute.String("trigger", trigger),
	))
}
