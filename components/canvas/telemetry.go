package canvas

import (
	"context"

	"go.uber.org/zap"
)

// Telemetry records canvas events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// LogTelemetry writes telemetry events to a zap logger at debug level.
type LogTelemetry struct {
	Logger *zap.Logger
}

// Record logs the event name with its payload as a structured field.
func (t LogTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	if t.Logger == nil {
		return
	}
	t.Logger.Debug("canvas: telemetry", zap.String("event", event), zap.Any("payload", payload))
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

// NormalizeTelemetry substitutes a no-op recorder for nil.
func NormalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

func normalizeTelemetry(t Telemetry) Telemetry {
	return NormalizeTelemetry(t)
}
