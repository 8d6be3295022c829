package commands

import "github.com/goliatone/go-dashboard-canvas/components/canvas"

// Telemetry allows commands to emit structured events. Commands share the
// reconciler's recorder so one sink sees both streams.
type Telemetry = canvas.Telemetry

func normalizeTelemetry(t Telemetry) Telemetry {
	return canvas.NormalizeTelemetry(t)
}
