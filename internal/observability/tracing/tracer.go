// Package tracing provides the OpenTelemetry tracer handle for the crawler.
// Spans are no-ops unless a trace SDK is installed by the host process.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the newscrawl application.
var tracer = otel.Tracer("newscrawl")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "crawl")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
