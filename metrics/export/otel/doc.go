// Package otel provides OpenTelemetry metric exporter bindings for dashAuth
// counters.
//
// [NewOTelExporter] registers an Int64ObservableCounter per engine metric
// plus the audit dropped counter. A single callback reads
// [dashAuth.Service.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate engine state.
package otel
