// Package prometheus renders dashAuth metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts a [dashAuth.Service] and exposes an
// http.Handler that renders every engine counter. Counter names are prefixed
// dashauth_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler.
//   - Mutate engine state.
package prometheus
