// Package otel bridges taskpilot client metrics into OpenTelemetry
// observable instruments. Counters map one-to-one; histogram buckets are
// exposed as cumulative gauges because the core snapshot does not retain
// per-sample values.
package otel
