// Package prometheus renders taskpilot client metrics in the Prometheus text
// exposition format without importing the Prometheus client library; the
// snapshot model is small enough to serialize directly.
package prometheus
