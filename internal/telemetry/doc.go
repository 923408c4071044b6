// Package telemetry provides the observability plumbing of the vgg tools.
//
// It contains:
//   - logging.go: structured logging through slog
//   - metrics.go: Prometheus metrics fed by nn.FeatureStack
//
// The CLI configures the logger once at startup and can expose the
// metrics on a /metrics endpoint.
package telemetry
