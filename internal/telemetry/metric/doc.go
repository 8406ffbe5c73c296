// Package metric provides Prometheus metrics for snipkit.
//
// This package implements metrics collection and export:
//
//   - prometheus.go: the application Registry and textfile export
//   - collector.go: a collector reporting the size of the snippet document
//
// snipkit is a short-lived CLI, so metrics are not scraped over HTTP.
// When metrics.textfile is configured the registry is written in the
// Prometheus text format after each command, for node_exporter's
// textfile collector to pick up.
package metric
