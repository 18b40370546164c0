// Package metrics exports the outcome of a batch as a Prometheus textfile,
// for collection by node_exporter's textfile collector.
package metrics
