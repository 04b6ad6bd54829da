// Package infra holds the adapters behind the core interfaces: the paho
// report publisher, the Prometheus, InfluxDB and log metrics sinks, the
// zerolog logger and the Sentry monitor.
package infra
