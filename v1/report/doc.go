// Package report provides bench.Sink implementations that deliver benchmark
// results to the console, Redis, NATS, Kafka, an in-memory history and live
// WebSocket or Server-Sent-Events clients.
package report
