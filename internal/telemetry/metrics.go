package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the service's instrument set.
type Metrics struct {
	requests        metric.Int64Counter
	requestDuration metric.Float64Histogram
	regenerations   metric.Int64Counter
	chunksWritten   metric.Int64Counter
}

func NewMetrics() (*Metrics, error) {
	meter := otel.Meter("knowledgebase-backend")

	requests, err := meter.Int64Counter("http.requests",
		metric.WithDescription("HTTP requests by method, path and status"))
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram("http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	regenerations, err := meter.Int64Counter("embeddings.regenerations",
		metric.WithDescription("Embedding regeneration runs by outcome"))
	if err != nil {
		return nil, err
	}

	chunksWritten, err := meter.Int64Counter("embeddings.chunks_written",
		metric.WithDescription("Chunks written by regeneration runs"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		requests:        requests,
		requestDuration: requestDuration,
		regenerations:   regenerations,
		chunksWritten:   chunksWritten,
	}, nil
}

func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("status", status),
	)
	m.requests.Add(context.Background(), 1, attrs)
	m.requestDuration.Record(context.Background(), duration, attrs)
}

func (m *Metrics) RecordRegeneration(collection string, chunks int, success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.regenerations.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("collection", collection),
		attribute.String("outcome", outcome),
	))
	if chunks > 0 {
		m.chunksWritten.Add(context.Background(), int64(chunks), metric.WithAttributes(
			attribute.String("collection", collection),
		))
	}
}
