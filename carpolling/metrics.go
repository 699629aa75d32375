package carpolling

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/shivam100804/swiftUiCarPooling/common/telemetry"
)

var (
	metricsOnce      sync.Once
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	requestsInFlight metric.Int64UpDownCounter
)

// initMetrics initializes OpenTelemetry metrics (called once)
func initMetrics() {
	metricsOnce.Do(func() {
		if telemetry.Meter == nil {
			// Metrics not initialized - skip
			return
		}

		var err error
		requestsTotal, err = telemetry.Meter.Int64Counter(
			"http.client.request.count",
			metric.WithDescription("Total number of outgoing HTTP requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			panic(err)
		}

		requestDuration, err = telemetry.Meter.Float64Histogram(
			"http.client.request.duration",
			metric.WithDescription("Outgoing HTTP request latency"),
			metric.WithUnit("s"),
		)
		if err != nil {
			panic(err)
		}

		requestsInFlight, err = telemetry.Meter.Int64UpDownCounter(
			"http.client.request.active",
			metric.WithDescription("Number of in-flight HTTP requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			panic(err)
		}
	})
}

func requestAttrs(op, method string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("carpolling.operation", op),
		attribute.String("http.method", method),
	}
}

func recordStart(ctx context.Context, op, method string) {
	initMetrics()
	if requestsInFlight == nil {
		return
	}
	requestsInFlight.Add(ctx, 1, metric.WithAttributes(requestAttrs(op, method)...))
}

func recordEnd(ctx context.Context, op, method string) {
	if requestsInFlight == nil {
		return
	}
	requestsInFlight.Add(ctx, -1, metric.WithAttributes(requestAttrs(op, method)...))
}

// recordOutcome records the final count and latency for one request.
// kind is 0 on success.
func recordOutcome(ctx context.Context, op, method string, statusCode int, kind ErrorKind, duration time.Duration) {
	if requestsTotal == nil {
		return
	}

	attrs := requestAttrs(op, method)
	attrs = append(attrs, attribute.String("http.status_code", strconv.Itoa(statusCode)))
	if kind != 0 {
		attrs = append(attrs, attribute.String("carpolling.error_kind", kind.String()))
	}

	requestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
