package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"linkuup/pkg/kafka"
)

// Metrics holds producer operation counters.
type Metrics struct {
	MessagesPublished       int64
	MessagesPublishedFailed int64
	PublishDurationTotal    int64 // Nanoseconds
}

// Snapshot returns a copy of the current counters.
func (m *Metrics) Snapshot() Metrics {
	return Metrics{
		MessagesPublished:       atomic.LoadInt64(&m.MessagesPublished),
		MessagesPublishedFailed: atomic.LoadInt64(&m.MessagesPublishedFailed),
		PublishDurationTotal:    atomic.LoadInt64(&m.PublishDurationTotal),
	}
}

// MetricsProducerMiddleware records publish counts and latency.
func MetricsProducerMiddleware(metrics *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		atomic.AddInt64(&metrics.PublishDurationTotal, int64(time.Since(start)))
		if err != nil {
			atomic.AddInt64(&metrics.MessagesPublishedFailed, 1)
		} else {
			atomic.AddInt64(&metrics.MessagesPublished, 1)
		}

		return err
	}
}
