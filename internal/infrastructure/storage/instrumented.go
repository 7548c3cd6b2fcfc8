package storage

import (
	"context"
	"errors"
	"time"

	"github.com/nexus/backend/internal/domain/shared"
	"github.com/nexus/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentedStore records a counter and a latency histogram for every
// call made to the wrapped store.
type InstrumentedStore struct {
	next     shared.RecordStore
	backend  string
	ops      *telemetry.Counter
	duration *telemetry.Histogram
}

// NewInstrumentedStore wraps next with store.operations and
// store.operation.duration instruments created from meter.
func NewInstrumentedStore(next shared.RecordStore, backend string, meter metric.Meter) (*InstrumentedStore, error) {
	ops, err := telemetry.NewCounter(meter, "store.operations", "Record store calls", "{call}")
	if err != nil {
		return nil, err
	}
	duration, err := telemetry.NewHistogram(meter, "store.operation.duration", "Record store call latency", "s", telemetry.StoreDurationBuckets)
	if err != nil {
		return nil, err
	}
	return &InstrumentedStore{next: next, backend: backend, ops: ops, duration: duration}, nil
}

func (s *InstrumentedStore) observe(ctx context.Context, op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, shared.ErrRecordNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	s.ops.Inc(ctx,
		telemetry.AttrStoreBackend.String(s.backend),
		telemetry.AttrStoreOperation.String(op),
		telemetry.AttrStoreOutcome.String(outcome),
	)
	s.duration.RecordDuration(ctx, time.Since(start),
		telemetry.AttrStoreBackend.String(s.backend),
		telemetry.AttrStoreOperation.String(op),
	)
}

// Get implements shared.RecordStore
func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, key)
	s.observe(ctx, "get", start, err)
	return value, err
}

// Put implements shared.RecordStore
func (s *InstrumentedStore) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Put(ctx, key, value)
	s.observe(ctx, "put", start, err)
	return err
}

// Delete implements shared.RecordStore
func (s *InstrumentedStore) Delete(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	existed, err := s.next.Delete(ctx, key)
	s.observe(ctx, "delete", start, err)
	return existed, err
}

// Ping implements shared.RecordStore
func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close implements shared.RecordStore
func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}

var _ shared.RecordStore = (*InstrumentedStore)(nil)
