package records

import (
	"context"

	"github.com/homemade/pickleshop/pkg/metrics"
)

type instrumented struct {
	next    Store
	metrics *metrics.Metrics
}

// Instrumented counts every write by table and outcome.
func Instrumented(next Store, m *metrics.Metrics) Store {
	if m == nil {
		return next
	}
	return &instrumented{next: next, metrics: m}
}

func (s *instrumented) Put(ctx context.Context, table string, record Record) error {
	err := s.next.Put(ctx, table, record)
	switch {
	case err != nil:
		s.metrics.IncRecordWrite(table, metrics.OutcomeFailed)
	case s.next.Backend() == BackendLocal:
		s.metrics.IncRecordWrite(table, metrics.OutcomeSkipped)
	default:
		s.metrics.IncRecordWrite(table, metrics.OutcomeOK)
	}
	return err
}

func (s *instrumented) Backend() string { return s.next.Backend() }
