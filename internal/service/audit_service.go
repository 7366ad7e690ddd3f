package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/telecare/medgate/internal/domain"
	"github.com/telecare/medgate/pkg/metrics"
)

type AuditStore interface {
	Create(ctx context.Context, e *domain.AuditEntry) error
	Search(ctx context.Context, q domain.AuditQuery) ([]*domain.AuditEntry, error)
}

// AuditService appends decision records to the durable trail. The write is
// synchronous with respect to the decision path: a decision is not complete
// until its entry has been accepted by the sink.
type AuditService struct {
	store        AuditStore
	log          *zap.Logger
	collector    *metrics.Collector
	writeTimeout time.Duration
}

func NewAuditService(store AuditStore, log *zap.Logger, collector *metrics.Collector, writeTimeout time.Duration) *AuditService {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &AuditService{store: store, log: log, collector: collector, writeTimeout: writeTimeout}
}

// Record durably appends one entry. The write runs on a context detached
// from the caller's cancellation: a disconnecting caller must not leave an
// unlogged decision behind. On sink failure it returns ErrAuditUnavailable.
func (s *AuditService) Record(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	if err := s.store.Create(writeCtx, entry); err != nil {
		s.log.Error("audit write failed",
			zap.String("actor_id", entry.ActorID.String()),
			zap.String("resource_id", entry.ResourceID),
			zap.Error(err),
		)
		if s.collector != nil {
			s.collector.AuditFailuresTotal.Inc()
		}
		return fmt.Errorf("%w: %v", ErrAuditUnavailable, err)
	}

	if s.collector != nil {
		s.collector.AuditEntriesTotal.Inc()
	}
	return nil
}

// Search queries the trail. Read-only; entries are never mutated.
func (s *AuditService) Search(ctx context.Context, q domain.AuditQuery) ([]*domain.AuditEntry, error) {
	return s.store.Search(ctx, q)
}
