package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telecare/medgate/internal/domain"
)

func TestAuditRecordWritesSynchronously(t *testing.T) {
	store := &captureAuditStore{}
	svc := NewAuditService(store, zap.NewNop(), nil, time.Second)

	entry := &domain.AuditEntry{
		ActorID:      uuid.New(),
		ActorRole:    domain.RoleDoctor,
		Action:       domain.ActionView,
		ResourceType: domain.ResourcePatientRecord,
		ResourceID:   uuid.New().String(),
		Granted:      true,
	}

	if err := svc.Record(context.Background(), entry); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if got := store.count(); got != 1 {
		t.Fatalf("entries = %d, want 1", got)
	}
	if store.last().OccurredAt.IsZero() {
		t.Error("Record must stamp OccurredAt when unset")
	}
}

func TestAuditRecordFailureIsErrAuditUnavailable(t *testing.T) {
	store := &captureAuditStore{failing: true}
	svc := NewAuditService(store, zap.NewNop(), nil, time.Second)

	err := svc.Record(context.Background(), &domain.AuditEntry{ActorID: uuid.New()})
	if !errors.Is(err, ErrAuditUnavailable) {
		t.Fatalf("Record() error = %v, want ErrAuditUnavailable", err)
	}
}

func TestAuditRecordSurvivesCallerCancellation(t *testing.T) {
	store := &captureAuditStore{}
	svc := NewAuditService(store, zap.NewNop(), nil, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The sink rejects cancelled contexts, so this passing proves the
	// write ran detached from the caller's cancellation.
	if err := svc.Record(ctx, &domain.AuditEntry{ActorID: uuid.New()}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if got := store.count(); got != 1 {
		t.Fatalf("entries = %d, want 1", got)
	}
}
