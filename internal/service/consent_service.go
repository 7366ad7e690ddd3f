package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telecare/medgate/internal/domain"
	"github.com/telecare/medgate/internal/domain/consent"
	"github.com/telecare/medgate/pkg/metrics"
)

type ConsentService struct {
	repo      consent.Repository
	auditSvc  *AuditService
	log       *zap.Logger
	collector *metrics.Collector
}

func NewConsentService(repo consent.Repository, auditSvc *AuditService, log *zap.Logger, collector *metrics.Collector) *ConsentService {
	return &ConsentService{repo: repo, auditSvc: auditSvc, log: log, collector: collector}
}

// ownsPatient reports whether the caller is the patient the record belongs
// to. Admins pass unconditionally.
func ownsPatient(callerRole domain.Role, callerPatientID *uuid.UUID, patientID uuid.UUID) bool {
	if callerRole == domain.RoleAdmin {
		return true
	}
	return callerRole == domain.RolePatient && callerPatientID != nil && *callerPatientID == patientID
}

// Grant issues a new consent record from patient to clinician. One active
// grant per pair; re-granting requires revoking first.
func (s *ConsentService) Grant(ctx context.Context, cmd *consent.GrantConsentCommand, callerID uuid.UUID, callerRole domain.Role, callerPatientID *uuid.UUID, ip string) (*consent.Record, error) {
	if err := validateGrantCommand(cmd); err != nil {
		return nil, err
	}

	if !ownsPatient(callerRole, callerPatientID, cmd.PatientID) {
		return nil, ErrForbidden
	}

	now := time.Now().UTC()
	if cmd.ExpiresAt != nil && !cmd.ExpiresAt.After(now) {
		return nil, consent.ErrExpiryInPast
	}

	rec := &consent.Record{
		PatientID:   cmd.PatientID,
		ClinicianID: cmd.ClinicianID,
		Tier:        cmd.Tier,
		GrantedAt:   now,
		ExpiresAt:   cmd.ExpiresAt,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if err != consent.ErrConsentAlreadyActive {
			s.log.Error("failed to create consent grant", zap.Error(err))
		}
		return nil, fmt.Errorf("creating consent grant: %w", err)
	}

	if err := s.auditSvc.Record(ctx, &domain.AuditEntry{
		ActorID:      callerID,
		ActorRole:    callerRole,
		Action:       domain.ActionCreate,
		ResourceType: domain.ResourceConsentGrant,
		ResourceID:   rec.ID.String(),
		Granted:      true,
		Reason:       string(rec.Tier),
		IPAddress:    ip,
	}); err != nil {
		return nil, err
	}

	if s.collector != nil {
		s.collector.ConsentsGrantedTotal.Inc()
	}
	s.log.Info("consent granted",
		zap.String("grant_id", rec.ID.String()),
		zap.String("tier", string(rec.Tier)),
	)

	return rec, nil
}

// Revoke deactivates a grant. The record stays in storage for audit
// reconstruction; nothing is ever deleted.
func (s *ConsentService) Revoke(ctx context.Context, grantID uuid.UUID, callerID uuid.UUID, callerRole domain.Role, callerPatientID *uuid.UUID, ip string) error {
	rec, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		return err
	}

	if !ownsPatient(callerRole, callerPatientID, rec.PatientID) {
		return ErrForbidden
	}

	if err := rec.Revoke(time.Now().UTC()); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		s.log.Error("failed to persist revocation", zap.Error(err))
		return fmt.Errorf("revoking consent grant: %w", err)
	}

	if s.collector != nil {
		s.collector.ConsentsRevokedTotal.Inc()
	}

	return s.auditSvc.Record(ctx, &domain.AuditEntry{
		ActorID:      callerID,
		ActorRole:    callerRole,
		Action:       domain.ActionModify,
		ResourceType: domain.ResourceConsentGrant,
		ResourceID:   rec.ID.String(),
		Granted:      true,
		Reason:       "revoked",
		IPAddress:    ip,
	})
}

// ListForPatient returns the patient's full grant history, newest first.
func (s *ConsentService) ListForPatient(ctx context.Context, patientID uuid.UUID, callerRole domain.Role, callerPatientID *uuid.UUID) ([]*consent.Record, error) {
	if !ownsPatient(callerRole, callerPatientID, patientID) {
		return nil, ErrForbidden
	}
	return s.repo.ListByPatient(ctx, patientID)
}

func validateGrantCommand(cmd *consent.GrantConsentCommand) error {
	var errs []string

	if cmd.PatientID == uuid.Nil {
		errs = append(errs, "patient_id is required")
	}
	if cmd.ClinicianID == uuid.Nil {
		errs = append(errs, "clinician_id is required")
	}
	if !cmd.Tier.IsValid() {
		errs = append(errs, "tier is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
