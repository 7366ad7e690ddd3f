package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telecare/medgate/internal/domain"
	"github.com/telecare/medgate/internal/domain/access"
	"github.com/telecare/medgate/internal/domain/patient"
)

// PatientService serves patient records through the authorization engine:
// every read is decided, audited, and projected before it leaves.
type PatientService struct {
	repo      patient.Repository
	accessSvc *AccessService
	log       *zap.Logger
}

func NewPatientService(repo patient.Repository, accessSvc *AccessService, log *zap.Logger) *PatientService {
	return &PatientService{repo: repo, accessSvc: accessSvc, log: log}
}

// GetPatient returns the record projected to whatever the caller may see.
// Patients read their own record directly (the engine governs third-party
// access, not self-access); everyone else goes through Authorize. Financial
// fields never survive the projection either way.
func (s *PatientService) GetPatient(
	ctx context.Context,
	id uuid.UUID,
	callerID uuid.UUID,
	callerRole domain.Role,
	callerPatientID *uuid.UUID,
	ip, requestID string,
) (*patient.Record, error) {
	if callerRole == domain.RolePatient {
		if callerPatientID == nil || *callerPatientID != id {
			return nil, ErrForbidden
		}
		rec, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return patient.Project(rec, access.FullSet()), nil
	}

	decision, err := s.accessSvc.Authorize(ctx, AccessRequest{
		ActorID:   callerID,
		ActorRole: callerRole,
		PatientID: id,
		Action:    domain.ActionView,
		IPAddress: ip,
		RequestID: requestID,
	})
	if err != nil {
		return nil, err
	}
	if !decision.Granted {
		// The reason stays in the audit trail; the caller only learns
		// that access was not permitted.
		return nil, ErrForbidden
	}

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return patient.Project(rec, decision.Capabilities), nil
}
