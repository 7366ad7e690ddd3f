package consent

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new grant. Returns ErrConsentAlreadyActive if the
	// patient already has an active grant for this clinician.
	Create(ctx context.Context, r *Record) error

	// GetByID retrieves a grant by primary key. Returns ErrConsentNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// GetLatest returns the most recent grant for the pair, active or not,
	// or nil when the patient has never granted this clinician anything.
	GetLatest(ctx context.Context, patientID, clinicianID uuid.UUID) (*Record, error)

	// Update persists a revocation. Grants are never deleted.
	Update(ctx context.Context, r *Record) error

	// ListByPatient returns all grants a patient has issued, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Record, error)
}
