package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)

	// Create persists a new patient record.
	Create(ctx context.Context, r *Record) error

	// Update persists field changes on an existing record.
	Update(ctx context.Context, r *Record) error
}
