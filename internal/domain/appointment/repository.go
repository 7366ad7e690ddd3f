package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RelationshipWindow bounds how far an appointment may lie from now and
// still count as evidence of an active treatment relationship.
type RelationshipWindow struct {
	Lookback  time.Duration
	Lookahead time.Duration
}

type Repository interface {
	// GetByID retrieves an appointment. Returns ErrAppointmentNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Create persists a new appointment.
	Create(ctx context.Context, a *Appointment) error

	// HasActiveRelationship reports whether the clinician has at least one
	// relationship-bearing appointment with the patient inside the window.
	HasActiveRelationship(ctx context.Context, clinicianID, patientID uuid.UUID, w RelationshipWindow) (bool, error)
}
