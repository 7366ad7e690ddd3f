// Package resolver declares the three lookups the authorization engine
// composes, and provides implementations backed by the clinical stores.
// The engine depends only on the interfaces; anything that can answer
// within the configured timeout (or fail explicitly) can stand in.
package resolver

import (
	"context"

	"github.com/google/uuid"

	"github.com/telecare/medgate/internal/domain/consent"
)

// Relationship answers whether a clinician currently has an active
// treatment relationship with a patient.
type Relationship interface {
	Resolve(ctx context.Context, clinicianID, patientID uuid.UUID) (bool, error)
}

// Consent returns the patient's most recent consent grant to the
// clinician, or nil when none was ever issued. The engine, not the
// resolver, decides what an inactive or expired grant means.
type Consent interface {
	Resolve(ctx context.Context, patientID, clinicianID uuid.UUID) (*consent.Record, error)
}

// Emergency answers whether the patient has an active emergency episode.
type Emergency interface {
	Resolve(ctx context.Context, patientID uuid.UUID) (bool, error)
}
