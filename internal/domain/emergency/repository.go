package emergency

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new transport request.
	Create(ctx context.Context, t *TransportRequest) error

	// GetByID retrieves a request. Returns ErrTransportNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*TransportRequest, error)

	// Update persists a status change.
	Update(ctx context.Context, t *TransportRequest) error

	// HasActiveEpisode reports whether the patient has any unresolved
	// transport request right now.
	HasActiveEpisode(ctx context.Context, patientID uuid.UUID) (bool, error)
}
