package emergency

import (
	"time"

	"github.com/google/uuid"
)

// Status models the lifecycle of an emergency transport episode as fed by
// the dispatch service. Everything before completion counts as an active
// emergency for access-control purposes.
type Status string

const (
	StatusRequested  Status = "requested"
	StatusDispatched Status = "dispatched"
	StatusEnRoute    Status = "en_route"
	StatusOnScene    Status = "on_scene"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusRequested, StatusDispatched, StatusEnRoute, StatusOnScene, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) IsActive() bool {
	switch s {
	case StatusRequested, StatusDispatched, StatusEnRoute, StatusOnScene:
		return true
	}
	return false
}

type TransportRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	Status    Status    `gorm:"column:status;type:varchar(30);not null;default:'requested';index"`

	PickupAddress string     `gorm:"column:pickup_address;type:text"`
	Destination   string     `gorm:"column:destination;type:text"`
	RequestedAt   time.Time  `gorm:"column:requested_at;not null"`
	ResolvedAt    *time.Time `gorm:"column:resolved_at"`
}

func (TransportRequest) TableName() string {
	return "clinical.emergency_transports"
}

// Resolve closes the episode. The override window ends here.
func (t *TransportRequest) Resolve(status Status, now time.Time) error {
	if status != StatusCompleted && status != StatusCancelled {
		return ErrInvalidResolution
	}
	if !t.Status.IsActive() {
		return ErrAlreadyResolved
	}
	t.Status = status
	t.ResolvedAt = &now
	return nil
}
