package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// CountsTowardRelationship reports whether an appointment in this status
// is evidence of a treatment relationship. Cancellations and no-shows
// are not: the patient never saw the clinician.
func (s Status) CountsTowardRelationship() bool {
	return s != StatusCancelled && s != StatusNoShow
}

type Appointment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	PatientID   uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	ClinicianID uuid.UUID `gorm:"column:clinician_id;type:uuid;not null;index"`

	ScheduledAt  time.Time `gorm:"column:scheduled_at;not null;index"`
	DurationMins int       `gorm:"column:duration_mins;not null;default:30"`
	Status       Status    `gorm:"column:status;type:varchar(30);not null;default:'scheduled';index"`

	ChiefComplaint string `gorm:"column:chief_complaint;type:text"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}
