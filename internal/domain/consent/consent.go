package consent

import (
	"time"

	"github.com/google/uuid"

	"github.com/telecare/medgate/internal/domain/access"
)

// Record is a patient-granted access grant to one clinician. Records are
// created on grant and deactivated on revocation; they are never deleted,
// so the consent history stays reconstructible from storage.
type Record struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PatientID   uuid.UUID          `gorm:"column:patient_id;type:uuid;not null;index:idx_consent_pair"`
	ClinicianID uuid.UUID          `gorm:"column:clinician_id;type:uuid;not null;index:idx_consent_pair"`
	Tier        access.ConsentTier `gorm:"column:tier;type:varchar(30);not null"`

	GrantedAt time.Time  `gorm:"column:granted_at;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`

	IsActive  bool       `gorm:"column:is_active;not null;default:true;index"`
	RevokedAt *time.Time `gorm:"column:revoked_at"`
}

func (Record) TableName() string {
	return "consent.grants"
}

// Expired is a computed property, not a stored state transition: a record
// with ExpiresAt in the past behaves exactly like a missing consent.
func (r *Record) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

// Usable reports whether the record currently authorizes anything.
func (r *Record) Usable(now time.Time) bool {
	return r.IsActive && !r.Expired(now)
}

// Revoke deactivates the grant in place. Revocation is the only permitted
// mutation of a consent record.
func (r *Record) Revoke(now time.Time) error {
	if !r.IsActive {
		return ErrAlreadyRevoked
	}
	r.IsActive = false
	r.RevokedAt = &now
	return nil
}

type GrantConsentCommand struct {
	PatientID   uuid.UUID
	ClinicianID uuid.UUID
	Tier        access.ConsentTier
	ExpiresAt   *time.Time
}
