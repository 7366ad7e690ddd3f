package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/telecare/medgate/internal/domain/consent"
)

type ConsentRepository struct {
	db *gorm.DB
}

func NewConsentRepository(db *gorm.DB) *ConsentRepository {
	return &ConsentRepository{db: db}
}

func (r *ConsentRepository) Create(ctx context.Context, rec *consent.Record) error {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&consent.Record{}).
		Where("patient_id = ? AND clinician_id = ? AND is_active = true", rec.PatientID, rec.ClinicianID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return consent.ErrConsentAlreadyActive
	}

	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *ConsentRepository) GetByID(ctx context.Context, id uuid.UUID) (*consent.Record, error) {
	var rec consent.Record
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, consent.ErrConsentNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *ConsentRepository) GetLatest(ctx context.Context, patientID, clinicianID uuid.UUID) (*consent.Record, error) {
	var rec consent.Record
	err := r.db.WithContext(ctx).
		Where("patient_id = ? AND clinician_id = ?", patientID, clinicianID).
		Order("granted_at DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Update persists a revocation. Only the activity fields move; the grant
// itself is immutable.
func (r *ConsentRepository) Update(ctx context.Context, rec *consent.Record) error {
	result := r.db.WithContext(ctx).
		Model(&consent.Record{}).
		Where("id = ?", rec.ID).
		Updates(map[string]any{
			"is_active":  rec.IsActive,
			"revoked_at": rec.RevokedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return consent.ErrConsentNotFound
	}
	return nil
}

func (r *ConsentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*consent.Record, error) {
	var recs []*consent.Record
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("granted_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
