package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/telecare/medgate/internal/domain/patient"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Record, error) {
	var rec patient.Record
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PatientRepository) Create(ctx context.Context, rec *patient.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *PatientRepository) Update(ctx context.Context, rec *patient.Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}
