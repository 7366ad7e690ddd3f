package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/telecare/medgate/internal/domain/appointment"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppointmentRepository) HasActiveRelationship(
	ctx context.Context,
	clinicianID, patientID uuid.UUID,
	w appointment.RelationshipWindow,
) (bool, error) {
	now := time.Now().UTC()

	var count int64
	err := r.db.WithContext(ctx).
		Model(&appointment.Appointment{}).
		Where("clinician_id = ? AND patient_id = ?", clinicianID, patientID).
		Where("deleted_at IS NULL").
		Where("status NOT IN ?", []appointment.Status{appointment.StatusCancelled, appointment.StatusNoShow}).
		Where("scheduled_at BETWEEN ? AND ?", now.Add(-w.Lookback), now.Add(w.Lookahead)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
