package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/telecare/medgate/internal/domain/emergency"
)

type EmergencyRepository struct {
	db *gorm.DB
}

func NewEmergencyRepository(db *gorm.DB) *EmergencyRepository {
	return &EmergencyRepository{db: db}
}

func (r *EmergencyRepository) Create(ctx context.Context, t *emergency.TransportRequest) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *EmergencyRepository) GetByID(ctx context.Context, id uuid.UUID) (*emergency.TransportRequest, error) {
	var t emergency.TransportRequest
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, emergency.ErrTransportNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *EmergencyRepository) Update(ctx context.Context, t *emergency.TransportRequest) error {
	result := r.db.WithContext(ctx).
		Model(&emergency.TransportRequest{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"status":      t.Status,
			"resolved_at": t.ResolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return emergency.ErrTransportNotFound
	}
	return nil
}

func (r *EmergencyRepository) HasActiveEpisode(ctx context.Context, patientID uuid.UUID) (bool, error) {
	active := []emergency.Status{
		emergency.StatusRequested,
		emergency.StatusDispatched,
		emergency.StatusEnRoute,
		emergency.StatusOnScene,
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&emergency.TransportRequest{}).
		Where("patient_id = ? AND status IN ?", patientID, active).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
