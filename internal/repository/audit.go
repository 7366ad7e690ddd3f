package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/telecare/medgate/internal/domain"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create appends one entry. There is no update or delete path on this
// repository; the audit trail is append-only by construction.
func (r *AuditRepository) Create(ctx context.Context, e *domain.AuditEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *AuditRepository) Search(ctx context.Context, q domain.AuditQuery) ([]*domain.AuditEntry, error) {
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	tx := r.db.WithContext(ctx).Model(&domain.AuditEntry{})
	if q.ActorID != nil {
		tx = tx.Where("actor_id = ?", *q.ActorID)
	}
	if q.ResourceID != "" {
		tx = tx.Where("resource_id = ?", q.ResourceID)
	}
	if q.From != nil {
		tx = tx.Where("occurred_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("occurred_at < ?", *q.To)
	}

	var entries []*domain.AuditEntry
	if err := tx.Order("occurred_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
