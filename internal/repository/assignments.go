package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/models"
)

// AssignmentRepository reads review assignment history owned by the tracking subsystem.
type AssignmentRepository interface {
	History(ctx context.Context, reviewerIDs []string, since time.Time) ([]models.ReviewAssignment, error)
}

type gormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository returns the gorm backed history reader.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &gormAssignmentRepository{db: db}
}

// History returns assignments invited at or after since for the given reviewers.
func (r *gormAssignmentRepository) History(ctx context.Context, reviewerIDs []string, since time.Time) ([]models.ReviewAssignment, error) {
	if len(reviewerIDs) == 0 {
		return nil, nil
	}

	var records []models.ReviewAssignment
	err := r.db.WithContext(ctx).
		Where("reviewer_id IN ? AND invited_at >= ?", reviewerIDs, since).
		Order("invited_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
