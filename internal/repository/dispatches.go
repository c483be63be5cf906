package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/models"
)

// DispatchRepository is the durable delayed-job queue drained by the maintenance scheduler.
type DispatchRepository interface {
	Enqueue(ctx context.Context, job *models.ScheduledDispatch) error
	// ClaimDue marks up to limit queued jobs due at or before now as running and returns
	// them oldest first. A job claimed elsewhere in the meantime is not returned.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]models.ScheduledDispatch, error)
	Complete(ctx context.Context, id string, status models.DispatchStatus, lastError string, at time.Time) error
	SkipForInvitation(ctx context.Context, invitationID string, at time.Time) (int64, error)
	ListForInvitation(ctx context.Context, invitationID string) ([]models.ScheduledDispatch, error)
}

type gormDispatchRepository struct {
	db *gorm.DB
}

// NewDispatchRepository returns the gorm backed job queue.
func NewDispatchRepository(db *gorm.DB) DispatchRepository {
	return &gormDispatchRepository{db: db}
}

func (r *gormDispatchRepository) Enqueue(ctx context.Context, job *models.ScheduledDispatch) error {
	if job.Status == "" {
		job.Status = models.DispatchQueued
	}
	return translate(r.db.WithContext(ctx).Create(job).Error)
}

func (r *gormDispatchRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]models.ScheduledDispatch, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND due_at <= ?", models.DispatchQueued, now).
		Order("due_at ASC").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var due []models.ScheduledDispatch
	if err := query.Find(&due).Error; err != nil {
		return nil, err
	}

	claimed := make([]models.ScheduledDispatch, 0, len(due))
	for _, job := range due {
		result := r.db.WithContext(ctx).
			Model(&models.ScheduledDispatch{}).
			Where("id = ? AND status = ?", job.ID, models.DispatchQueued).
			Updates(map[string]any{
				"status":     models.DispatchRunning,
				"attempts":   gorm.Expr("attempts + ?", 1),
				"updated_at": now,
			})
		if result.Error != nil {
			return claimed, result.Error
		}
		if result.RowsAffected == 0 {
			continue
		}
		job.Status = models.DispatchRunning
		job.Attempts++
		claimed = append(claimed, job)
	}
	return claimed, nil
}

func (r *gormDispatchRepository) Complete(ctx context.Context, id string, status models.DispatchStatus, lastError string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ScheduledDispatch{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       status,
			"last_error":   lastError,
			"token":        "",
			"processed_at": at,
			"updated_at":   at,
		}).Error
}

// SkipForInvitation marks every queued job of the invitation as skipped.
func (r *gormDispatchRepository) SkipForInvitation(ctx context.Context, invitationID string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ScheduledDispatch{}).
		Where("invitation_id = ? AND status = ?", invitationID, models.DispatchQueued).
		Updates(map[string]any{
			"status":       models.DispatchSkipped,
			"token":        "",
			"processed_at": at,
			"updated_at":   at,
		})
	return result.RowsAffected, result.Error
}

func (r *gormDispatchRepository) ListForInvitation(ctx context.Context, invitationID string) ([]models.ScheduledDispatch, error) {
	var jobs []models.ScheduledDispatch
	err := r.db.WithContext(ctx).
		Where("invitation_id = ?", invitationID).
		Order("due_at ASC").Order("id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}
