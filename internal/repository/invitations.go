package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/models"
)

// InvitationRepository persists invitations. Status changes go through Transition only.
type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Invitation, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Invitation, error)
	ListByManuscript(ctx context.Context, manuscriptID string) ([]models.Invitation, error)
	ActiveReviewerIDs(ctx context.Context, manuscriptID string) ([]string, error)
	History(ctx context.Context, reviewerIDs []string, since time.Time) ([]models.Invitation, error)
	Transition(ctx context.Context, id string, to models.InvitationStatus, at time.Time, reason string) error
	MarkSent(ctx context.Context, id string, at time.Time) error
	IncrementReminder(ctx context.Context, id string, at time.Time) error
	ListOverduePending(ctx context.Context, now time.Time, limit int) ([]models.Invitation, error)
}

type gormInvitationRepository struct {
	db *gorm.DB
}

// NewInvitationRepository returns the gorm backed invitation store.
func NewInvitationRepository(db *gorm.DB) InvitationRepository {
	return &gormInvitationRepository{db: db}
}

func (r *gormInvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	if invitation.Status == "" {
		invitation.Status = models.InvitationPending
	}
	return translate(r.db.WithContext(ctx).Create(invitation).Error)
}

func (r *gormInvitationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Invitation{}, "id = ?", id).Error
}

func (r *gormInvitationRepository) GetByID(ctx context.Context, id string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).Take(&invitation, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &invitation, nil
}

func (r *gormInvitationRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := r.db.WithContext(ctx).Take(&invitation, "token_hash = ?", tokenHash).Error; err != nil {
		return nil, translate(err)
	}
	return &invitation, nil
}

func (r *gormInvitationRepository) ListByManuscript(ctx context.Context, manuscriptID string) ([]models.Invitation, error) {
	var invitations []models.Invitation
	err := r.db.WithContext(ctx).
		Where("manuscript_id = ?", manuscriptID).
		Order("created_at ASC").Order("id ASC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// ActiveReviewerIDs lists reviewers holding a pending or accepted invitation.
func (r *gormInvitationRepository) ActiveReviewerIDs(ctx context.Context, manuscriptID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("manuscript_id = ? AND status IN ?", manuscriptID,
			[]models.InvitationStatus{models.InvitationPending, models.InvitationAccepted}).
		Distinct().
		Pluck("reviewer_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// History returns invitations created at or after since for the given reviewers. Cancelled
// invitations are left out since the reviewer never had a chance to answer them.
func (r *gormInvitationRepository) History(ctx context.Context, reviewerIDs []string, since time.Time) ([]models.Invitation, error) {
	if len(reviewerIDs) == 0 {
		return nil, nil
	}

	var invitations []models.Invitation
	err := r.db.WithContext(ctx).
		Where("reviewer_id IN ? AND created_at >= ? AND status <> ?", reviewerIDs, since, models.InvitationCancelled).
		Order("created_at ASC").
		Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}

// Transition moves a pending invitation to a terminal status. The update is conditional on
// the stored status so concurrent responders cannot both win.
func (r *gormInvitationRepository) Transition(ctx context.Context, id string, to models.InvitationStatus, at time.Time, reason string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, models.InvitationPending).
		Updates(map[string]any{
			"status":          to,
			"responded_at":    at,
			"response_reason": reason,
			"updated_at":      at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrNotPending
	}
	return nil
}

func (r *gormInvitationRepository) MarkSent(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ?", id).
		Updates(map[string]any{"sent_at": at, "updated_at": at})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementReminder bumps reminder_count in place; the counter never decreases.
func (r *gormInvitationRepository) IncrementReminder(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reminder_count":   gorm.Expr("reminder_count + ?", 1),
			"last_reminder_at": at,
			"updated_at":       at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormInvitationRepository) ListOverduePending(ctx context.Context, now time.Time, limit int) ([]models.Invitation, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND response_deadline < ?", models.InvitationPending, now).
		Order("response_deadline ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var invitations []models.Invitation
	if err := query.Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}
