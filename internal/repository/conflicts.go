package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/models"
)

// ConflictRepository exposes the evidence sources used by conflict detection.
type ConflictRepository interface {
	Affiliations(ctx context.Context, personIDs []string) ([]models.AffiliationRecord, error)
	// Collaborations returns edges between the reviewer and any counterpart, stored in
	// either direction.
	Collaborations(ctx context.Context, reviewerID string, counterpartIDs []string) ([]models.Collaboration, error)
	Declarations(ctx context.Context, reviewerID string, counterpartIDs []string) ([]models.ConflictDeclaration, error)
}

type gormConflictRepository struct {
	db *gorm.DB
}

// NewConflictRepository returns the gorm backed evidence reader.
func NewConflictRepository(db *gorm.DB) ConflictRepository {
	return &gormConflictRepository{db: db}
}

func (r *gormConflictRepository) Affiliations(ctx context.Context, personIDs []string) ([]models.AffiliationRecord, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	var records []models.AffiliationRecord
	err := r.db.WithContext(ctx).
		Where("person_id IN ?", personIDs).
		Order("person_id ASC").Order("started_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *gormConflictRepository) Collaborations(ctx context.Context, reviewerID string, counterpartIDs []string) ([]models.Collaboration, error) {
	if reviewerID == "" || len(counterpartIDs) == 0 {
		return nil, nil
	}
	var edges []models.Collaboration
	err := r.db.WithContext(ctx).
		Where("(person_id = ? AND counterpart_id IN ?) OR (person_id IN ? AND counterpart_id = ?)",
			reviewerID, counterpartIDs, counterpartIDs, reviewerID).
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}

func (r *gormConflictRepository) Declarations(ctx context.Context, reviewerID string, counterpartIDs []string) ([]models.ConflictDeclaration, error) {
	if reviewerID == "" || len(counterpartIDs) == 0 {
		return nil, nil
	}
	var declarations []models.ConflictDeclaration
	err := r.db.WithContext(ctx).
		Where("reviewer_id = ? AND counterpart_id IN ?", reviewerID, counterpartIDs).
		Find(&declarations).Error
	if err != nil {
		return nil, err
	}
	return declarations, nil
}
