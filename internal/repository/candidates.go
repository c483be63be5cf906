package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/models"
)

// CandidateFilter narrows the reviewer directory before scoring.
type CandidateFilter struct {
	Role            string
	ExcludeIDs      []string
	MinHIndex       int
	MinPublications int
	Limit           int
}

// CandidateRepository reads the reviewer directory.
type CandidateRepository interface {
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]models.Reviewer, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Reviewer, error)
}

type gormCandidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository returns the gorm backed directory.
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &gormCandidateRepository{db: db}
}

// FindCandidates returns active reviewers ordered by h-index then id.
func (r *gormCandidateRepository) FindCandidates(ctx context.Context, filter CandidateFilter) ([]models.Reviewer, error) {
	role := filter.Role
	if role == "" {
		role = models.ReviewerRole
	}

	query := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true)
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filter.ExcludeIDs)
	}
	if filter.MinHIndex > 0 {
		query = query.Where("h_index >= ?", filter.MinHIndex)
	}
	if filter.MinPublications > 0 {
		query = query.Where("publication_count >= ?", filter.MinPublications)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var reviewers []models.Reviewer
	if err := query.Order("h_index DESC").Order("id ASC").Find(&reviewers).Error; err != nil {
		return nil, err
	}
	return reviewers, nil
}

func (r *gormCandidateRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Reviewer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var reviewers []models.Reviewer
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&reviewers).Error; err != nil {
		return nil, err
	}
	return reviewers, nil
}
