package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/models"
)

// ManuscriptRepository looks up submission metadata.
type ManuscriptRepository interface {
	Get(ctx context.Context, id string) (*models.Manuscript, error)
}

// EditorRepository looks up editors allowed to run campaigns.
type EditorRepository interface {
	Get(ctx context.Context, id string) (*models.Editor, error)
}

type gormManuscriptRepository struct {
	db *gorm.DB
}

// NewManuscriptRepository returns the gorm backed manuscript lookup.
func NewManuscriptRepository(db *gorm.DB) ManuscriptRepository {
	return &gormManuscriptRepository{db: db}
}

func (r *gormManuscriptRepository) Get(ctx context.Context, id string) (*models.Manuscript, error) {
	var manuscript models.Manuscript
	if err := r.db.WithContext(ctx).Take(&manuscript, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &manuscript, nil
}

type gormEditorRepository struct {
	db *gorm.DB
}

// NewEditorRepository returns the gorm backed editor lookup.
func NewEditorRepository(db *gorm.DB) EditorRepository {
	return &gormEditorRepository{db: db}
}

// Get only returns active editors.
func (r *gormEditorRepository) Get(ctx context.Context, id string) (*models.Editor, error) {
	var editor models.Editor
	err := r.db.WithContext(ctx).Take(&editor, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		return nil, translate(err)
	}
	return &editor, nil
}
