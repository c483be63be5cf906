package models

import "gorm.io/datatypes"

// Manuscript holds the submission metadata consumed by reviewer matching. Content and files
// live elsewhere.
type Manuscript struct {
	BaseModel

	Title        string                      `gorm:"not null" json:"title"`
	FieldOfStudy string                      `gorm:"index" json:"field_of_study"`
	Subfield     string                      `json:"subfield"`
	Keywords     datatypes.JSONSlice[string] `json:"keywords"`
	AuthorIDs    datatypes.JSONSlice[string] `json:"author_ids"`
	References   datatypes.JSONSlice[string] `json:"references"`
	EditorID     string                      `gorm:"index" json:"editor_id"`
}
