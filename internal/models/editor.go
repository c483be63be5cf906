package models

// SystemEditorID identifies the seeded editor used for automated campaigns.
const SystemEditorID = "00000000-0000-0000-0000-000000000001"

// Editor is a handling editor allowed to start invitation campaigns.
type Editor struct {
	BaseModel

	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	IsActive bool   `json:"is_active"`
}
