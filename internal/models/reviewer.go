package models

import (
	"time"

	"gorm.io/datatypes"
)

// ReviewerRole is the directory role that marks a person as eligible to review.
const ReviewerRole = "reviewer"

// Reviewer is a directory entry for a potential referee.
type Reviewer struct {
	BaseModel

	FirstName        string                      `gorm:"not null" json:"first_name"`
	LastName         string                      `gorm:"not null" json:"last_name"`
	Email            string                      `gorm:"uniqueIndex;not null" json:"email"`
	Role             string                      `gorm:"index;default:reviewer" json:"role"`
	Expertise        datatypes.JSONSlice[string] `json:"expertise"`
	HIndex           int                         `gorm:"index" json:"h_index"`
	PublicationCount int                         `json:"publication_count"`
	Affiliation      string                      `json:"affiliation"`
	LastActiveAt     *time.Time                  `json:"last_active_at"`
	IsActive         bool                        `gorm:"index" json:"is_active"`
}

// FullName renders "First Last", tolerating missing parts.
func (r Reviewer) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}
