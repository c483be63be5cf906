package models

import "time"

// AffiliationRecord is one entry of a person's institutional history. EndedAt is nil for
// the current affiliation.
type AffiliationRecord struct {
	BaseModel

	PersonID    string     `gorm:"index;not null" json:"person_id"`
	Institution string     `gorm:"not null" json:"institution"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

// CollaborationKind classifies an edge in the collaboration network.
type CollaborationKind string

const (
	CollaborationCoauthorship CollaborationKind = "coauthorship"
	CollaborationAdvisor      CollaborationKind = "advisor"
	CollaborationAdvisee      CollaborationKind = "advisee"
)

// Collaboration links a person with a counterpart, e.g. shared publications.
type Collaboration struct {
	BaseModel

	PersonID           string            `gorm:"index:idx_collab_pair;not null" json:"person_id"`
	CounterpartID      string            `gorm:"index:idx_collab_pair;not null" json:"counterpart_id"`
	Kind               CollaborationKind `gorm:"not null" json:"kind"`
	JointPublications  int               `json:"joint_publications"`
	LastCollaboratedAt time.Time         `json:"last_collaborated_at"`
}

// ConflictDeclaration is a manually declared conflict of interest.
type ConflictDeclaration struct {
	BaseModel

	ReviewerID    string `gorm:"index:idx_declaration_pair;not null" json:"reviewer_id"`
	CounterpartID string `gorm:"index:idx_declaration_pair;not null" json:"counterpart_id"`
	Type          string `gorm:"not null" json:"type"`
	Severity      string `gorm:"not null" json:"severity"`
	Evidence      string `json:"evidence"`
	DeclaredBy    string `json:"declared_by"`
}
