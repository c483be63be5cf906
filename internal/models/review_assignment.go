package models

import "time"

// AssignmentStatus tracks a historical review assignment.
type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentDeclined  AssignmentStatus = "declined"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentExpired   AssignmentStatus = "expired"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// ReviewAssignment is one row of a reviewer's assignment history. The review tracking
// subsystem owns these rows; matching only reads them.
type ReviewAssignment struct {
	BaseModel

	ReviewerID   string           `gorm:"type:uuid;index;not null" json:"reviewer_id"`
	ManuscriptID string           `gorm:"type:uuid;index;not null" json:"manuscript_id"`
	Status       AssignmentStatus `gorm:"index;not null" json:"status"`
	InvitedAt    time.Time        `gorm:"index" json:"invited_at"`
	RespondedAt  *time.Time       `json:"responded_at,omitempty"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}
