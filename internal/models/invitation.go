package models

import (
	"time"

	"gorm.io/datatypes"
)

// InvitationStatus is the lifecycle state of a review invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "pending"
	InvitationAccepted  InvitationStatus = "accepted"
	InvitationDeclined  InvitationStatus = "declined"
	InvitationExpired   InvitationStatus = "expired"
	InvitationCancelled InvitationStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed.
func (s InvitationStatus) IsTerminal() bool {
	switch s {
	case InvitationAccepted, InvitationDeclined, InvitationExpired, InvitationCancelled:
		return true
	default:
		return false
	}
}

// Invitation asks a reviewer to referee a manuscript. Only the token digest is stored.
type Invitation struct {
	BaseModel

	ManuscriptID     string                   `gorm:"type:uuid;index;not null" json:"manuscript_id"`
	ReviewerID       string                   `gorm:"type:uuid;index;not null" json:"reviewer_id"`
	InvitedBy        string                   `gorm:"not null" json:"invited_by"`
	Status           InvitationStatus         `gorm:"index;not null;default:pending" json:"status"`
	TokenHash        string                   `gorm:"uniqueIndex;not null" json:"-"`
	ReviewDeadline   time.Time                `json:"review_deadline"`
	ResponseDeadline time.Time                `gorm:"index" json:"response_deadline"`
	ReminderCount    int                      `gorm:"default:0" json:"reminder_count"`
	ReminderDays     datatypes.JSONSlice[int] `json:"reminder_days,omitempty"`
	Message          string                   `json:"message,omitempty"`
	SentAt           *time.Time               `json:"sent_at,omitempty"`
	RespondedAt      *time.Time               `json:"responded_at,omitempty"`
	LastReminderAt   *time.Time               `json:"last_reminder_at,omitempty"`
	ResponseReason   string                   `json:"response_reason,omitempty"`
}

// IsExpired reports whether a pending invitation has passed its response deadline.
func (i Invitation) IsExpired(now time.Time) bool {
	return i.Status == InvitationPending && i.ResponseDeadline.Before(now)
}
