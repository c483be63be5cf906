package models

import "time"

// DispatchKind distinguishes deferred invitation sends from reminders.
type DispatchKind string

const (
	DispatchInvitation DispatchKind = "invitation"
	DispatchReminder   DispatchKind = "reminder"
)

// DispatchStatus tracks a delayed job row.
type DispatchStatus string

const (
	DispatchQueued  DispatchStatus = "queued"
	DispatchRunning DispatchStatus = "running"
	DispatchDone    DispatchStatus = "done"
	DispatchFailed  DispatchStatus = "failed"
	DispatchSkipped DispatchStatus = "skipped"
)

// ScheduledDispatch is a durable delayed job consumed by the maintenance scheduler. Deferred
// invitation jobs carry the raw token until they complete.
type ScheduledDispatch struct {
	BaseModel

	Kind         DispatchKind   `gorm:"index;not null" json:"kind"`
	InvitationID string         `gorm:"type:uuid;index;not null" json:"invitation_id"`
	Token        string         `json:"-"`
	DueAt        time.Time      `gorm:"index;not null" json:"due_at"`
	Status       DispatchStatus `gorm:"index;not null;default:queued" json:"status"`
	Attempts     int            `gorm:"default:0" json:"attempts"`
	LastError    string         `json:"last_error,omitempty"`
	ProcessedAt  *time.Time     `json:"processed_at,omitempty"`
}
