package services

import (
	"context"
	"time"
)

// NotificationKind selects the message sent to a reviewer.
type NotificationKind string

const (
	NotificationInvitation   NotificationKind = "invitation"
	NotificationReminder     NotificationKind = "reminder"
	NotificationCancellation NotificationKind = "cancellation"
)

// NotificationPayload carries everything a gateway needs to reach the reviewer. Token is
// only set for invitation messages.
type NotificationPayload struct {
	Kind             NotificationKind
	InvitationID     string
	ManuscriptID     string
	ManuscriptTitle  string
	ReviewerName     string
	ReviewerEmail    string
	Token            string
	ReviewDeadline   time.Time
	ResponseDeadline time.Time
	Message          string
	Reason           string
}

// NotificationGateway delivers reviewer notifications. A nil error means the provider
// accepted the message.
type NotificationGateway interface {
	Send(ctx context.Context, reviewerID string, payload NotificationPayload) error
}

// NotificationGatewayFunc adapts a function to NotificationGateway.
type NotificationGatewayFunc func(ctx context.Context, reviewerID string, payload NotificationPayload) error

// Send implements NotificationGateway.
func (f NotificationGatewayFunc) Send(ctx context.Context, reviewerID string, payload NotificationPayload) error {
	return f(ctx, reviewerID, payload)
}
