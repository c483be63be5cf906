package services

import "errors"

var (
	// ErrManuscriptNotFound aborts matching and invitation runs for unknown manuscripts.
	ErrManuscriptNotFound = errors.New("manuscript: not found")
	// ErrEditorNotFound indicates the invoking editor is unknown or inactive.
	ErrEditorNotFound = errors.New("editor: not found")
	// ErrReviewerLookup wraps failures of the reviewer directory or its history.
	ErrReviewerLookup = errors.New("reviewer directory: lookup failed")
	// ErrInvalidInvitationRequest flags malformed invitation batches.
	ErrInvalidInvitationRequest = errors.New("invitation: invalid request")
	// ErrInvitationNotFound indicates no invitation matches the token.
	ErrInvitationNotFound = errors.New("invitation: not found")
	// ErrInvalidTransition is returned when the invitation already left the pending state.
	ErrInvalidTransition = errors.New("invitation: invalid status transition")
	// ErrInvitationExpired is returned when responding after the response deadline.
	ErrInvitationExpired = errors.New("invitation: expired")
)
