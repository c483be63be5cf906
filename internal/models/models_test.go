package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBaseModelBeforeCreateGeneratesID(t *testing.T) {
	var base BaseModel
	require.NoError(t, base.BeforeCreate(nil))
	require.NotEmpty(t, base.ID)

	preset := BaseModel{ID: "fixed"}
	require.NoError(t, preset.BeforeCreate(nil))
	require.Equal(t, "fixed", preset.ID)
}

func TestEmbeddedModelsUseBaseBeforeCreate(t *testing.T) {
	cases := []struct {
		name  string
		model func() *BaseModel
	}{
		{"editor", func() *BaseModel { return &(&Editor{}).BaseModel }},
		{"manuscript", func() *BaseModel { return &(&Manuscript{}).BaseModel }},
		{"reviewer", func() *BaseModel { return &(&Reviewer{}).BaseModel }},
		{"review_assignment", func() *BaseModel { return &(&ReviewAssignment{}).BaseModel }},
		{"affiliation", func() *BaseModel { return &(&AffiliationRecord{}).BaseModel }},
		{"collaboration", func() *BaseModel { return &(&Collaboration{}).BaseModel }},
		{"declaration", func() *BaseModel { return &(&ConflictDeclaration{}).BaseModel }},
		{"invitation", func() *BaseModel { return &(&Invitation{}).BaseModel }},
		{"scheduled_dispatch", func() *BaseModel { return &(&ScheduledDispatch{}).BaseModel }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base := tc.model()
			require.NoError(t, base.BeforeCreate(nil))
			require.NotEmpty(t, base.ID)
		})
	}
}

func TestInvitationStatusIsTerminal(t *testing.T) {
	require.False(t, InvitationPending.IsTerminal())
	for _, status := range []InvitationStatus{InvitationAccepted, InvitationDeclined, InvitationExpired, InvitationCancelled} {
		require.True(t, status.IsTerminal(), status)
	}
}

func TestInvitationIsExpired(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	invitation := Invitation{Status: InvitationPending, ResponseDeadline: now.Add(-time.Minute)}
	require.True(t, invitation.IsExpired(now))

	invitation.ResponseDeadline = now.Add(time.Minute)
	require.False(t, invitation.IsExpired(now))

	invitation.ResponseDeadline = now.Add(-time.Hour)
	invitation.Status = InvitationAccepted
	require.False(t, invitation.IsExpired(now))
}

func TestReviewerFullName(t *testing.T) {
	require.Equal(t, "Ada Lovelace", Reviewer{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	require.Equal(t, "Lovelace", Reviewer{LastName: "Lovelace"}.FullName())
	require.Equal(t, "Ada", Reviewer{FirstName: "Ada"}.FullName())
}
