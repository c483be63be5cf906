package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/reviewerdesk/internal/models"
)

func TestDispatchDueSendsReminders(t *testing.T) {
	f := newFixture(t, 2)
	svc := f.invitationService(t, nil)
	ctx := context.Background()

	result, err := svc.SendInvitations(ctx, f.request("rev-1", "rev-2"))
	require.NoError(t, err)
	_, err = svc.RespondToInvitation(ctx, result.Results[0].Token, true, "")
	require.NoError(t, err)

	f.clock.Advance(14*24*time.Hour + time.Minute)
	report, err := svc.DispatchDue(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.Claimed)
	require.Equal(t, 2, report.Reminders)

	for _, step := range []time.Duration{4 * 24 * time.Hour, 2 * 24 * time.Hour} {
		f.clock.Advance(step)
		report, err = svc.DispatchDue(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, report.Claimed)
		require.Equal(t, 2, report.Reminders)
	}

	reminders := f.gateway.ofKind(NotificationReminder)
	require.Len(t, reminders, 6)

	for _, r := range result.Results {
		invitation, err := f.store.Invitations.GetByID(ctx, r.InvitationID)
		require.NoError(t, err)
		require.Equal(t, 3, invitation.ReminderCount)
		require.NotNil(t, invitation.LastReminderAt)
	}

	report, err = svc.DispatchDue(ctx)
	require.NoError(t, err)
	require.Zero(t, report.Claimed)
}

func TestDispatchDueSkipsRemindersForClosedInvitations(t *testing.T) {
	f := newFixture(t, 1)
	svc := f.invitationService(t, nil)
	ctx := context.Background()

	result, err := svc.SendInvitations(ctx, f.request("rev-1"))
	require.NoError(t, err)
	invitationID := result.Results[0].InvitationID

	require.NoError(t, f.store.Invitations.Transition(ctx, invitationID, models.InvitationExpired, testEpoch, "test"))
	require.NoError(t, f.store.Dispatches.Enqueue(ctx, &models.ScheduledDispatch{
		Kind:         models.DispatchReminder,
		InvitationID: invitationID,
		DueAt:        testEpoch.Add(time.Minute),
	}))
	require.NoError(t, f.store.Dispatches.Enqueue(ctx, &models.ScheduledDispatch{
		Kind:         models.DispatchReminder,
		InvitationID: "vanished",
		DueAt:        testEpoch.Add(time.Minute),
	}))

	f.clock.Advance(time.Hour)
	report, err := svc.DispatchDue(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, report.Claimed)
	require.Equal(t, 2, report.Skipped)
	require.Empty(t, f.gateway.ofKind(NotificationReminder))
}

func TestDispatchDueSkipsStaleReminders(t *testing.T) {
	f := newFixture(t, 1)
	svc := f.invitationService(t, nil)
	ctx := context.Background()

	result, err := svc.SendInvitations(ctx, f.request("rev-1"))
	require.NoError(t, err)
	_, err = svc.RespondToInvitation(ctx, result.Results[0].Token, true, "")
	require.NoError(t, err)

	// no scheduler run until a day past the review deadline
	f.clock.Advance(22 * 24 * time.Hour)
	report, err := svc.DispatchDue(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, report.Claimed)
	require.Equal(t, 3, report.Skipped)
	require.Zero(t, report.Reminders)
	require.Empty(t, f.gateway.ofKind(NotificationReminder))

	invitation, err := f.store.Invitations.GetByID(ctx, result.Results[0].InvitationID)
	require.NoError(t, err)
	require.Zero(t, invitation.ReminderCount)
}

func TestDispatchDueSkipsRemindersPastGraceWindow(t *testing.T) {
	f := newFixture(t, 1)
	svc := f.invitationService(t, nil, WithReminderGrace(2*time.Hour))
	ctx := context.Background()

	result, err := svc.SendInvitations(ctx, f.request("rev-1"))
	require.NoError(t, err)
	_, err = svc.RespondToInvitation(ctx, result.Results[0].Token, true, "")
	require.NoError(t, err)

	// the seven-day reminder is three hours late, the three-day one is not due yet
	f.clock.Advance(14*24*time.Hour + 3*time.Hour)
	report, err := svc.DispatchDue(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Claimed)
	require.Equal(t, 1, report.Skipped)

	f.clock.Advance(4*24*time.Hour - 2*time.Hour)
	report, err = svc.DispatchDue(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Claimed)
	require.Equal(t, 1, report.Reminders)
	require.Len(t, f.gateway.ofKind(NotificationReminder), 1)
}

func TestDispatchDueScheduledFailureRollsBack(t *testing.T) {
	f := newFixture(t, 3)
	svc := f.invitationService(t, nil)
	ctx := context.Background()

	req := f.request(f.reviewerIDs()...)
	req.Stagger = StaggerPolicy{Enabled: true, IntervalHours: 1}
	result, err := svc.SendInvitations(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 2, result.Scheduled)

	f.gateway.failFor["rev-2"] = errors.New("smtp 421")
	f.clock.Advance(3 * time.Hour)

	report, err := svc.DispatchDue(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "smtp 421")
	require.Equal(t, 2, report.Claimed)
	require.Equal(t, 1, report.Sent)
	require.Equal(t, 1, report.Failed)

	_, err = f.store.Invitations.GetByID(ctx, result.Results[1].InvitationID)
	require.Error(t, err, "failed deferred send removes the invitation")

	survivor, err := f.store.Invitations.GetByID(ctx, result.Results[2].InvitationID)
	require.NoError(t, err)
	require.NotNil(t, survivor.SentAt)

	jobs, err := f.store.Dispatches.ListForInvitation(ctx, result.Results[1].InvitationID)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, models.DispatchFailed, jobs[0].Status)
	require.Equal(t, "smtp 421", jobs[0].LastError)
	require.Empty(t, jobs[0].Token)
}

func TestDispatchDueExpiresLateDeferredInvitations(t *testing.T) {
	f := newFixture(t, 2)
	svc := f.invitationService(t, nil)
	ctx := context.Background()

	req := f.request("rev-1", "rev-2")
	req.ResponseDeadline = testEpoch.Add(2 * time.Hour)
	req.Stagger = StaggerPolicy{Enabled: true, IntervalHours: 1}
	result, err := svc.SendInvitations(ctx, req)
	require.NoError(t, err)

	// the scheduler was down past the response deadline
	f.clock.Advance(5 * time.Hour)
	report, err := svc.DispatchDue(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Skipped)
	require.Len(t, f.gateway.ofKind(NotificationInvitation), 1)

	invitation, err := f.store.Invitations.GetByID(ctx, result.Results[1].InvitationID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationExpired, invitation.Status)
}

func TestDispatchDueRejectsUnknownKinds(t *testing.T) {
	f := newFixture(t, 0)
	svc := f.invitationService(t, nil)
	ctx := context.Background()

	require.NoError(t, f.store.Dispatches.Enqueue(ctx, &models.ScheduledDispatch{
		Kind:         models.DispatchKind("digest"),
		InvitationID: "any",
		DueAt:        testEpoch,
	}))

	report, err := svc.DispatchDue(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown dispatch kind "digest"`)
	require.Equal(t, 1, report.Failed)
}
