package maintenance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/charlesng35/reviewerdesk/internal/database/testutil"
	"github.com/charlesng35/reviewerdesk/internal/models"
	"github.com/charlesng35/reviewerdesk/internal/repository"
	"github.com/charlesng35/reviewerdesk/internal/services"
)

type countingJobs struct {
	dispatches  atomic.Int32
	expiries    atomic.Int32
	dispatchErr error
	expiryErr   error
}

func (j *countingJobs) DispatchDue(context.Context) (services.DispatchReport, error) {
	j.dispatches.Add(1)
	return services.DispatchReport{Claimed: 1, Sent: 1}, j.dispatchErr
}

func (j *countingJobs) ExpireOverdue(context.Context) (int, error) {
	j.expiries.Add(1)
	return 2, j.expiryErr
}

func TestSchedulerRunOnce(t *testing.T) {
	jobs := &countingJobs{}
	scheduler := NewScheduler(jobs)

	require.NoError(t, scheduler.RunOnce(context.Background()))
	require.EqualValues(t, 1, jobs.dispatches.Load())
	require.EqualValues(t, 1, jobs.expiries.Load())
}

func TestSchedulerRunOnceAggregatesErrors(t *testing.T) {
	jobs := &countingJobs{
		dispatchErr: errors.New("smtp down"),
		expiryErr:   errors.New("db locked"),
	}
	scheduler := NewScheduler(jobs)

	err := scheduler.RunOnce(context.Background())
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)
	require.ErrorContains(t, err, "smtp down")
	require.ErrorContains(t, err, "db locked")
	require.EqualValues(t, 1, jobs.expiries.Load(), "expiry runs even when dispatch fails")
}

func TestSchedulerStartRunsJobs(t *testing.T) {
	jobs := &countingJobs{}
	scheduler := NewScheduler(jobs,
		WithDispatchSchedule("@every 1s"),
		WithExpirySchedule("@every 1s"),
		WithJobTimeout(time.Second))

	require.NoError(t, scheduler.Start())
	t.Cleanup(func() { <-scheduler.Stop().Done() })

	require.Eventually(t, func() bool {
		return jobs.dispatches.Load() > 0 && jobs.expiries.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestSchedulerStartRejectsInvalidSpec(t *testing.T) {
	scheduler := NewScheduler(&countingJobs{}, WithDispatchSchedule("every now and then"))
	require.ErrorContains(t, scheduler.Start(), "dispatch schedule")
}

func TestSchedulerWithoutJobs(t *testing.T) {
	scheduler := NewScheduler(nil)
	require.NoError(t, scheduler.Start())
	require.Error(t, scheduler.RunOnce(context.Background()))
	<-scheduler.Stop().Done()
}

func TestSchedulerDrivesInvitationService(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&models.Manuscript{
		BaseModel: models.BaseModel{ID: "ms-1"},
		Title:     "Scheduling",
		AuthorIDs: []string{"author-1"},
	}).Error)
	lastActive := now.AddDate(0, -1, 0)
	require.NoError(t, db.Create(&models.Reviewer{
		BaseModel:    models.BaseModel{ID: "rev-1"},
		FirstName:    "Rita",
		LastName:     "Levi",
		Email:        "rita@example.org",
		Role:         models.ReviewerRole,
		LastActiveAt: &lastActive,
		IsActive:     true,
	}).Error)

	var sent atomic.Int32
	gateway := services.NotificationGatewayFunc(func(context.Context, string, services.NotificationPayload) error {
		sent.Add(1)
		return nil
	})
	store := repository.NewStore(db)
	conflicts, err := services.NewConflictService(store.Conflicts)
	require.NoError(t, err)
	invitations, err := services.NewInvitationService(store, conflicts, gateway, services.WithInvitationClock(func() time.Time { return now }))
	require.NoError(t, err)

	result, err := invitations.SendInvitations(ctx, services.SendInvitationsRequest{
		ManuscriptID:     "ms-1",
		ReviewerIDs:      []string{"rev-1"},
		InvitedBy:        models.SystemEditorID,
		ReviewDeadline:   now.AddDate(0, 0, 21),
		ResponseDeadline: now.AddDate(0, 0, 7),
		Stagger:          services.StaggerPolicy{Enabled: true, IntervalHours: 1},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Sent)

	now = now.AddDate(0, 0, 14).Add(time.Hour)
	scheduler := NewScheduler(invitations)
	require.NoError(t, scheduler.RunOnce(ctx))
	require.EqualValues(t, 2, sent.Load(), "invitation plus the seven-day reminder")

	invitation, err := store.Invitations.GetByID(ctx, result.Results[0].InvitationID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationExpired, invitation.Status)
	require.Equal(t, 1, invitation.ReminderCount)
}
