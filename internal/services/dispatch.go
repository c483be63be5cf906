package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/charlesng35/reviewerdesk/internal/models"
	"github.com/charlesng35/reviewerdesk/internal/repository"
	"github.com/charlesng35/reviewerdesk/pkg/metrics"
)

const (
	defaultDispatchBatch = 100
	defaultReminderGrace = 24 * time.Hour
)

// DispatchReport summarises one scheduler run.
type DispatchReport struct {
	Claimed   int
	Sent      int
	Reminders int
	Skipped   int
	Failed    int
}

// DispatchDue processes queued jobs whose due time has passed. A failing job never stops
// the batch; job errors are aggregated into the returned error.
func (s *InvitationService) DispatchDue(ctx context.Context) (DispatchReport, error) {
	var report DispatchReport

	jobs, claimErr := s.dispatches.ClaimDue(ctx, s.now(), s.dispatchBatch)
	report.Claimed = len(jobs)

	var errs error
	if claimErr != nil {
		errs = fmt.Errorf("invitation service: claim due dispatches: %w", claimErr)
	}
	for i := range jobs {
		job := &jobs[i]
		var (
			status models.DispatchStatus
			jobErr error
		)
		switch job.Kind {
		case models.DispatchInvitation:
			status, jobErr = s.dispatchInvitation(ctx, job)
		case models.DispatchReminder:
			status, jobErr = s.dispatchReminder(ctx, job)
		default:
			status, jobErr = models.DispatchFailed, fmt.Errorf("unknown dispatch kind %q", job.Kind)
		}

		lastError := ""
		if jobErr != nil {
			lastError = jobErr.Error()
			errs = multierr.Append(errs, fmt.Errorf("%s %s: %w", job.Kind, job.ID, jobErr))
		}
		if err := s.dispatches.Complete(ctx, job.ID, status, lastError, s.now()); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("complete %s: %w", job.ID, err))
		}
		metrics.ScheduledDispatches.WithLabelValues(string(job.Kind), string(status)).Inc()

		switch {
		case status == models.DispatchSkipped:
			report.Skipped++
		case status == models.DispatchFailed:
			report.Failed++
		case job.Kind == models.DispatchInvitation:
			report.Sent++
		default:
			report.Reminders++
		}
	}

	if report.Claimed > 0 {
		s.log.Info("scheduled dispatches processed",
			zap.Int("claimed", report.Claimed),
			zap.Int("sent", report.Sent),
			zap.Int("reminders", report.Reminders),
			zap.Int("skipped", report.Skipped),
			zap.Int("failed", report.Failed))
	}
	return report, errs
}

// dispatchInvitation sends a deferred invitation. A failed send rolls the invitation back.
func (s *InvitationService) dispatchInvitation(ctx context.Context, job *models.ScheduledDispatch) (models.DispatchStatus, error) {
	invitation, err := s.invitations.GetByID(ctx, job.InvitationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.DispatchSkipped, nil
		}
		return models.DispatchFailed, err
	}
	if invitation.Status != models.InvitationPending || invitation.SentAt != nil {
		return models.DispatchSkipped, nil
	}
	if now := s.now(); invitation.IsExpired(now) {
		if err := s.transition(ctx, invitation, models.InvitationExpired, now, "response deadline passed"); err != nil && !errors.Is(err, ErrInvalidTransition) {
			return models.DispatchFailed, err
		}
		return models.DispatchSkipped, nil
	}
	if job.Token == "" {
		s.rollback(ctx, invitation.ID)
		return models.DispatchFailed, errors.New("scheduled invitation has no token")
	}

	reviewer, manuscript, err := s.recipient(ctx, invitation)
	if err == nil {
		err = s.gateway.Send(ctx, reviewer.ID, invitationPayload(invitation, manuscript, reviewer, job.Token))
	}
	if err != nil {
		s.log.Warn("scheduled invitation dispatch failed",
			zap.String("invitation_id", invitation.ID),
			zap.String("reviewer_id", invitation.ReviewerID),
			zap.Error(err))
		s.rollback(ctx, invitation.ID)
		return models.DispatchFailed, err
	}

	now := s.now()
	if err := s.invitations.MarkSent(ctx, invitation.ID, now); err != nil {
		s.log.Warn("mark invitation sent failed", zap.String("invitation_id", invitation.ID), zap.Error(err))
	}
	s.scheduleReminders(ctx, invitation, now)
	return models.DispatchDone, nil
}

// dispatchReminder reminds reviewers whose invitation is still pending or accepted. A
// reminder that missed its slot by more than the grace window, or whose review deadline
// has passed, is skipped rather than sent late.
func (s *InvitationService) dispatchReminder(ctx context.Context, job *models.ScheduledDispatch) (models.DispatchStatus, error) {
	invitation, err := s.invitations.GetByID(ctx, job.InvitationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.DispatchSkipped, nil
		}
		return models.DispatchFailed, err
	}
	if invitation.Status != models.InvitationPending && invitation.Status != models.InvitationAccepted {
		return models.DispatchSkipped, nil
	}
	now := s.now()
	if now.After(invitation.ReviewDeadline) || now.Sub(job.DueAt) > s.reminderGrace {
		s.log.Debug("stale reminder skipped",
			zap.String("invitation_id", invitation.ID),
			zap.Time("due_at", job.DueAt))
		return models.DispatchSkipped, nil
	}

	reviewer, manuscript, err := s.recipient(ctx, invitation)
	if err != nil {
		return models.DispatchFailed, err
	}
	payload := NotificationPayload{
		Kind:             NotificationReminder,
		InvitationID:     invitation.ID,
		ManuscriptID:     manuscript.ID,
		ManuscriptTitle:  manuscript.Title,
		ReviewerName:     reviewer.FullName(),
		ReviewerEmail:    reviewer.Email,
		ReviewDeadline:   invitation.ReviewDeadline,
		ResponseDeadline: invitation.ResponseDeadline,
	}
	if err := s.gateway.Send(ctx, reviewer.ID, payload); err != nil {
		return models.DispatchFailed, err
	}

	if err := s.invitations.IncrementReminder(ctx, invitation.ID, now); err != nil {
		s.log.Warn("record reminder failed", zap.String("invitation_id", invitation.ID), zap.Error(err))
	}
	return models.DispatchDone, nil
}
