package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/charlesng35/reviewerdesk/internal/matching"
	"github.com/charlesng35/reviewerdesk/internal/models"
	"github.com/charlesng35/reviewerdesk/internal/repository"
	"github.com/charlesng35/reviewerdesk/pkg/crypto"
	"github.com/charlesng35/reviewerdesk/pkg/logger"
	"github.com/charlesng35/reviewerdesk/pkg/metrics"
)

const (
	defaultDispatchWorkers = 4
	defaultTokenBytes      = 32
	tokenAttempts          = 3
)

// DefaultReminderDays are the day offsets before the review deadline at which reminders go out.
var DefaultReminderDays = []int{7, 3, 1}

// InvitationOutcome is the per-reviewer result of a batch.
type InvitationOutcome string

const (
	OutcomeSent      InvitationOutcome = "sent"
	OutcomeScheduled InvitationOutcome = "scheduled"
	OutcomeFailed    InvitationOutcome = "failed"
	OutcomeSkipped   InvitationOutcome = "skipped"
)

// StaggerPolicy spreads sends over time: the reviewer at request position i is sent
// i×IntervalHours after the batch starts.
type StaggerPolicy struct {
	Enabled       bool    `json:"enabled"`
	IntervalHours float64 `json:"interval_hours"`
}

func (p StaggerPolicy) offset(index int) time.Duration {
	if !p.Enabled || p.IntervalHours <= 0 || index <= 0 {
		return 0
	}
	return time.Duration(float64(index) * p.IntervalHours * float64(time.Hour))
}

// SendInvitationsRequest describes one invitation batch.
type SendInvitationsRequest struct {
	ManuscriptID     string
	ReviewerIDs      []string
	InvitedBy        string
	ReviewDeadline   time.Time
	ResponseDeadline time.Time
	Stagger          StaggerPolicy
	// ReminderDays nil applies DefaultReminderDays; an empty slice disables reminders.
	ReminderDays []int
	Message      string
}

// InvitationResult reports what happened to one requested reviewer.
type InvitationResult struct {
	ReviewerID   string            `json:"reviewer_id"`
	Status       InvitationOutcome `json:"status"`
	InvitationID string            `json:"invitation_id,omitempty"`
	Token        string            `json:"token,omitempty"`
	ScheduledFor *time.Time        `json:"scheduled_for,omitempty"`
	Reason       string            `json:"reason,omitempty"`
}

// BulkInvitationResult lists every requested reviewer in request order with a summary.
type BulkInvitationResult struct {
	ManuscriptID      string             `json:"manuscript_id"`
	Results           []InvitationResult `json:"results"`
	Sent              int                `json:"sent"`
	Scheduled         int                `json:"scheduled"`
	Failed            int                `json:"failed"`
	Skipped           int                `json:"skipped"`
	ConflictsDetected int                `json:"conflicts_detected"`
}

func (r *BulkInvitationResult) tally() {
	r.Sent, r.Scheduled, r.Failed, r.Skipped = 0, 0, 0, 0
	for _, result := range r.Results {
		switch result.Status {
		case OutcomeSent:
			r.Sent++
		case OutcomeScheduled:
			r.Scheduled++
		case OutcomeFailed:
			r.Failed++
		case OutcomeSkipped:
			r.Skipped++
		}
		metrics.InvitationOutcomes.WithLabelValues(string(result.Status)).Inc()
	}
}

// InvitationSender is the batch entry point consumed by campaigns.
type InvitationSender interface {
	SendInvitations(ctx context.Context, req SendInvitationsRequest) (*BulkInvitationResult, error)
}

// InvitationOption customises InvitationService behaviour.
type InvitationOption func(*InvitationService)

// WithDispatchWorkers bounds concurrent create-and-dispatch units.
func WithDispatchWorkers(n int) InvitationOption {
	return func(s *InvitationService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithInvitationTokenSize adjusts the random token length in bytes.
func WithInvitationTokenSize(size int) InvitationOption {
	return func(s *InvitationService) {
		if size > 0 {
			s.tokenBytes = size
		}
	}
}

// WithDefaultReminderDays replaces the reminder offsets used when a request carries none.
func WithDefaultReminderDays(days []int) InvitationOption {
	return func(s *InvitationService) {
		if days != nil {
			s.reminderDays = append([]int(nil), days...)
		}
	}
}

// WithDispatchBatchSize bounds the number of scheduled jobs claimed per run.
func WithDispatchBatchSize(n int) InvitationOption {
	return func(s *InvitationService) {
		if n > 0 {
			s.dispatchBatch = n
		}
	}
}

// WithReminderGrace bounds how long after its due time a reminder is still sent.
func WithReminderGrace(d time.Duration) InvitationOption {
	return func(s *InvitationService) {
		if d > 0 {
			s.reminderGrace = d
		}
	}
}

// WithInvitationClock injects a custom clock primarily for testing.
func WithInvitationClock(clock func() time.Time) InvitationOption {
	return func(s *InvitationService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// InvitationService orchestrates invitation batches, responses and scheduled dispatches.
type InvitationService struct {
	manuscripts   repository.ManuscriptRepository
	editors       repository.EditorRepository
	reviewers     repository.CandidateRepository
	invitations   repository.InvitationRepository
	dispatches    repository.DispatchRepository
	conflicts     ConflictChecker
	gateway       NotificationGateway
	workers       int
	tokenBytes    int
	reminderDays  []int
	dispatchBatch int
	reminderGrace time.Duration
	now           func() time.Time
	log           *zap.Logger
}

// NewInvitationService constructs an InvitationService.
func NewInvitationService(store *repository.Store, conflicts ConflictChecker, gateway NotificationGateway, opts ...InvitationOption) (*InvitationService, error) {
	if store == nil {
		return nil, errors.New("invitation service: store is required")
	}
	if conflicts == nil {
		return nil, errors.New("invitation service: conflict checker is required")
	}
	if gateway == nil {
		return nil, errors.New("invitation service: notification gateway is required")
	}

	service := &InvitationService{
		manuscripts:   store.Manuscripts,
		editors:       store.Editors,
		reviewers:     store.Candidates,
		invitations:   store.Invitations,
		dispatches:    store.Dispatches,
		conflicts:     conflicts,
		gateway:       gateway,
		workers:       defaultDispatchWorkers,
		tokenBytes:    defaultTokenBytes,
		reminderDays:  append([]int(nil), DefaultReminderDays...),
		dispatchBatch: defaultDispatchBatch,
		reminderGrace: defaultReminderGrace,
		now:           func() time.Time { return time.Now().UTC() },
		log:           logger.WithModule("invitations"),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// sendUnit is one reviewer that passed every pre-dispatch check.
type sendUnit struct {
	index    int
	reviewer models.Reviewer
	sendAt   time.Time
}

// SendInvitations creates and dispatches invitations for every requested reviewer. Only
// request-level problems return an error; per-reviewer problems are reported in the result.
func (s *InvitationService) SendInvitations(ctx context.Context, req SendInvitationsRequest) (*BulkInvitationResult, error) {
	now := s.now()
	if err := validateSendRequest(req, now); err != nil {
		return nil, err
	}

	manuscript, err := s.manuscripts.Get(ctx, req.ManuscriptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrManuscriptNotFound
		}
		return nil, fmt.Errorf("invitation service: load manuscript: %w", err)
	}
	if _, err := s.editors.Get(ctx, req.InvitedBy); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEditorNotFound
		}
		return nil, fmt.Errorf("invitation service: load editor: %w", err)
	}

	reviewers, err := s.reviewers.GetByIDs(ctx, normaliseIDs(req.ReviewerIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReviewerLookup, err)
	}
	directory := make(map[string]models.Reviewer, len(reviewers))
	for _, reviewer := range reviewers {
		directory[reviewer.ID] = reviewer
	}

	active, err := s.invitations.ActiveReviewerIDs(ctx, manuscript.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: active invitations: %v", ErrReviewerLookup, err)
	}

	if req.ReminderDays == nil {
		req.ReminderDays = s.reminderDays
	}

	result := &BulkInvitationResult{
		ManuscriptID: manuscript.ID,
		Results:      make([]InvitationResult, len(req.ReviewerIDs)),
	}

	seen := make(map[string]struct{}, len(req.ReviewerIDs))
	pending := make([]int, 0, len(req.ReviewerIDs))
	var checkIDs []string
	for i, raw := range req.ReviewerIDs {
		id := strings.TrimSpace(raw)
		result.Results[i] = InvitationResult{ReviewerID: id}

		if _, dup := seen[id]; dup && id != "" {
			result.Results[i].Status = OutcomeSkipped
			result.Results[i].Reason = "duplicate reviewer in request"
			continue
		}
		seen[id] = struct{}{}

		if _, ok := directory[id]; !ok {
			result.Results[i].Status = OutcomeFailed
			result.Results[i].Reason = "reviewer not found"
			continue
		}
		if containsString(active, id) {
			result.Results[i].Status = OutcomeSkipped
			result.Results[i].Reason = "reviewer already invited"
			continue
		}
		pending = append(pending, i)
		checkIDs = append(checkIDs, id)
	}

	mctx := manuscriptContext(manuscript)
	assessments := s.conflicts.CheckBatch(ctx, mctx, checkIDs)

	units := make([]sendUnit, 0, len(pending))
	for _, i := range pending {
		id := result.Results[i].ReviewerID
		assessment, ok := assessments[id]
		if !ok {
			assessment = matching.FailSafeAssessment(id, nil)
		}
		if !assessment.Eligible {
			result.Results[i].Status = OutcomeFailed
			result.Results[i].Reason = "Conflict of interest: " + assessment.Summary()
			result.ConflictsDetected++
			continue
		}
		units = append(units, sendUnit{
			index:    i,
			reviewer: directory[id],
			sendAt:   now.Add(req.Stagger.offset(i)),
		})
	}

	var group errgroup.Group
	group.SetLimit(s.workers)
	for _, unit := range units {
		group.Go(func() error {
			result.Results[unit.index] = s.invite(ctx, req, manuscript, unit, now)
			return nil
		})
	}
	_ = group.Wait()

	result.tally()
	s.log.Info("invitation batch processed",
		zap.String("manuscript_id", manuscript.ID),
		zap.String("invited_by", req.InvitedBy),
		zap.Int("requested", len(req.ReviewerIDs)),
		zap.Int("sent", result.Sent),
		zap.Int("scheduled", result.Scheduled),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
		zap.Int("conflicts", result.ConflictsDetected))

	return result, nil
}

func validateSendRequest(req SendInvitationsRequest, now time.Time) error {
	switch {
	case strings.TrimSpace(req.ManuscriptID) == "":
		return fmt.Errorf("%w: manuscript id is required", ErrInvalidInvitationRequest)
	case strings.TrimSpace(req.InvitedBy) == "":
		return fmt.Errorf("%w: inviter is required", ErrInvalidInvitationRequest)
	case len(req.ReviewerIDs) == 0:
		return fmt.Errorf("%w: at least one reviewer is required", ErrInvalidInvitationRequest)
	case req.ReviewDeadline.IsZero() || req.ResponseDeadline.IsZero():
		return fmt.Errorf("%w: review and response deadlines are required", ErrInvalidInvitationRequest)
	case !req.ReviewDeadline.After(now):
		return fmt.Errorf("%w: review deadline must be in the future", ErrInvalidInvitationRequest)
	case !req.ResponseDeadline.After(now):
		return fmt.Errorf("%w: response deadline must be in the future", ErrInvalidInvitationRequest)
	case req.ResponseDeadline.After(req.ReviewDeadline):
		return fmt.Errorf("%w: response deadline must not be after the review deadline", ErrInvalidInvitationRequest)
	case req.Stagger.Enabled && (req.Stagger.IntervalHours < 0 || math.IsNaN(req.Stagger.IntervalHours)):
		return fmt.Errorf("%w: stagger interval must not be negative", ErrInvalidInvitationRequest)
	}
	for _, days := range req.ReminderDays {
		if days <= 0 {
			return fmt.Errorf("%w: reminder days must be positive", ErrInvalidInvitationRequest)
		}
	}
	return nil
}

// invite is one independent unit of work: create, then dispatch now or enqueue for later.
// Any failure after the insert removes only this reviewer's invitation.
func (s *InvitationService) invite(ctx context.Context, req SendInvitationsRequest, manuscript *models.Manuscript, unit sendUnit, now time.Time) InvitationResult {
	result := InvitationResult{ReviewerID: unit.reviewer.ID}
	fail := func(reason string) InvitationResult {
		result.Status = OutcomeFailed
		result.Reason = reason
		result.InvitationID = ""
		result.Token = ""
		return result
	}

	invitation, token, err := s.createInvitation(ctx, req, unit.reviewer.ID, now)
	if err != nil {
		s.log.Warn("create invitation failed", zap.String("reviewer_id", unit.reviewer.ID), zap.Error(err))
		return fail(fmt.Sprintf("create invitation: %v", err))
	}
	result.InvitationID = invitation.ID
	result.Token = token

	if unit.sendAt.After(now) {
		job := &models.ScheduledDispatch{
			Kind:         models.DispatchInvitation,
			InvitationID: invitation.ID,
			DueAt:        unit.sendAt,
			Token:        token,
		}
		if err := s.dispatches.Enqueue(ctx, job); err != nil {
			s.rollback(ctx, invitation.ID)
			return fail(fmt.Sprintf("schedule dispatch: %v", err))
		}
		scheduledFor := unit.sendAt
		result.Status = OutcomeScheduled
		result.ScheduledFor = &scheduledFor
		return result
	}

	if err := s.gateway.Send(ctx, unit.reviewer.ID, invitationPayload(invitation, manuscript, unit.reviewer, token)); err != nil {
		s.log.Warn("invitation dispatch failed",
			zap.String("reviewer_id", unit.reviewer.ID),
			zap.String("invitation_id", invitation.ID),
			zap.Error(err))
		s.rollback(ctx, invitation.ID)
		return fail(err.Error())
	}

	if err := s.invitations.MarkSent(ctx, invitation.ID, now); err != nil {
		s.log.Warn("mark invitation sent failed", zap.String("invitation_id", invitation.ID), zap.Error(err))
	}
	s.scheduleReminders(ctx, invitation, now)

	result.Status = OutcomeSent
	return result
}

func (s *InvitationService) createInvitation(ctx context.Context, req SendInvitationsRequest, reviewerID string, now time.Time) (*models.Invitation, string, error) {
	var lastErr error
	for attempt := 0; attempt < tokenAttempts; attempt++ {
		token, err := crypto.GenerateToken(s.tokenBytes)
		if err != nil {
			return nil, "", fmt.Errorf("generate token: %w", err)
		}
		invitation := &models.Invitation{
			BaseModel:        models.BaseModel{CreatedAt: now},
			ManuscriptID:     req.ManuscriptID,
			ReviewerID:       reviewerID,
			InvitedBy:        req.InvitedBy,
			Status:           models.InvitationPending,
			TokenHash:        crypto.HashToken(token),
			ReviewDeadline:   req.ReviewDeadline,
			ResponseDeadline: req.ResponseDeadline,
			ReminderDays:     append([]int{}, req.ReminderDays...),
			Message:          req.Message,
		}
		err = s.invitations.Create(ctx, invitation)
		if err == nil {
			return invitation, token, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, "", err
		}
		lastErr = err
	}
	return nil, "", lastErr
}

func (s *InvitationService) rollback(ctx context.Context, invitationID string) {
	if err := s.invitations.Delete(ctx, invitationID); err != nil {
		s.log.Error("rollback invitation failed", zap.String("invitation_id", invitationID), zap.Error(err))
	}
}

// scheduleReminders enqueues one reminder per configured offset before the review deadline.
// Offsets already in the past are skipped; enqueue failures are logged only.
func (s *InvitationService) scheduleReminders(ctx context.Context, invitation *models.Invitation, now time.Time) int {
	scheduled := 0
	for _, days := range invitation.ReminderDays {
		dueAt := invitation.ReviewDeadline.AddDate(0, 0, -days)
		if !dueAt.After(now) {
			continue
		}
		job := &models.ScheduledDispatch{
			Kind:         models.DispatchReminder,
			InvitationID: invitation.ID,
			DueAt:        dueAt,
		}
		if err := s.dispatches.Enqueue(ctx, job); err != nil {
			s.log.Warn("schedule reminder failed",
				zap.String("invitation_id", invitation.ID),
				zap.Int("days_before", days),
				zap.Error(err))
			continue
		}
		scheduled++
	}
	return scheduled
}

func invitationPayload(invitation *models.Invitation, manuscript *models.Manuscript, reviewer models.Reviewer, token string) NotificationPayload {
	return NotificationPayload{
		Kind:             NotificationInvitation,
		InvitationID:     invitation.ID,
		ManuscriptID:     manuscript.ID,
		ManuscriptTitle:  manuscript.Title,
		ReviewerName:     reviewer.FullName(),
		ReviewerEmail:    reviewer.Email,
		Token:            token,
		ReviewDeadline:   invitation.ReviewDeadline,
		ResponseDeadline: invitation.ResponseDeadline,
		Message:          invitation.Message,
	}
}

// IsExpired reports whether a pending invitation has passed its response deadline.
func IsExpired(invitation models.Invitation, now time.Time) bool {
	return invitation.IsExpired(now)
}

// CancelInvitation withdraws a pending invitation. Cancelling an invitation that already
// left the pending state returns ErrInvalidTransition.
func (s *InvitationService) CancelInvitation(ctx context.Context, token, reason string) (*models.Invitation, error) {
	invitation, err := s.lookupToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	reason = strings.TrimSpace(reason)
	if err := s.transition(ctx, invitation, models.InvitationCancelled, now, reason); err != nil {
		return nil, err
	}
	s.skipQueued(ctx, invitation.ID, now)

	if invitation.SentAt != nil {
		s.notifyCancellation(ctx, invitation, reason)
	}

	return s.reload(ctx, invitation.ID)
}

// RespondToInvitation records the reviewer's answer. Late answers expire the invitation
// and return ErrInvitationExpired.
func (s *InvitationService) RespondToInvitation(ctx context.Context, token string, accept bool, reason string) (*models.Invitation, error) {
	invitation, err := s.lookupToken(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if invitation.IsExpired(now) {
		if err := s.transition(ctx, invitation, models.InvitationExpired, now, "response deadline passed"); err == nil {
			s.skipQueued(ctx, invitation.ID, now)
		}
		return nil, ErrInvitationExpired
	}

	to := models.InvitationDeclined
	if accept {
		to = models.InvitationAccepted
	}
	if err := s.transition(ctx, invitation, to, now, strings.TrimSpace(reason)); err != nil {
		return nil, err
	}
	if !accept {
		s.skipQueued(ctx, invitation.ID, now)
	}

	return s.reload(ctx, invitation.ID)
}

// ExpireOverdue moves pending invitations past their response deadline to expired. It is
// the entry point for the external expiry sweep.
func (s *InvitationService) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now()
	overdue, err := s.invitations.ListOverduePending(ctx, now, 0)
	if err != nil {
		return 0, fmt.Errorf("invitation service: list overdue: %w", err)
	}

	expired := 0
	var errs error
	for i := range overdue {
		invitation := &overdue[i]
		if !IsExpired(*invitation, now) {
			continue
		}
		err := s.transition(ctx, invitation, models.InvitationExpired, now, "response deadline passed")
		switch {
		case err == nil:
			expired++
			s.skipQueued(ctx, invitation.ID, now)
		case errors.Is(err, ErrInvalidTransition):
			// answered concurrently
		default:
			errs = multierr.Append(errs, fmt.Errorf("expire %s: %w", invitation.ID, err))
		}
	}
	return expired, errs
}

func (s *InvitationService) lookupToken(ctx context.Context, token string) (*models.Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvitationNotFound
	}
	invitation, err := s.invitations.GetByTokenHash(ctx, crypto.HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("invitation service: lookup token: %w", err)
	}
	return invitation, nil
}

func (s *InvitationService) transition(ctx context.Context, invitation *models.Invitation, to models.InvitationStatus, at time.Time, reason string) error {
	if invitation.Status.IsTerminal() {
		return fmt.Errorf("%w: invitation is %s", ErrInvalidTransition, invitation.Status)
	}
	err := s.invitations.Transition(ctx, invitation.ID, to, at, reason)
	switch {
	case err == nil:
		metrics.InvitationTransitions.WithLabelValues(string(to)).Inc()
		return nil
	case errors.Is(err, repository.ErrNotPending):
		return fmt.Errorf("%w: invitation is no longer pending", ErrInvalidTransition)
	case errors.Is(err, repository.ErrNotFound):
		return ErrInvitationNotFound
	default:
		return fmt.Errorf("invitation service: transition to %s: %w", to, err)
	}
}

func (s *InvitationService) skipQueued(ctx context.Context, invitationID string, at time.Time) {
	if _, err := s.dispatches.SkipForInvitation(ctx, invitationID, at); err != nil {
		s.log.Warn("skip queued dispatches failed", zap.String("invitation_id", invitationID), zap.Error(err))
	}
}

func (s *InvitationService) reload(ctx context.Context, id string) (*models.Invitation, error) {
	invitation, err := s.invitations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("invitation service: reload: %w", err)
	}
	return invitation, nil
}

func (s *InvitationService) notifyCancellation(ctx context.Context, invitation *models.Invitation, reason string) {
	reviewer, manuscript, err := s.recipient(ctx, invitation)
	if err != nil {
		s.log.Warn("cancellation notice skipped", zap.String("invitation_id", invitation.ID), zap.Error(err))
		return
	}
	payload := NotificationPayload{
		Kind:            NotificationCancellation,
		InvitationID:    invitation.ID,
		ManuscriptID:    invitation.ManuscriptID,
		ManuscriptTitle: manuscript.Title,
		ReviewerName:    reviewer.FullName(),
		ReviewerEmail:   reviewer.Email,
		ReviewDeadline:  invitation.ReviewDeadline,
		Reason:          reason,
	}
	if err := s.gateway.Send(ctx, reviewer.ID, payload); err != nil {
		s.log.Warn("cancellation notice failed",
			zap.String("invitation_id", invitation.ID),
			zap.String("reviewer_id", reviewer.ID),
			zap.Error(err))
	}
}

func (s *InvitationService) recipient(ctx context.Context, invitation *models.Invitation) (models.Reviewer, *models.Manuscript, error) {
	reviewers, err := s.reviewers.GetByIDs(ctx, []string{invitation.ReviewerID})
	if err != nil {
		return models.Reviewer{}, nil, fmt.Errorf("load reviewer: %w", err)
	}
	if len(reviewers) == 0 {
		return models.Reviewer{}, nil, fmt.Errorf("load reviewer: %w", repository.ErrNotFound)
	}
	manuscript, err := s.manuscripts.Get(ctx, invitation.ManuscriptID)
	if err != nil {
		return models.Reviewer{}, nil, fmt.Errorf("load manuscript: %w", err)
	}
	return reviewers[0], manuscript, nil
}

// ListInvitations returns every invitation of a manuscript, oldest first.
func (s *InvitationService) ListInvitations(ctx context.Context, manuscriptID string) ([]models.Invitation, error) {
	if _, err := s.manuscripts.Get(ctx, manuscriptID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrManuscriptNotFound
		}
		return nil, fmt.Errorf("invitation service: load manuscript: %w", err)
	}
	invitations, err := s.invitations.ListByManuscript(ctx, manuscriptID)
	if err != nil {
		return nil, fmt.Errorf("invitation service: list invitations: %w", err)
	}
	return invitations, nil
}
