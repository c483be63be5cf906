package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/charlesng35/reviewerdesk/internal/matching"
	"github.com/charlesng35/reviewerdesk/internal/models"
	"github.com/charlesng35/reviewerdesk/internal/repository"
	"github.com/charlesng35/reviewerdesk/pkg/logger"
	"github.com/charlesng35/reviewerdesk/pkg/metrics"
)

const (
	defaultConflictTimeout     = 3 * time.Second
	defaultConflictConcurrency = 8
)

// ConflictChecker evaluates conflicts of interest for a batch of reviewers. It never fails
// as a whole: reviewers whose lookup failed come back with a fail-safe assessment.
type ConflictChecker interface {
	CheckBatch(ctx context.Context, manuscript matching.ManuscriptContext, reviewerIDs []string) map[string]matching.ConflictAssessment
}

// ConflictOption customises ConflictService behaviour.
type ConflictOption func(*ConflictService)

// WithConflictTimeout bounds each reviewer's evidence lookup.
func WithConflictTimeout(d time.Duration) ConflictOption {
	return func(s *ConflictService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithConflictConcurrency limits the number of lookups in flight.
func WithConflictConcurrency(n int) ConflictOption {
	return func(s *ConflictService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithConflictRules replaces the default rule policy.
func WithConflictRules(rules matching.ConflictRules) ConflictOption {
	return func(s *ConflictService) {
		s.rules = rules
	}
}

// WithConflictClock injects a custom clock primarily for testing.
func WithConflictClock(clock func() time.Time) ConflictOption {
	return func(s *ConflictService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// ConflictService loads conflict evidence and applies the detection rules.
type ConflictService struct {
	repo        repository.ConflictRepository
	rules       matching.ConflictRules
	timeout     time.Duration
	concurrency int
	now         func() time.Time
	log         *zap.Logger
}

// NewConflictService constructs a ConflictService.
func NewConflictService(repo repository.ConflictRepository, opts ...ConflictOption) (*ConflictService, error) {
	if repo == nil {
		return nil, errors.New("conflict service: repository is required")
	}

	service := &ConflictService{
		repo:        repo,
		rules:       matching.DefaultConflictRules(),
		timeout:     defaultConflictTimeout,
		concurrency: defaultConflictConcurrency,
		now:         func() time.Time { return time.Now().UTC() },
		log:         logger.WithModule("conflicts"),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Check evaluates one reviewer and returns an error when evidence could not be loaded.
func (s *ConflictService) Check(ctx context.Context, manuscript matching.ManuscriptContext, reviewerID string) (matching.ConflictAssessment, error) {
	if manuscript.IsAuthor(reviewerID) {
		conflict := matching.NewConflict(reviewerID, reviewerID, matching.ConflictCustom, matching.SeverityBlocking, "reviewer is an author of the manuscript")
		return matching.Assess(reviewerID, []matching.ConflictRecord{conflict}), nil
	}

	evidence, err := s.loadEvidence(ctx, manuscript.AuthorIDs, reviewerID)
	if err != nil {
		return matching.ConflictAssessment{}, err
	}
	conflicts := s.rules.Detect(reviewerID, evidence, s.now())
	return matching.Assess(reviewerID, conflicts), nil
}

// CheckBatch runs Check for every reviewer with bounded concurrency. Each lookup gets its
// own timeout; failures and timeouts yield a fail-safe assessment instead of an error.
func (s *ConflictService) CheckBatch(ctx context.Context, manuscript matching.ManuscriptContext, reviewerIDs []string) map[string]matching.ConflictAssessment {
	ids := normaliseIDs(reviewerIDs)
	assessments := make([]matching.ConflictAssessment, len(ids))

	var group errgroup.Group
	group.SetLimit(s.concurrency)

	for i, id := range ids {
		group.Go(func() error {
			assessments[i] = s.checkOne(ctx, manuscript, id)
			return nil
		})
	}
	_ = group.Wait()

	out := make(map[string]matching.ConflictAssessment, len(ids))
	for _, assessment := range assessments {
		out[assessment.ReviewerID] = assessment
	}
	return out
}

func (s *ConflictService) checkOne(ctx context.Context, manuscript matching.ManuscriptContext, reviewerID string) matching.ConflictAssessment {
	lookupCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	assessment, err := s.Check(lookupCtx, manuscript, reviewerID)
	if err == nil && lookupCtx.Err() != nil {
		err = lookupCtx.Err()
	}
	if err != nil {
		s.log.Warn("conflict lookup failed",
			zap.String("manuscript_id", manuscript.ID),
			zap.String("reviewer_id", reviewerID),
			zap.Error(err))
		metrics.ConflictChecks.WithLabelValues("lookup_failed").Inc()
		return matching.FailSafeAssessment(reviewerID, err)
	}

	switch {
	case !assessment.Eligible:
		metrics.ConflictChecks.WithLabelValues("blocking").Inc()
	case len(assessment.Conflicts) > 0:
		metrics.ConflictChecks.WithLabelValues("warning").Inc()
	default:
		metrics.ConflictChecks.WithLabelValues("clear").Inc()
	}
	return assessment
}

func (s *ConflictService) loadEvidence(ctx context.Context, authorIDs []string, reviewerID string) (matching.ConflictEvidence, error) {
	evidence := matching.ConflictEvidence{
		AuthorIDs:          authorIDs,
		AuthorAffiliations: make(map[string][]matching.Affiliation, len(authorIDs)),
	}
	if len(authorIDs) == 0 {
		return evidence, nil
	}

	people := append([]string{reviewerID}, authorIDs...)
	affiliations, err := s.repo.Affiliations(ctx, people)
	if err != nil {
		return evidence, fmt.Errorf("load affiliations: %w", err)
	}
	for _, record := range affiliations {
		affiliation := matching.Affiliation{
			Institution: record.Institution,
			StartedAt:   record.StartedAt,
			EndedAt:     record.EndedAt,
		}
		if record.PersonID == reviewerID {
			evidence.ReviewerAffiliations = append(evidence.ReviewerAffiliations, affiliation)
			continue
		}
		evidence.AuthorAffiliations[record.PersonID] = append(evidence.AuthorAffiliations[record.PersonID], affiliation)
	}

	edges, err := s.repo.Collaborations(ctx, reviewerID, authorIDs)
	if err != nil {
		return evidence, fmt.Errorf("load collaborations: %w", err)
	}
	for _, edge := range edges {
		evidence.Collaborations = append(evidence.Collaborations, collaborationFor(reviewerID, edge))
	}

	declarations, err := s.repo.Declarations(ctx, reviewerID, authorIDs)
	if err != nil {
		return evidence, fmt.Errorf("load declarations: %w", err)
	}
	for _, declaration := range declarations {
		evidence.Declarations = append(evidence.Declarations, matching.Declaration{
			CounterpartID: declaration.CounterpartID,
			Type:          declaration.Type,
			Severity:      declaration.Severity,
			Evidence:      declaration.Evidence,
		})
	}

	return evidence, nil
}

// collaborationFor orients a stored edge so that the counterpart is the other person.
func collaborationFor(reviewerID string, edge models.Collaboration) matching.Collaboration {
	counterpart := edge.CounterpartID
	if edge.CounterpartID == reviewerID {
		counterpart = edge.PersonID
	}
	return matching.Collaboration{
		CounterpartID:      counterpart,
		Kind:               string(edge.Kind),
		JointPublications:  edge.JointPublications,
		LastCollaboratedAt: edge.LastCollaboratedAt,
	}
}
