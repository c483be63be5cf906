package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/reviewerdesk/internal/matching"
	"github.com/charlesng35/reviewerdesk/internal/repository"
	"github.com/charlesng35/reviewerdesk/pkg/logger"
	"github.com/charlesng35/reviewerdesk/pkg/metrics"
)

const (
	defaultPoolMultiplier = 3
	defaultMatchLimit     = 10
	maxMatchLimit         = 100
)

// MatchCriteria drives a reviewer search for one manuscript.
type MatchCriteria struct {
	ManuscriptID       string
	Limit              int
	MaxLoad            int
	MinHIndex          int
	MinPublications    int
	ExcludeReviewerIDs []string
	// IncludeInvited keeps reviewers that already hold a pending or accepted invitation.
	IncludeInvited bool
}

// MatchingResult is the ranked shortlist plus the candidates dropped before ranking.
type MatchingResult struct {
	ManuscriptID      string                 `json:"manuscript_id"`
	Matches           []matching.MatchResult `json:"matches"`
	Excluded          []matching.Exclusion   `json:"excluded,omitempty"`
	PoolSize          int                    `json:"pool_size"`
	ConflictsDetected int                    `json:"conflicts_detected"`
	GeneratedAt       time.Time              `json:"generated_at"`
}

// ReviewerFinder is the matching entry point consumed by campaigns.
type ReviewerFinder interface {
	FindReviewers(ctx context.Context, criteria MatchCriteria) (*MatchingResult, error)
}

// MatchingOption customises MatchingService behaviour.
type MatchingOption func(*MatchingService)

// WithPoolMultiplier sets how many raw candidates are fetched per requested match.
func WithPoolMultiplier(n int) MatchingOption {
	return func(s *MatchingService) {
		if n > 0 {
			s.poolMultiplier = n
		}
	}
}

// WithWorkloadPolicy overrides the enrichment thresholds.
func WithWorkloadPolicy(policy matching.WorkloadPolicy) MatchingOption {
	return func(s *MatchingService) {
		s.policy = policy
	}
}

// WithHistoryWindow sets the trailing assignment history window.
func WithHistoryWindow(d time.Duration) MatchingOption {
	return func(s *MatchingService) {
		if d > 0 {
			s.historyWindow = d
		}
	}
}

// WithDiversityScorer replaces the default diversity scorer.
func WithDiversityScorer(scorer matching.DiversityScorer) MatchingOption {
	return func(s *MatchingService) {
		if scorer != nil {
			s.ranker = matching.NewRanker(scorer)
		}
	}
}

// WithMatchingClock injects a custom clock primarily for testing.
func WithMatchingClock(clock func() time.Time) MatchingOption {
	return func(s *MatchingService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// MatchingService finds and ranks reviewers for a manuscript.
type MatchingService struct {
	manuscripts    repository.ManuscriptRepository
	candidates     repository.CandidateRepository
	assignments    repository.AssignmentRepository
	invitations    repository.InvitationRepository
	conflicts      ConflictChecker
	ranker         *matching.Ranker
	policy         matching.WorkloadPolicy
	poolMultiplier int
	historyWindow  time.Duration
	now            func() time.Time
	log            *zap.Logger
}

// NewMatchingService constructs a MatchingService from the store and a conflict checker.
func NewMatchingService(store *repository.Store, conflicts ConflictChecker, opts ...MatchingOption) (*MatchingService, error) {
	if store == nil {
		return nil, errors.New("matching service: store is required")
	}
	if conflicts == nil {
		return nil, errors.New("matching service: conflict checker is required")
	}

	service := &MatchingService{
		manuscripts:    store.Manuscripts,
		candidates:     store.Candidates,
		assignments:    store.Assignments,
		invitations:    store.Invitations,
		conflicts:      conflicts,
		ranker:         matching.NewRanker(nil),
		policy:         matching.DefaultWorkloadPolicy(),
		poolMultiplier: defaultPoolMultiplier,
		historyWindow:  matching.DefaultHistoryWindow,
		now:            func() time.Time { return time.Now().UTC() },
		log:            logger.WithModule("matching"),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// FindReviewers runs the full pipeline: candidate pool, workload enrichment, concurrent
// conflict checks and ranking.
func (s *MatchingService) FindReviewers(ctx context.Context, criteria MatchCriteria) (*MatchingResult, error) {
	started := time.Now()
	defer func() {
		metrics.MatchingDuration.Observe(time.Since(started).Seconds())
	}()

	limit := criteria.Limit
	switch {
	case limit <= 0:
		limit = defaultMatchLimit
	case limit > maxMatchLimit:
		limit = maxMatchLimit
	}

	manuscript, err := s.manuscripts.Get(ctx, criteria.ManuscriptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrManuscriptNotFound
		}
		return nil, fmt.Errorf("matching service: load manuscript: %w", err)
	}
	mctx := manuscriptContext(manuscript)
	now := s.now()

	excluded := append(append([]string(nil), mctx.AuthorIDs...), criteria.ExcludeReviewerIDs...)
	if !criteria.IncludeInvited {
		invited, err := s.invitations.ActiveReviewerIDs(ctx, mctx.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: active invitations: %v", ErrReviewerLookup, err)
		}
		excluded = append(excluded, invited...)
	}
	excluded = normaliseIDs(excluded)

	pool, err := s.candidates.FindCandidates(ctx, repository.CandidateFilter{
		ExcludeIDs:      excluded,
		MinHIndex:       criteria.MinHIndex,
		MinPublications: criteria.MinPublications,
		Limit:           limit * s.poolMultiplier,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: candidates: %v", ErrReviewerLookup, err)
	}

	candidates := make([]matching.ReviewerCandidate, 0, len(pool))
	ids := make([]string, 0, len(pool))
	for _, reviewer := range pool {
		if containsString(excluded, reviewer.ID) {
			continue
		}
		candidates = append(candidates, candidateFromReviewer(reviewer))
		ids = append(ids, reviewer.ID)
	}

	since := now.Add(-s.historyWindow)
	records, err := s.assignments.History(ctx, ids, since)
	if err != nil {
		return nil, fmt.Errorf("%w: assignment history: %v", ErrReviewerLookup, err)
	}
	issued, err := s.invitations.History(ctx, ids, since)
	if err != nil {
		return nil, fmt.Errorf("%w: invitation history: %v", ErrReviewerLookup, err)
	}
	history := mergeHistory(records, issued)

	policy := s.policy
	if criteria.MaxLoad > 0 {
		policy.MaxLoad = criteria.MaxLoad
	}
	enriched, dropped := matching.Enrich(candidates, history, policy, now)

	enrichedIDs := make([]string, 0, len(enriched))
	for _, candidate := range enriched {
		enrichedIDs = append(enrichedIDs, candidate.ID)
	}
	assessments := s.conflicts.CheckBatch(ctx, mctx, enrichedIDs)

	conflicted := 0
	for _, assessment := range assessments {
		if len(assessment.Conflicts) > 0 || assessment.LookupError != "" {
			conflicted++
		}
	}

	matches := s.ranker.Rank(mctx, enriched, assessments, limit)

	s.log.Debug("reviewer matching complete",
		zap.String("manuscript_id", mctx.ID),
		zap.Int("pool", len(pool)),
		zap.Int("enriched", len(enriched)),
		zap.Int("conflicted", conflicted),
		zap.Int("returned", len(matches)))

	return &MatchingResult{
		ManuscriptID:      mctx.ID,
		Matches:           matches,
		Excluded:          dropped,
		PoolSize:          len(pool),
		ConflictsDetected: conflicted,
		GeneratedAt:       now,
	}, nil
}
