package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/database/testutil"
	"github.com/charlesng35/reviewerdesk/internal/matching"
	"github.com/charlesng35/reviewerdesk/internal/models"
	"github.com/charlesng35/reviewerdesk/internal/repository"
)

var testEpoch = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testEpoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentNotification struct {
	ReviewerID string
	Payload    NotificationPayload
}

type recordingGateway struct {
	mu      sync.Mutex
	sent    []sentNotification
	failFor map[string]error
}

func (g *recordingGateway) Send(_ context.Context, reviewerID string, payload NotificationPayload) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err, ok := g.failFor[reviewerID]; ok && payload.Kind == NotificationInvitation {
		return err
	}
	g.sent = append(g.sent, sentNotification{ReviewerID: reviewerID, Payload: payload})
	return nil
}

func (g *recordingGateway) ofKind(kind NotificationKind) []sentNotification {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []sentNotification
	for _, n := range g.sent {
		if n.Payload.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// stubChecker clears every reviewer unless an assessment is preset.
type stubChecker struct {
	assessments map[string]matching.ConflictAssessment
}

func (c stubChecker) CheckBatch(_ context.Context, _ matching.ManuscriptContext, ids []string) map[string]matching.ConflictAssessment {
	out := make(map[string]matching.ConflictAssessment, len(ids))
	for _, id := range ids {
		if assessment, ok := c.assessments[id]; ok {
			out[id] = assessment
			continue
		}
		out[id] = matching.Assess(id, nil)
	}
	return out
}

func blockingAssessment(id string) matching.ConflictAssessment {
	return matching.Assess(id, []matching.ConflictRecord{
		matching.NewConflict(id, "author-1", matching.ConflictAdvisorAdvisee, matching.SeverityBlocking, "advisor"),
	})
}

type failingCandidates struct {
	repository.CandidateRepository
}

func (failingCandidates) GetByIDs(context.Context, []string) ([]models.Reviewer, error) {
	return nil, errors.New("directory offline")
}

func (failingCandidates) FindCandidates(context.Context, repository.CandidateFilter) ([]models.Reviewer, error) {
	return nil, errors.New("directory offline")
}

type fixture struct {
	db         *gorm.DB
	store      *repository.Store
	clock      *fakeClock
	gateway    *recordingGateway
	manuscript models.Manuscript
	reviewers  []models.Reviewer
}

func newFixture(t *testing.T, reviewerCount int) *fixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())
	f := &fixture{
		db:      db,
		store:   repository.NewStore(db),
		clock:   newFakeClock(),
		gateway: &recordingGateway{failFor: map[string]error{}},
	}

	f.manuscript = models.Manuscript{
		BaseModel:    models.BaseModel{ID: "ms-1"},
		Title:        "Sparse attention for long documents",
		FieldOfStudy: "Machine Learning",
		Subfield:     "Natural Language Processing",
		Keywords:     []string{"transformers", "attention"},
		AuthorIDs:    []string{"author-1"},
		EditorID:     models.SystemEditorID,
	}
	require.NoError(t, db.Create(&f.manuscript).Error)

	lastActive := testEpoch.AddDate(0, -1, 0)
	for i := 1; i <= reviewerCount; i++ {
		id := fmt.Sprintf("rev-%d", i)
		reviewer := models.Reviewer{
			BaseModel:        models.BaseModel{ID: id},
			FirstName:        "Reviewer",
			LastName:         fmt.Sprintf("Number%d", i),
			Email:            id + "@example.org",
			Role:             models.ReviewerRole,
			Expertise:        []string{"Machine Learning"},
			HIndex:           10 + i,
			PublicationCount: 40,
			Affiliation:      "University",
			LastActiveAt:     &lastActive,
			IsActive:         true,
		}
		require.NoError(t, db.Create(&reviewer).Error)
		f.reviewers = append(f.reviewers, reviewer)
	}
	return f
}

func (f *fixture) reviewerIDs() []string {
	ids := make([]string, 0, len(f.reviewers))
	for _, reviewer := range f.reviewers {
		ids = append(ids, reviewer.ID)
	}
	return ids
}

func (f *fixture) invitationService(t *testing.T, checker ConflictChecker, opts ...InvitationOption) *InvitationService {
	t.Helper()
	if checker == nil {
		checker = stubChecker{}
	}
	opts = append([]InvitationOption{WithInvitationClock(f.clock.Now)}, opts...)
	svc, err := NewInvitationService(f.store, checker, f.gateway, opts...)
	require.NoError(t, err)
	return svc
}

func (f *fixture) request(ids ...string) SendInvitationsRequest {
	now := f.clock.Now()
	return SendInvitationsRequest{
		ManuscriptID:     f.manuscript.ID,
		ReviewerIDs:      ids,
		InvitedBy:        models.SystemEditorID,
		ReviewDeadline:   now.AddDate(0, 0, 21),
		ResponseDeadline: now.AddDate(0, 0, 7),
	}
}
