package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/reviewerdesk/internal/api"
	"github.com/charlesng35/reviewerdesk/internal/app"
	iauth "github.com/charlesng35/reviewerdesk/internal/auth"
	sharedtestutil "github.com/charlesng35/reviewerdesk/internal/database/testutil"
	"github.com/charlesng35/reviewerdesk/internal/models"
	"github.com/charlesng35/reviewerdesk/internal/repository"
	"github.com/charlesng35/reviewerdesk/internal/services"
	"github.com/charlesng35/reviewerdesk/pkg/response"
)

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T           *testing.T
	DB          *gorm.DB
	Router      *gin.Engine
	JWT         *iauth.JWTService
	Invitations *services.InvitationService
	Outbox      *Outbox
}

// Outbox records notifications instead of mailing them.
type Outbox struct {
	mu   sync.Mutex
	sent []services.NotificationPayload
}

func (o *Outbox) send(_ context.Context, _ string, payload services.NotificationPayload) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, payload)
	return nil
}

// Sent returns a copy of the recorded notifications.
func (o *Outbox) Sent() []services.NotificationPayload {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]services.NotificationPayload(nil), o.sent...)
}

// NewEnv provisions a fresh handler test environment with migrations and seed data applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())

	cfg := &app.Config{
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: "test-suite-super-secret-key-32-bytes!!",
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
		},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:     app.HealthConfig{Enabled: true},
		},
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	require.NoError(t, err)

	store := repository.NewStore(db)
	conflicts, err := services.NewConflictService(store.Conflicts)
	require.NoError(t, err)
	matchingSvc, err := services.NewMatchingService(store, conflicts)
	require.NoError(t, err)

	outbox := &Outbox{}
	invitationSvc, err := services.NewInvitationService(store, conflicts, services.NotificationGatewayFunc(outbox.send))
	require.NoError(t, err)
	campaignSvc, err := services.NewCampaignService(matchingSvc, invitationSvc)
	require.NoError(t, err)

	router, err := api.NewRouter(db, jwtSvc, cfg, api.Services{
		Matching:    matchingSvc,
		Invitations: invitationSvc,
		Campaigns:   campaignSvc,
	})
	require.NoError(t, err)

	return &Env{
		T:           t,
		DB:          db,
		Router:      router,
		JWT:         jwtSvc,
		Invitations: invitationSvc,
		Outbox:      outbox,
	}
}

// EditorToken issues an access token for the seeded system editor.
func (e *Env) EditorToken() string {
	e.T.Helper()
	return e.TokenFor(models.SystemEditorID)
}

// TokenFor issues an access token for an arbitrary editor id.
func (e *Env) TokenFor(editorID string) string {
	e.T.Helper()
	token, err := e.JWT.GenerateAccessToken(iauth.AccessTokenInput{EditorID: editorID, Name: "Test Editor"})
	require.NoError(e.T, err)
	return token
}

// SeedManuscript inserts a Machine Learning manuscript authored by "author-1".
func (e *Env) SeedManuscript(id string) models.Manuscript {
	e.T.Helper()

	manuscript := models.Manuscript{
		BaseModel:    models.BaseModel{ID: id},
		Title:        "Sparse attention for long documents",
		FieldOfStudy: "Machine Learning",
		Subfield:     "Natural Language Processing",
		Keywords:     []string{"transformers", "attention"},
		AuthorIDs:    []string{"author-1"},
		EditorID:     models.SystemEditorID,
	}
	require.NoError(e.T, e.DB.Create(&manuscript).Error)
	return manuscript
}

// SeedReviewer inserts an active reviewer with the given expertise and h-index.
func (e *Env) SeedReviewer(id string, hIndex int, expertise ...string) models.Reviewer {
	e.T.Helper()

	lastActive := time.Now().UTC().AddDate(0, -1, 0)
	reviewer := models.Reviewer{
		BaseModel:        models.BaseModel{ID: id},
		FirstName:        "Reviewer",
		LastName:         fmt.Sprintf("Seeded %s", id),
		Email:            id + "@example.org",
		Role:             models.ReviewerRole,
		Expertise:        expertise,
		HIndex:           hIndex,
		PublicationCount: 50,
		Affiliation:      "Example University",
		LastActiveAt:     &lastActive,
		IsActive:         true,
	}
	require.NoError(e.T, e.DB.Create(&reviewer).Error)
	return reviewer
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}
