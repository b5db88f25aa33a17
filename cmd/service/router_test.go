package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-social/agentic-social/app/core"
	v1 "github.com/agentic-social/agentic-social/app/logic/v1"
	"github.com/agentic-social/agentic-social/cmd/service/handler"
	"github.com/agentic-social/agentic-social/pkg/security"
	"github.com/agentic-social/agentic-social/pkg/types"
)

const testSecret = "router-test-secret"

var dbSeq atomic.Int64

type envelope struct {
	Meta struct {
		Code      int    `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"meta"`
	Data json.RawMessage `json:"data"`
}

type testServer struct {
	t    *testing.T
	core *core.Core
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)

	cfg := core.DefaultConfig()
	cfg.Log.Level = "error"
	cfg.Database.DSN = fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", dbSeq.Add(1))
	cfg.Content.Driver = core.CONTENT_DRIVER_FILE
	cfg.Content.Path = "../../app/store/contentstore/testdata/posts.yaml"
	cfg.Security.JWTSecret = testSecret

	app, err := core.SetupCore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	setupHttpRouter(&handler.HttpSrv{Core: app, Engine: app.HttpEngine()})
	return &testServer{t: t, core: app}
}

func token(t *testing.T, user, role string) string {
	tk, err := security.GenerateJWT(security.NewTokenClaims(user, user, role, time.Now().Add(time.Hour).Unix()), []byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + tk
}

func (s *testServer) do(method, path, auth string, body any) (int, envelope) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	s.core.HttpEngine().ServeHTTP(w, req)

	var res envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		json.Unmarshal(w.Body.Bytes(), &res)
	}
	return w.Code, res
}

func TestAuthAndPermission(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/api/v1/history", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodGet, "/api/v1/history", "Bearer broken", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	author := token(t, "1", types.ROLE_AUTHOR)
	code, _ = s.do(http.MethodGet, "/api/v1/history", author, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/api/v1/settings", author, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/api/v1/history", token(t, "1", "subscriber"), nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestShareRoutes(t *testing.T) {
	s := newTestServer(t)
	author := token(t, "1", types.ROLE_AUTHOR)

	code, res := s.do(http.MethodPost, "/api/v1/share", author, gin.H{"post_id": 1, "platform": "linkedin"})
	require.Equal(t, http.StatusOK, code)
	var view v1.RunView
	require.NoError(t, json.Unmarshal(res.Data, &view))
	assert.Equal(t, 1, view.StepNumber)
	assert.NotEmpty(t, res.Meta.RequestID)

	code, res = s.do(http.MethodPost, "/api/v1/share/runs/"+view.RunID+"/prev", author, nil)
	assert.Equal(t, http.StatusConflict, code)
	var unchanged v1.RunView
	require.NoError(t, json.Unmarshal(res.Data, &unchanged))
	assert.Equal(t, 0, unchanged.CurrentIndex)

	code, _ = s.do(http.MethodPost, "/api/v1/share/runs/"+view.RunID+"/next", author, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodGet, "/api/v1/share/runs/"+view.RunID, token(t, "2", types.ROLE_AUTHOR), nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, res = s.do(http.MethodGet, "/api/v1/posts/1/shares", author, nil)
	require.Equal(t, http.StatusOK, code)
	var latest []types.ShareAttempt
	require.NoError(t, json.Unmarshal(res.Data, &latest))
	require.Len(t, latest, 1)
	assert.Equal(t, types.ShareStatusInitiated, latest[0].Status)

	code, _ = s.do(http.MethodPost, "/api/v1/share", author, gin.H{"post_id": 404, "platform": "linkedin"})
	assert.Equal(t, http.StatusNotFound, code)

	// 没有引导流程的平台只返回分享数据
	code, res = s.do(http.MethodPost, "/api/v1/share", author, gin.H{"post_id": 1, "platform": "mastodon"})
	require.Equal(t, http.StatusOK, code)
	var summaryOnly v1.RunView
	require.NoError(t, json.Unmarshal(res.Data, &summaryOnly))
	assert.Empty(t, summaryOnly.RunID)
	assert.Zero(t, summaryOnly.TotalSteps)
	assert.NotEmpty(t, summaryOnly.SharingData.Summaries.Default)
	assert.Contains(t, summaryOnly.Notice, "mastodon")
}

func TestSummaryRoute(t *testing.T) {
	s := newTestServer(t)

	code, res := s.do(http.MethodPost, "/api/v1/summary", token(t, "1", types.ROLE_EDITOR), gin.H{"post_id": 1, "platform": "twitter"})
	require.Equal(t, http.StatusOK, code)
	var summary v1.SummaryResult
	require.NoError(t, json.Unmarshal(res.Data, &summary))
	assert.NotEmpty(t, summary.Summary)

	code, _ = s.do(http.MethodPost, "/api/v1/summary", token(t, "1", types.ROLE_EDITOR), gin.H{"platform": "twitter"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestSettingsRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := token(t, "1", types.ROLE_ADMINISTRATOR)

	code, res := s.do(http.MethodPut, "/api/v1/settings", admin, gin.H{"share_delay": 99})
	require.Equal(t, http.StatusOK, code)
	var settings types.Settings
	require.NoError(t, json.Unmarshal(res.Data, &settings))
	assert.Equal(t, types.SHARE_DELAY_MAX, settings.ShareDelay)
	// untouched fields keep their values
	assert.True(t, settings.LinkedInEnabled)

	code, _ = s.do(http.MethodDelete, "/api/v1/history", admin, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestWorkflowStepsAndMetrics(t *testing.T) {
	s := newTestServer(t)

	code, res := s.do(http.MethodGet, "/api/v1/workflow/linkedin/steps", token(t, "1", types.ROLE_AUTHOR), nil)
	require.Equal(t, http.StatusOK, code)
	var steps []v1.StepView
	require.NoError(t, json.Unmarshal(res.Data, &steps))
	assert.Len(t, steps, 5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	s.core.HttpEngine().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "agentic_social_core_api_response_time")
}

func TestPurge(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, s.core.History().Append(ctx, &types.ShareAttempt{PostID: 1, Platform: types.PlatformLinkedIn, Status: types.ShareStatusFailed}))
	require.NoError(t, Purge(ctx, s.core))

	total, err := s.core.History().Total(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
	rows, err := s.core.Store().SettingsStore().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
