package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	backend "sitegen-backend/internal/api"
	"sitegen-backend/internal/config"
	"sitegen-backend/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubScheduler struct {
	submitted []api.TaskRequest
	counters  api.TaskCounters
}

func (s *stubScheduler) Submit(req api.TaskRequest) {
	s.submitted = append(s.submitted, req)
}

func (s *stubScheduler) Counters() api.TaskCounters { return s.counters }

type stubProber struct {
	code  int
	ready bool
}

func (p *stubProber) Probe(ctx context.Context, url string) (int, bool) {
	return p.code, p.ready
}

func newRouter(cfg *config.Config, tasks *stubScheduler, prober *stubProber) chi.Router {
	router := chi.NewRouter()
	backend.NewBackendService(cfg, tasks, prober).AddRoutes(router)
	return router
}

func postSubmit(t *testing.T, router chi.Router, body api.TaskRequest) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validRequest() api.TaskRequest {
	return api.TaskRequest{
		Email:         "s@example.com",
		Secret:        "hunter2",
		Task:          "sum-of-sales-abc12",
		Round:         1,
		Nonce:         "n1",
		Brief:         "build a sales dashboard",
		EvaluationURL: "https://eval.example.com/callback",
	}
}

func TestSubmitAcknowledgesImmediately(t *testing.T) {
	tasks := &stubScheduler{}
	router := newRouter(&config.Config{StudentSecret: "hunter2"}, tasks, &stubProber{})

	rec := postSubmit(t, router, validRequest())

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, "s@example.com", resp.Email)
	assert.Equal(t, "sum-of-sales-abc12", resp.Task)
	assert.Equal(t, 1, resp.Round)

	require.Len(t, tasks.submitted, 1)
	assert.Equal(t, "n1", tasks.submitted[0].Nonce)
}

func TestSubmitInvalidSecret(t *testing.T) {
	tasks := &stubScheduler{}
	router := newRouter(&config.Config{StudentSecret: "hunter2"}, tasks, &stubProber{})

	req := validRequest()
	req.Secret = "wrong"
	rec := postSubmit(t, router, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, tasks.submitted)
}

func TestSubmitUnconfiguredSecretRejectsAll(t *testing.T) {
	tasks := &stubScheduler{}
	router := newRouter(&config.Config{}, tasks, &stubProber{})

	req := validRequest()
	req.Secret = ""
	rec := postSubmit(t, router, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, tasks.submitted)
}

func TestSubmitInvalidRound(t *testing.T) {
	tasks := &stubScheduler{}
	router := newRouter(&config.Config{StudentSecret: "hunter2"}, tasks, &stubProber{})

	req := validRequest()
	req.Round = 3
	rec := postSubmit(t, router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, tasks.submitted)
}

func TestSubmitMissingFields(t *testing.T) {
	tasks := &stubScheduler{}
	router := newRouter(&config.Config{StudentSecret: "hunter2"}, tasks, &stubProber{})

	blank := func(mutate func(*api.TaskRequest)) api.TaskRequest {
		req := validRequest()
		mutate(&req)
		return req
	}

	missing := map[string]api.TaskRequest{
		"email":          blank(func(r *api.TaskRequest) { r.Email = "" }),
		"task":           blank(func(r *api.TaskRequest) { r.Task = "" }),
		"nonce":          blank(func(r *api.TaskRequest) { r.Nonce = "" }),
		"brief":          blank(func(r *api.TaskRequest) { r.Brief = "" }),
		"evaluation_url": blank(func(r *api.TaskRequest) { r.EvaluationURL = "" }),
	}

	for field, req := range missing {
		t.Run(field, func(t *testing.T) {
			rec := postSubmit(t, router, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), field)
		})
	}

	assert.Empty(t, tasks.submitted)
}

func TestHealth(t *testing.T) {
	router := newRouter(&config.Config{}, &stubScheduler{}, &stubProber{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestInfoReportsCredentialPresence(t *testing.T) {
	cfg := &config.Config{StudentSecret: "hunter2", GitHubToken: "tok", OpenAIAPIKey: "key"}
	tasks := &stubScheduler{counters: api.TaskCounters{Active: 1, Completed: 4, Failed: 2}}
	router := newRouter(cfg, tasks, &stubProber{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.InfoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Credentials["STUDENT_SECRET"])
	assert.True(t, resp.Credentials["GITHUB_TOKEN"])
	assert.True(t, resp.Credentials["OPENAI_API_KEY"])
	assert.False(t, resp.Credentials["GEMINI_API_KEY"])
	assert.False(t, resp.Credentials["GITHUB_USER"])
	assert.Equal(t, api.TaskCounters{Active: 1, Completed: 4, Failed: 2}, resp.Tasks)
}

func TestCheckPages(t *testing.T) {
	router := newRouter(&config.Config{}, &stubScheduler{}, &stubProber{code: http.StatusOK, ready: true})

	req := httptest.NewRequest(http.MethodGet, "/pages/check?url=https://octo.github.io/demo/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.PagesCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Ready)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCheckPagesMissingURL(t *testing.T) {
	router := newRouter(&config.Config{}, &stubScheduler{}, &stubProber{})

	req := httptest.NewRequest(http.MethodGet, "/pages/check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
