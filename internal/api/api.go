package api

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"sitegen-backend/internal/config"
	"sitegen-backend/pkg/api"

	"github.com/go-chi/chi/v5"
)

const (
	ServiceName = "sitegen-backend"
	Version     = "1.0.0"
)

// TaskScheduler accepts validated requests for detached background
// processing.
type TaskScheduler interface {
	Submit(req api.TaskRequest)
	Counters() api.TaskCounters
}

// PagesProber performs a single readiness check of a published URL.
type PagesProber interface {
	Probe(ctx context.Context, url string) (int, bool)
}

type BackendService struct {
	cfg    *config.Config
	tasks  TaskScheduler
	prober PagesProber
}

func NewBackendService(cfg *config.Config, tasks TaskScheduler, prober PagesProber) *BackendService {
	return &BackendService{cfg: cfg, tasks: tasks, prober: prober}
}

func (s *BackendService) AddRoutes(r chi.Router) {
	r.Get("/", RestHandler(s.Info))
	r.Get("/health", RestHandler(s.Health))
	r.Get("/pages/check", RestHandler(s.CheckPages))
	r.Post("/submit", RestHandler(s.Submit))
}

// Submit validates the shared secret and payload shape, schedules the
// round-specific background pipeline, and acknowledges immediately. Nothing
// on this path blocks on the pipeline.
func (s *BackendService) Submit(r *http.Request) (any, error) {
	req, err := ParseRequest[api.TaskRequest](r)
	if err != nil {
		return nil, err
	}

	if !s.validSecret(req.Secret) {
		slog.Warn("submission rejected: invalid secret", "email", req.Email)
		return nil, CodedErrorf(http.StatusUnauthorized, "invalid secret")
	}

	if req.Round != 1 && req.Round != 2 {
		return nil, CodedErrorf(http.StatusBadRequest, "invalid round %d: must be 1 or 2", req.Round)
	}
	if req.Email == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "email is required")
	}
	if req.Task == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "task is required")
	}
	if req.Nonce == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "nonce is required")
	}
	if req.Brief == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "brief is required")
	}
	if req.EvaluationURL == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "evaluation_url is required")
	}

	s.tasks.Submit(req)
	slog.Info("task accepted", "email", req.Email, "task", req.Task, "round", req.Round)

	return api.SubmitResponse{
		Status:  "accepted",
		Message: fmt.Sprintf("round %d task scheduled", req.Round),
		Email:   req.Email,
		Task:    req.Task,
		Round:   req.Round,
	}, nil
}

func (s *BackendService) Health(r *http.Request) (any, error) {
	return api.HealthResponse{Status: "healthy", Version: Version}, nil
}

func (s *BackendService) Info(r *http.Request) (any, error) {
	credentials := make(map[string]bool)
	for _, cred := range s.cfg.Credentials() {
		credentials[cred.Name] = cred.Present
	}

	return api.InfoResponse{
		Name:    ServiceName,
		Version: Version,
		Endpoints: map[string]string{
			"POST /submit":     "process a build (round 1) or revision (round 2) task",
			"GET /health":      "health check",
			"GET /":            "service info",
			"GET /pages/check": "probe a published site URL once",
		},
		Credentials: credentials,
		Tasks:       s.tasks.Counters(),
	}, nil
}

// CheckPages is a side-effect-free diagnostic that runs the same probe the
// deployment verifier uses, once.
func (s *BackendService) CheckPages(r *http.Request) (any, error) {
	params, err := ParseRequestQueryParams[api.PagesCheckRequest](r)
	if err != nil {
		return nil, err
	}
	if params.URL == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing url query parameter")
	}

	code, ready := s.prober.Probe(r.Context(), params.URL)
	return api.PagesCheckResponse{URL: params.URL, Ready: ready, StatusCode: code}, nil
}

// validSecret compares in constant time. An unconfigured server-side secret
// rejects everything rather than accepting everything.
func (s *BackendService) validSecret(secret string) bool {
	if s.cfg.StudentSecret == "" {
		slog.Warn("STUDENT_SECRET is not configured, rejecting submission")
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.StudentSecret)) == 1
}
