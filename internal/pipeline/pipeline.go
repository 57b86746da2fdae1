package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"sitegen-backend/internal/config"
	"sitegen-backend/internal/generator"
	"sitegen-backend/internal/publisher"
	"sitegen-backend/pkg/api"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

type Generator interface {
	Generate(ctx context.Context, req generator.Request) (generator.FileSet, error)
}

type Publisher interface {
	Publish(ctx context.Context, req publisher.Request) (*publisher.Result, error)
}

type Verifier interface {
	WaitUntilReady(ctx context.Context, url string) bool
}

type Notifier interface {
	Notify(ctx context.Context, url string, payload api.Notification) error
}

// Pipeline runs the background task flow: generate, publish, verify, notify.
// Each accepted request gets one detached goroutine operating on its own
// working state; there is no shared mutable state between runs beyond the
// counters.
type Pipeline struct {
	cfg       *config.Config
	generator Generator
	publisher Publisher
	verifier  Verifier
	notifier  Notifier
	fetcher   *resty.Client

	active    atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func New(cfg *config.Config, gen Generator, pub Publisher, ver Verifier, not Notifier) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		generator: gen,
		publisher: pub,
		verifier:  ver,
		notifier:  not,
		fetcher:   resty.New().SetTimeout(cfg.AttachmentFetchTimeout),
	}
}

// Submit schedules the pipeline for an accepted request and returns
// immediately. No cancellation, no result propagation: the run either
// completes or dies with the process.
func (p *Pipeline) Submit(req api.TaskRequest) {
	go p.Run(req)
}

// Run executes the full pipeline synchronously. Errors before the notify
// stage divert to a best-effort failure notification; verification and
// notification problems are logged and do not fail the task.
func (p *Pipeline) Run(req api.TaskRequest) {
	runID := uuid.NewString()
	logger := slog.With("task", req.Task, "round", req.Round, "run_id", runID)

	p.active.Add(1)
	started := time.Now()
	defer func() {
		p.active.Add(-1)
		if elapsed := time.Since(started); elapsed > p.cfg.TaskDeadline {
			logger.Warn("task exceeded advisory deadline", "elapsed", elapsed, "deadline", p.cfg.TaskDeadline)
		}
	}()

	ctx := context.Background()

	// A panic in any stage must stay a failure of this task only: contain
	// it here and route to the best-effort error notification instead of
	// taking down the process and every other in-flight task.
	defer func() {
		if r := recover(); r != nil {
			p.fail(ctx, logger, req, fmt.Errorf("internal error: %v", r))
		}
	}()

	logger.Info("task received", "email", req.Email, "checks", len(req.Checks), "attachments", len(req.Attachments))

	attachments := p.resolveAttachments(logger, req.Attachments)

	logger.Info("generating site files")
	files, err := p.generator.Generate(ctx, generator.Request{
		Brief:           req.Brief,
		Checks:          req.Checks,
		AttachmentNames: attachmentNames(attachments),
		Revision:        req.Round == 2,
	})
	if err != nil {
		p.fail(ctx, logger, req, err)
		return
	}

	logger.Info("publishing repository", "files", len(files))
	result, err := p.publisher.Publish(ctx, publisher.Request{
		TaskID:      req.Task,
		Round:       req.Round,
		RepoURL:     req.RepoURL,
		Files:       files,
		Attachments: attachments,
	})
	if err != nil {
		p.fail(ctx, logger, req, err)
		return
	}

	logger.Info("waiting for deployment", "pages_url", result.PagesURL)
	if !p.verifier.WaitUntilReady(ctx, result.PagesURL) {
		logger.Warn("deployment not reachable before wait budget elapsed, notifying anyway", "pages_url", result.PagesURL)
	}

	logger.Info("notifying callback", "url", req.EvaluationURL)
	notification := api.Notification{
		Email:     req.Email,
		Task:      req.Task,
		Round:     req.Round,
		Nonce:     req.Nonce,
		RepoURL:   result.RepoURL,
		CommitSHA: result.CommitSHA,
		PagesURL:  result.PagesURL,
	}
	if err := p.notifier.Notify(ctx, req.EvaluationURL, notification); err != nil {
		logger.Warn("callback notification not delivered", "error", err)
	}

	p.completed.Add(1)
	logger.Info("task done", "repo", result.RepoURL, "commit", result.CommitSHA, "elapsed", time.Since(started))
}

// fail records the failure and sends a best-effort error notification so the
// caller can correlate the nonce with a terminal outcome.
func (p *Pipeline) fail(ctx context.Context, logger *slog.Logger, req api.TaskRequest, cause error) {
	p.failed.Add(1)
	logger.Error("task failed", "error", cause)

	notification := api.Notification{
		Email: req.Email,
		Task:  req.Task,
		Round: req.Round,
		Nonce: req.Nonce,
		Error: cause.Error(),
	}
	if err := p.notifier.Notify(ctx, req.EvaluationURL, notification); err != nil {
		logger.Warn("failure notification not delivered", "error", err)
	}
}

func (p *Pipeline) Counters() api.TaskCounters {
	return api.TaskCounters{
		Active:    p.active.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

func attachmentNames(attachments map[string][]byte) []string {
	names := make([]string, 0, len(attachments))
	for name := range attachments {
		names = append(names, name)
	}
	return names
}
