package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"sitegen-backend/internal/config"
	"sitegen-backend/internal/generator"
	"sitegen-backend/internal/publisher"
	"sitegen-backend/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	files generator.FileSet
	err   error
	req   generator.Request
}

func (g *fakeGenerator) Generate(ctx context.Context, req generator.Request) (generator.FileSet, error) {
	g.req = req
	return g.files, g.err
}

type fakePublisher struct {
	result *publisher.Result
	err    error
	req    publisher.Request
	calls  int
}

func (p *fakePublisher) Publish(ctx context.Context, req publisher.Request) (*publisher.Result, error) {
	p.calls++
	p.req = req
	return p.result, p.err
}

type fakeVerifier struct {
	ready bool
	url   string
}

func (v *fakeVerifier) WaitUntilReady(ctx context.Context, url string) bool {
	v.url = url
	return v.ready
}

type fakeNotifier struct {
	payloads []api.Notification
	urls     []string
	err      error
}

func (n *fakeNotifier) Notify(ctx context.Context, url string, payload api.Notification) error {
	n.urls = append(n.urls, url)
	n.payloads = append(n.payloads, payload)
	return n.err
}

func testConfig() *config.Config {
	return &config.Config{
		TaskDeadline:           600 * time.Second,
		AttachmentFetchTimeout: time.Second,
	}
}

func testRequest() api.TaskRequest {
	return api.TaskRequest{
		Email:         "s@example.com",
		Task:          "sum-of-sales-abc12",
		Round:         1,
		Nonce:         "n1",
		Brief:         "build a sales dashboard",
		Checks:        []string{"shows a total"},
		EvaluationURL: "https://eval.example.com/callback",
	}
}

func TestRunSuccessNotifiesWithResult(t *testing.T) {
	gen := &fakeGenerator{files: generator.FileSet{"index.html": "<p>hi</p>"}}
	pub := &fakePublisher{result: &publisher.Result{
		RepoURL:   "https://github.com/octo/sum-of-sales-a1b2c3d4",
		CommitSHA: "deadbeef",
		PagesURL:  "https://octo.github.io/sum-of-sales-a1b2c3d4/",
	}}
	ver := &fakeVerifier{ready: true}
	not := &fakeNotifier{}

	p := New(testConfig(), gen, pub, ver, not)
	p.Run(testRequest())

	require.Len(t, not.payloads, 1)
	payload := not.payloads[0]
	assert.Equal(t, "https://eval.example.com/callback", not.urls[0])
	assert.Equal(t, "sum-of-sales-abc12", payload.Task)
	assert.Equal(t, "n1", payload.Nonce)
	assert.Equal(t, "deadbeef", payload.CommitSHA)
	assert.Equal(t, "https://octo.github.io/sum-of-sales-a1b2c3d4/", payload.PagesURL)
	assert.Empty(t, payload.Error)

	assert.Equal(t, "https://octo.github.io/sum-of-sales-a1b2c3d4/", ver.url)
	assert.Equal(t, int64(1), p.Counters().Completed)
	assert.Zero(t, p.Counters().Failed)
}

func TestRunRoundTwoSetsRevision(t *testing.T) {
	gen := &fakeGenerator{files: generator.FileSet{"index.html": "<p>v2</p>"}}
	pub := &fakePublisher{result: &publisher.Result{PagesURL: "https://octo.github.io/x/"}}
	not := &fakeNotifier{}

	p := New(testConfig(), gen, pub, &fakeVerifier{ready: true}, not)
	req := testRequest()
	req.Round = 2
	req.RepoURL = "https://github.com/octo/existing"
	p.Run(req)

	assert.True(t, gen.req.Revision)
	assert.Equal(t, "https://github.com/octo/existing", pub.req.RepoURL)
	assert.Equal(t, 2, pub.req.Round)
}

func TestRunGenerationFailureSendsErrorNotification(t *testing.T) {
	gen := &fakeGenerator{err: generator.ErrGeneration}
	pub := &fakePublisher{}
	not := &fakeNotifier{}

	p := New(testConfig(), gen, pub, &fakeVerifier{}, not)
	p.Run(testRequest())

	assert.Zero(t, pub.calls)
	require.Len(t, not.payloads, 1)
	assert.NotEmpty(t, not.payloads[0].Error)
	assert.Equal(t, "n1", not.payloads[0].Nonce)
	assert.Empty(t, not.payloads[0].RepoURL)
	assert.Equal(t, int64(1), p.Counters().Failed)
}

func TestRunPublishFailureSendsErrorNotification(t *testing.T) {
	gen := &fakeGenerator{files: generator.FileSet{"index.html": "x"}}
	pub := &fakePublisher{err: errors.New("push rejected")}
	not := &fakeNotifier{}

	p := New(testConfig(), gen, pub, &fakeVerifier{}, not)
	p.Run(testRequest())

	require.Len(t, not.payloads, 1)
	assert.Contains(t, not.payloads[0].Error, "push rejected")
}

func TestRunVerifierNotReadyStillCompletes(t *testing.T) {
	gen := &fakeGenerator{files: generator.FileSet{"index.html": "x"}}
	pub := &fakePublisher{result: &publisher.Result{PagesURL: "https://octo.github.io/x/"}}
	not := &fakeNotifier{}

	p := New(testConfig(), gen, pub, &fakeVerifier{ready: false}, not)
	p.Run(testRequest())

	require.Len(t, not.payloads, 1)
	assert.Empty(t, not.payloads[0].Error)
	assert.Equal(t, int64(1), p.Counters().Completed)
}

type panickingPublisher struct{}

func (p *panickingPublisher) Publish(ctx context.Context, req publisher.Request) (*publisher.Result, error) {
	panic("nil repository response")
}

func TestRunContainsStagePanic(t *testing.T) {
	gen := &fakeGenerator{files: generator.FileSet{"index.html": "x"}}
	not := &fakeNotifier{}

	p := New(testConfig(), gen, &panickingPublisher{}, &fakeVerifier{}, not)
	require.NotPanics(t, func() { p.Run(testRequest()) })

	require.Len(t, not.payloads, 1)
	assert.Contains(t, not.payloads[0].Error, "nil repository response")
	assert.Equal(t, "n1", not.payloads[0].Nonce)
	assert.Equal(t, int64(1), p.Counters().Failed)
	assert.Zero(t, p.Counters().Active)
}

func TestRunNotifierFailureStillCompletes(t *testing.T) {
	gen := &fakeGenerator{files: generator.FileSet{"index.html": "x"}}
	pub := &fakePublisher{result: &publisher.Result{PagesURL: "https://octo.github.io/x/"}}
	not := &fakeNotifier{err: errors.New("callback down")}

	p := New(testConfig(), gen, pub, &fakeVerifier{ready: true}, not)
	p.Run(testRequest())

	assert.Equal(t, int64(1), p.Counters().Completed)
	assert.Zero(t, p.Counters().Failed)
}
