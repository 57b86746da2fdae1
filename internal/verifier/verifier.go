package verifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Verifier checks whether a published site URL is actually serving yet.
// GitHub Pages deployments lag the push by a variable amount, so readiness is
// advisory: the pipeline proceeds either way.
type Verifier struct {
	client   *resty.Client
	interval time.Duration
	budget   time.Duration
	sleep    func(time.Duration)
	now      func() time.Time
}

func New(interval, budget time.Duration) *Verifier {
	return &Verifier{
		client:   resty.New().SetTimeout(interval),
		interval: interval,
		budget:   budget,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Probe performs a single readiness check. Transport errors report as not
// ready with a zero status code.
func (v *Verifier) Probe(ctx context.Context, url string) (int, bool) {
	res, err := v.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return 0, false
	}
	return res.StatusCode(), res.IsSuccess()
}

// WaitUntilReady polls the URL on the configured interval until it responds
// successfully or the wait budget is exhausted. Network errors during a poll
// count as "not ready yet", never as failures; the return value is the only
// signal.
func (v *Verifier) WaitUntilReady(ctx context.Context, url string) bool {
	deadline := v.now().Add(v.budget)

	for {
		if code, ready := v.Probe(ctx, url); ready {
			slog.Info("deployment is live", "url", url, "status_code", code)
			return true
		}
		// Probes consume budget too (a timing-out probe blocks for up to the
		// poll interval), so the loop is bounded by elapsed time rather than
		// a fixed attempt count.
		if v.now().Add(v.interval).After(deadline) {
			return false
		}
		v.sleep(v.interval)
	}
}
