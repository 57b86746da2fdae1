package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sitegen-backend/pkg/api"

	"github.com/go-resty/resty/v2"
)

// ErrNotify indicates that every delivery attempt to the callback URL failed.
// Callers treat it as non-fatal: the task's real work is already done.
var ErrNotify = errors.New("notification failed")

// Notifier delivers completion callbacks with bounded exponential backoff.
type Notifier struct {
	client      *resty.Client
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(time.Duration)
}

func New(maxAttempts int, baseDelay, timeout time.Duration) *Notifier {
	return &Notifier{
		client:      resty.New().SetTimeout(timeout),
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       time.Sleep,
	}
}

// Notify posts the payload to the callback URL. Non-2xx responses and
// transport errors are both retryable; the delay doubles after every failed
// attempt.
func (n *Notifier) Notify(ctx context.Context, url string, payload api.Notification) error {
	delay := n.baseDelay

	var lastErr error
	for attempt := 1; attempt <= n.maxAttempts; attempt++ {
		res, err := n.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(url)

		if err == nil && res.IsSuccess() {
			slog.Info("callback notified", "url", url, "task", payload.Task, "attempt", attempt)
			return nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("callback returned status %d", res.StatusCode())
		}
		slog.Warn("notification attempt failed", "url", url, "attempt", attempt, "max_attempts", n.maxAttempts, "error", lastErr)

		n.sleep(delay)
		delay *= 2
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrNotify, n.maxAttempts, lastErr)
}
