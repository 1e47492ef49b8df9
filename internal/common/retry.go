package common

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy bounds the retry loop shared by the fetcher, the field
// extractor and the ledger writer.
type RetryPolicy struct {
	MaxRetries int           // retries after the first attempt
	BaseDelay  time.Duration // doubled on every retry
	// Transient reports whether an error is worth retrying. A nil
	// classifier retries nothing.
	Transient func(error) bool
}

// Retry runs fn up to 1+MaxRetries times, sleeping BaseDelay, 2*BaseDelay, ...
// between attempts. It stops early when the error is not transient or the
// context is done; in-flight work is never retried after cancellation.
func Retry(ctx context.Context, p RetryPolicy, logger *slog.Logger, op string, fn func() error) error {
	if logger == nil {
		logger = slog.Default()
	}
	delay := p.BaseDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || p.Transient == nil || !p.Transient(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		logger.Warn("retry.backoff",
			"op", op,
			"attempt", attempt+1,
			"max_retries", p.MaxRetries,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return err
		}
		delay *= 2
	}
}
