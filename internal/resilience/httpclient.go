package resilience

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPClient wraps an http.Client with per-attempt timeouts, retries and a
// circuit breaker. Transport errors, 5xx and 429 responses are retried; a
// Retry-After header on a 429 stretches the backoff.
type HTTPClient struct {
	Client      *http.Client
	Breaker     *Breaker
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
	Jitter      float64
	Timeout     time.Duration
}

// StatusError reports the final retryable status when attempts run out.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "resilience: upstream returned " + e.Status
}

// Do sends req, buffering its body so it can be replayed. The caller owns the
// returned response body.
func (cl HTTPClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if cl.Client == nil {
		return nil, errors.New("resilience: http client not configured")
	}
	breaker := cl.Breaker
	maxAttempts := cl.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	target := breaker.target()

	body, err := replayableBody(req)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if !breaker.Allow(ctx) {
			observeAttempt(target, "rejected")
			if lastErr == nil {
				return nil, ErrOpenCircuit
			}
			return nil, fmt.Errorf("%w: %w", ErrOpenCircuit, lastErr)
		}

		resp, err := cl.doOnce(ctx, req, body)
		wait := Backoff(cl.BaseBackoff, attempt, cl.Jitter)
		switch {
		case err != nil && ctx.Err() != nil:
			// the caller gave up; the upstream is not to blame
			breaker.Release()
			observeAttempt(target, "canceled")
			return nil, err
		case err != nil:
			breaker.Report(ctx, false)
			observeAttempt(target, "error")
			lastErr = err
		case resp.StatusCode == http.StatusTooManyRequests:
			// the upstream is healthy, only busy
			breaker.Report(ctx, true)
			observeAttempt(target, "throttled")
			if ra := retryAfter(resp.Header.Get("Retry-After")); ra > wait {
				wait = ra
			}
			lastErr = &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
			if attempt == maxAttempts {
				return resp, nil
			}
			drain(resp)
		case resp.StatusCode >= http.StatusInternalServerError:
			breaker.Report(ctx, false)
			observeAttempt(target, "error")
			lastErr = &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
			if attempt == maxAttempts {
				return resp, nil
			}
			drain(resp)
		default:
			breaker.Report(ctx, true)
			observeAttempt(target, "ok")
			return resp, nil
		}

		if attempt == maxAttempts {
			break
		}
		if cl.MaxBackoff > 0 && wait > cl.MaxBackoff {
			wait = cl.MaxBackoff
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (cl HTTPClient) doOnce(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	timeout := cl.Timeout
	if timeout <= 0 {
		timeout = cl.Client.Timeout
	}
	var (
		callCtx context.Context
		cancel  context.CancelFunc
	)
	if timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		callCtx, cancel = context.WithCancel(ctx)
	}

	attempt := req.Clone(callCtx)
	if body != nil {
		attempt.Body = io.NopCloser(bytes.NewReader(body))
		attempt.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}
	resp, err := cl.Client.Do(attempt)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnClose keeps the attempt context alive until the caller has read the body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func replayableBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

func retryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return time.Until(at)
	}
	return 0
}
