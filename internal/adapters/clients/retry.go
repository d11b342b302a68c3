package clients

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen/derdiedas/internal/platform/config"
)

// defaultJitter spreads backoff by ±25% when the config leaves it at zero.
const defaultJitter = 0.25

// retryPolicy decides whether and when an attempt is repeated.
type retryPolicy struct {
	config.RetryConfig
}

func (p retryPolicy) attempts() int {
	return max(p.MaxAttempts, 1)
}

// backoff is InitialInterval * Multiplier^(attempt-1), capped at
// MaxInterval, with symmetric jitter. attempt counts from 1.
func (p retryPolicy) backoff(attempt int) time.Duration {
	d := float64(p.InitialInterval) * math.Pow(p.Multiplier, float64(attempt-1))
	d = min(d, float64(p.MaxInterval))

	jitter := p.JitterFactor
	if jitter <= 0 {
		jitter = defaultJitter
	}

	d += d * jitter * (rand.Float64()*2 - 1) //nolint:gosec // jitter only

	return time.Duration(d)
}

// delay is the wait before attempt. A backend's Retry-After wins over
// backoff but never exceeds MaxInterval.
func (p retryPolicy) delay(attempt int, resp *http.Response) time.Duration {
	d := p.backoff(attempt)
	if after := retryAfter(resp); after > d {
		d = min(after, p.MaxInterval)
	}

	return d
}

// retryAfter reads the Retry-After header in seconds or HTTP-date form.
func retryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}

	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}

	return 0
}

// retryableError reports transport failures worth another attempt: dial
// errors, resets and timeouts. A caller's own cancellation never is.
func retryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}

// retryableStatus is true for 429 and 5xx.
func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
