package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Backoff controls retry spacing for upstream calls.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var (
	errRateLimited = errors.New("upstream rate limited")
	errServer      = errors.New("upstream server error")
	errStatus      = errors.New("unexpected upstream status")
	errCircuitOpen = errors.New("circuit breaker open")
)

// statusError carries a non-retryable 4xx so the breaker does not count it.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%v: %d %s", errStatus, e.code, e.body)
}

func (e *statusError) Unwrap() error { return errStatus }

// doWithResilience runs the request through the breaker, retrying 429, 5xx and
// transport failures with exponential backoff.
func doWithResilience(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, backoff Backoff, build func(context.Context) (*http.Request, error)) ([]byte, error) {
	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}

		result, err := cb.Execute(func() (interface{}, error) {
			return send(client, req)
		})
		if err == nil {
			return result.([]byte), nil
		}

		var se *statusError
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		case errors.As(err, &se):
			return nil, err
		case attempt >= backoff.MaxRetries:
			return nil, err
		}

		delay := backoff.InitialInterval << attempt
		if backoff.MaxInterval > 0 && delay > backoff.MaxInterval {
			delay = backoff.MaxInterval
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

func send(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %d", errServer, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &statusError{code: resp.StatusCode, body: string(body)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read forecast response: %w", err)
	}
	return body, nil
}
