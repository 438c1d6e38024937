package http

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/seven-day-fit/internal/infra/config"
)

const retryBodyLimit = 1 << 20

var errBodyTooLarge = errors.New("request body exceeds retry limit")

// withRetry replays POST requests whose handler answered 5xx. The body is
// buffered so each attempt sees the full payload.
func withRetry(handler http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return handler
	}
	excluded := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		excluded[path] = struct{}{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, skip := excluded[r.URL.Path]; skip || r.Method != http.MethodPost {
			handler.ServeHTTP(w, r)
			return
		}
		body, err := bufferBody(r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errBodyTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			http.Error(w, err.Error(), status)
			return
		}

		for attempt := 1; ; attempt++ {
			recorder := newRetryRecorder()
			replay := r.Clone(r.Context())
			replay.Body = io.NopCloser(bytes.NewReader(body))
			replay.ContentLength = int64(len(body))

			handler.ServeHTTP(recorder, replay)
			if recorder.status < http.StatusInternalServerError || attempt >= cfg.MaxAttempts {
				recorder.flushTo(w)
				return
			}

			delay := cfg.BaseBackoff << (attempt - 1)
			logger.Warn("transient failure, retrying request", "path", r.URL.Path, "status", recorder.status, "attempt", attempt, "delay", delay.String())
			timer := time.NewTimer(delay)
			select {
			case <-r.Context().Done():
				timer.Stop()
				recorder.flushTo(w)
				return
			case <-timer.C:
			}
		}
	})
}

func bufferBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, retryBodyLimit+1))
	if err != nil {
		return nil, err
	}
	if len(data) > retryBodyLimit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// retryRecorder holds a response until we know it will not be retried.
type retryRecorder struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

func newRetryRecorder() *retryRecorder {
	return &retryRecorder{header: make(http.Header), status: http.StatusOK}
}

func (r *retryRecorder) Header() http.Header {
	return r.header
}

func (r *retryRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
}

func (r *retryRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.body.Write(b)
}

func (r *retryRecorder) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for key, values := range r.header {
		dst[key] = append([]string(nil), values...)
	}
	w.WriteHeader(r.status)
	if r.body.Len() > 0 {
		_, _ = w.Write(r.body.Bytes())
	}
}
