// Package report sends job state to the external job-tracking API. The API
// owns job records; this process only patches them as the pipeline advances.
//
// Updates are best effort. The pipeline never blocks or fails a job because
// a status report could not be delivered; failures are logged and dropped.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"dubber/internal/config"
	"dubber/internal/job"
	"dubber/internal/logging"
)

// Update is a partial patch of a job record. Nil fields are omitted from the
// request body and left untouched server-side.
type Update struct {
	Status                 *job.Status `json:"status,omitempty"`
	Progress               *int        `json:"progress,omitempty"`
	OutputObjectKey        *string     `json:"outputObjectKey,omitempty"`
	EstimatedTimeRemaining *string     `json:"estimatedTimeRemaining,omitempty"`
	Activity               *string     `json:"activity,omitempty"`
}

// Reporter delivers job updates to the tracking API.
type Reporter interface {
	Report(ctx context.Context, jobID string, update Update)
}

// HTTPReporter is the production Reporter, patching
// {base}/api/v1/job/{id} with JSON bodies.
type HTTPReporter struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// New constructs a reporter for the given API base URL.
func New(baseURL string, timeoutSeconds int, logger *slog.Logger) (*HTTPReporter, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("status API base URL required")
	}
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &HTTPReporter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// NewFromConfig constructs a reporter from configuration.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*HTTPReporter, error) {
	return New(cfg.StatusAPI.BaseURL, cfg.StatusAPI.RequestTimeout, logger)
}

// Report patches the job record. Delivery failures are logged at warn level
// and swallowed so the pipeline keeps moving.
func (r *HTTPReporter) Report(ctx context.Context, jobID string, update Update) {
	if err := r.send(ctx, jobID, update); err != nil {
		r.logger.Warn("status report dropped",
			logging.String(logging.FieldJobID, jobID),
			logging.Error(err))
	}
}

func (r *HTTPReporter) send(ctx context.Context, jobID string, update Update) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/job/%s", r.baseURL, jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-ID", uuid.NewString())

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// StatusUpdate builds an Update carrying only a status change.
func StatusUpdate(status job.Status) Update {
	return Update{Status: &status}
}

// ProgressUpdate builds an Update carrying a progress percentage and an
// optional activity line.
func ProgressUpdate(progress int, activity string) Update {
	u := Update{Progress: &progress}
	if activity != "" {
		u.Activity = &activity
	}
	return u
}

// Ptr returns a pointer to v, for composing partial updates inline.
func Ptr[T any](v T) *T {
	return &v
}
