package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/feedbackkit/internal/pkg/logger"
)

// Pipeline delivers feedback records to the configured collector endpoint.
// It is stateless and safe for concurrent use.
type Pipeline struct {
	cfg *Config
}

// NewPipeline builds a submission pipeline over cfg.
func NewPipeline(cfg *Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Submit POSTs rec to the collector, exactly once. There is no internal
// retry: on failure the caller decides whether to re-invoke Submit with
// the same record (the record is never mutated here, so resubmissions
// carry an identical payload) or fall back to the configured support
// email.
//
// Failure classification:
//   - ErrNotConfigured / ErrMissingEndpoint / ErrInvalidConfig before any
//     network I/O when the pipeline lacks its configuration;
//   - *TransportError when the HTTP exchange itself fails;
//   - *ResponseError for any status other than 200, carrying the status
//     code and the response body text.
//
// Cancel by cancelling ctx; the in-flight request is aborted.
func (p *Pipeline) Submit(ctx context.Context, rec *Record) error {
	if p == nil || p.cfg == nil {
		return ErrNotConfigured
	}
	if p.cfg.endpoint == nil {
		return ErrMissingEndpoint
	}
	if p.cfg.httpClient == nil {
		return ErrInvalidConfig
	}

	body, err := json.Marshal(rec)
	if err != nil {
		// Unreachable for records built by NewRecord; kept for records
		// hosts assemble by hand.
		return fmt.Errorf("feedback: encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("feedback: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Always hit the network; never accept a cached response.
	req.Header.Set("Cache-Control", "no-cache, no-store")

	resp, err := p.cfg.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		logger.Warn("feedback submission rejected",
			"status", resp.StatusCode,
			"endpoint", p.cfg.endpoint.Host)
		return &ResponseError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	logger.Debug("feedback submitted", "endpoint", p.cfg.endpoint.Host)
	return nil
}
