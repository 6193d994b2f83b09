package helloasso

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/sling"
	"github.com/grimpo6/helloasso-certificates/internal/logger"
)

const UserAgent = "helloasso-certificates/1.0"

// NewHTTPClient returns the HTTP client shared by the API client and the downloader
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}

// receive sends the request built by s and decodes a 2xx JSON body into success.
// Non-2xx responses become *APIError whatever their body.
func receive(ctx context.Context, s *sling.Sling, metric string, success interface{}) error {
	req, err := s.Request()
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req = req.WithContext(ctx)

	start := time.Now()
	failure := new(errorBody)
	resp, err := s.Do(req, success, failure)
	logger.RecordTiming(metric, time.Since(start))
	logger.IncrCounter("api.requests")

	if resp == nil {
		return fmt.Errorf("making request: %w", err)
	}

	logger.Debug("API request", logger.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
		"status": resp.StatusCode,
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			URL:        req.URL.String(),
			Message:    failure.text(),
		}
	}

	if err != nil {
		if errors.Is(err, ErrMalformedTimestamp) {
			return fmt.Errorf("decoding response: %w", err)
		}
		return fmt.Errorf("%w: decoding response: %v", ErrMalformedResponse, err)
	}

	return nil
}
