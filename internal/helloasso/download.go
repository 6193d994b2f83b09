package helloasso

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/grimpo6/helloasso-certificates/internal/logger"
)

// SessionCookieName is the platform session cookie accepted by the file host
const SessionCookieName = "tm5-HelloAsso"

// Downloader fetches uploaded documents from the file host
type Downloader struct {
	client *http.Client
	cookie string
}

// NewDownloader creates a Downloader sending the given session cookie
func NewDownloader(sessionCookie string, httpClient *http.Client) *Downloader {
	return &Downloader{
		client: httpClient,
		cookie: sessionCookie,
	}
}

// Download fetches rawURL and returns the response body, which the caller must close.
// The body is not inspected.
func (d *Downloader) Download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: d.cookie})

	start := time.Now()
	resp, err := d.client.Do(req)
	logger.RecordTiming("download", time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close() // nolint:errcheck
		return nil, &APIError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	return resp.Body, nil
}
