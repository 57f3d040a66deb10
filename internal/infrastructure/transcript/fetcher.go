// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

// Package transcript fetches and parses call-platform transcript files.
package transcript

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
)

// maxTranscriptSize caps how much transcript data is read into memory.
const maxTranscriptSize = 32 << 20 // 32 MiB

// Fetcher downloads transcript files from the platform's storage URLs.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a new transcript fetcher.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the transcript at the given URL. Any non-2xx response is an
// error so the job can be retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid transcript URL '%s'", url), err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewUnavailableError("transcript download failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewInternalError(
			fmt.Sprintf("transcript download returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTranscriptSize))
	if err != nil {
		return nil, domain.NewInternalError("failed to read transcript body", err)
	}

	return body, nil
}
