// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package callplatform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/meetwise/meetwise-meeting-service/internal/domain"
	"github.com/meetwise/meetwise-meeting-service/internal/domain/models"
)

// ClientConfig holds the configuration for the call platform REST client.
type ClientConfig struct {
	// BaseURL is the platform API base URL.
	BaseURL string
	// ClientID and ClientSecret are the OAuth2 client credentials.
	ClientID     string
	ClientSecret string
	// TokenURL is the OAuth2 token endpoint.
	TokenURL string
	// Timeout bounds each API call. Defaults to 10 seconds.
	Timeout time.Duration
}

// Client calls the platform's server-side call API.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a new call platform client. Requests carry a bearer token
// obtained through the OAuth2 client credentials flow.
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	creds := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenURL,
	}

	httpClient := creds.Client(context.Background())
	httpClient.Timeout = config.Timeout

	return &Client{
		config:     config,
		httpClient: httpClient,
	}
}

// EndCall tells the platform to end the call identified by its CID
// (e.g. "default:meeting-uid"). The platform then finalizes the session and
// emits the session ended webhook.
func (c *Client) EndCall(ctx context.Context, callCID string) error {
	callType, callID, err := splitCID(callCID)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/api/v1/calls/%s/%s/end",
		c.config.BaseURL, url.PathEscape(callType), url.PathEscape(callID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return domain.NewInternalError("failed to build end call request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewUnavailableError("call platform request failed", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NewNotFoundError(fmt.Sprintf("call '%s' not found", callCID))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.NewInternalError(
			fmt.Sprintf("call platform returned status %d for end call", resp.StatusCode))
	}

	return nil
}

func splitCID(callCID string) (callType, callID string, err error) {
	callType, callID, ok := models.SplitCID(callCID)
	if !ok {
		return "", "", domain.NewValidationError(fmt.Sprintf("invalid call cid '%s'", callCID))
	}
	return callType, callID, nil
}
