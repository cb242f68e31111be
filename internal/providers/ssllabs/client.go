// Package ssllabs talks to the third-party deep-scan provider and flattens
// its endpoint results into typed deep-scan rows.
package ssllabs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonesrussell/sitepulse/internal/apperrors"
	"github.com/jonesrussell/sitepulse/internal/logger"
)

// Scan statuses reported by the provider. Pending statuses keep the poller
// going; READY and ERROR are terminal.
const (
	StatusStarting     = "STARTING"
	StatusDNS          = "DNS"
	StatusInProgress   = "IN_PROGRESS"
	StatusInitializing = "INITIALIZING"
	StatusReady        = "READY"
	StatusError        = "ERROR"
)

// Pending reports whether a scan status means the scan is still running.
func Pending(status string) bool {
	switch status {
	case StatusStarting, StatusDNS, StatusInProgress, StatusInitializing:
		return true
	default:
		return false
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

// Analyze requests the scan status for a host with cache-preferring
// parameters. The same call both starts a scan and polls it.
func (c *Client) Analyze(ctx context.Context, host string) (*AnalyzeResponse, error) {
	params := url.Values{}
	params.Set("host", host)
	params.Set("all", "done")
	params.Set("fromCache", "on")
	params.Set("ignoreMismatch", "on")

	endpoint := c.baseURL + "/analyze?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindTransportError, "deep-scan provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, apperrors.HTTPStatus(apperrors.KindQuotaExceeded, resp.StatusCode, string(body))
		}
		return nil, apperrors.HTTPStatus(apperrors.KindProviderError, resp.StatusCode, string(body))
	}

	var analyze AnalyzeResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&analyze); decodeErr != nil {
		return nil, apperrors.Wrap(apperrors.KindParseError, "decode analyze response", decodeErr)
	}

	c.logger.Debug("Deep-scan status",
		logger.String("host", host),
		logger.String("status", analyze.Status),
		logger.Int("endpoints", len(analyze.Endpoints)),
	)

	return &analyze, nil
}
