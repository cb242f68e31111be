// Package pagespeed calls the performance-audit provider and normalizes its
// nested payload into typed performance facts. The raw JSON tree never
// leaves this package.
package pagespeed

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

// Categories requested on every call. The provider only returns scores for
// categories named in the request.
var requestedCategories = []string{"performance", "accessibility", "best-practices", "seo"}

// Status codes with a dedicated failure kind.
const (
	statusBadRequest      = 400
	statusForbidden       = 403
	statusTooManyRequests = 429
)

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

// Fetch runs one audit for the URL with the given device strategy and
// returns the provider's raw report. Failures are classified per the
// acquisition taxonomy; any failure means no report.
func (c *Client) Fetch(ctx context.Context, pageURL, apiKey, strategy string) (*Report, error) {
	params := url.Values{}
	params.Set("url", pageURL)
	params.Set("key", apiKey)
	params.Set("strategy", strategy)
	for _, category := range requestedCategories {
		params.Add("category", category)
	}

	endpoint := c.baseURL + "/runPagespeed?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.logger.Debug("Fetching performance report",
		logger.String("url", pageURL),
		logger.String("strategy", strategy),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindTransportError, "performance provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, classifyStatus(resp.StatusCode, string(body))
	}

	var report Report
	if decodeErr := json.NewDecoder(resp.Body).Decode(&report); decodeErr != nil {
		return nil, apperrors.Wrap(apperrors.KindParseError, "decode performance report", decodeErr)
	}

	return &report, nil
}

func classifyStatus(statusCode int, body string) error {
	switch statusCode {
	case statusTooManyRequests:
		return apperrors.HTTPStatus(apperrors.KindQuotaExceeded, statusCode, body)
	case statusBadRequest:
		return apperrors.HTTPStatus(apperrors.KindInvalidInput, statusCode, body)
	case statusForbidden:
		return apperrors.HTTPStatus(apperrors.KindCredentialInvalid, statusCode, body)
	default:
		return apperrors.HTTPStatus(apperrors.KindProviderError, statusCode, body)
	}
}
