// Package uptimerobot talks to the uptime-monitor provider. Raw provider
// log maps are converted to the analytics log shape here, at the boundary.
package uptimerobot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonesrussell/sitepulse/internal/apperrors"
	"github.com/jonesrussell/sitepulse/internal/logger"
)

// monitorTypeHTTP is the provider's monitor type for plain HTTP(S) checks.
const monitorTypeHTTP = "1"

// uptimeRatioWindows are the day windows requested for custom uptime ratios.
const uptimeRatioWindows = "1-7-30"

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

// CreateMonitor creates a new HTTP monitor upstream and returns its id.
func (c *Client) CreateMonitor(ctx context.Context, apiKey, siteURL, friendlyName string) (string, error) {
	form := url.Values{}
	form.Set("api_key", apiKey)
	form.Set("format", "json")
	form.Set("type", monitorTypeHTTP)
	form.Set("url", siteURL)
	form.Set("friendly_name", friendlyName)

	var result struct {
		Stat    string `json:"stat"`
		Monitor *struct {
			ID int64 `json:"id"`
		} `json:"monitor"`
		Error providerError `json:"error"`
	}

	if err := c.post(ctx, "/newMonitor", form, &result); err != nil {
		return "", err
	}

	if result.Stat != "ok" || result.Monitor == nil {
		return "", apperrors.New(apperrors.KindProviderError,
			fmt.Sprintf("newMonitor failed: %s", result.Error.Message))
	}

	return strconv.FormatInt(result.Monitor.ID, 10), nil
}

// GetMonitor fetches one monitor with the fullest available field set: logs,
// response times, uptime ratios, SSL info, alert contacts and maintenance
// windows. Always a live fetch, never cached.
func (c *Client) GetMonitor(ctx context.Context, apiKey, monitorID string) (*Monitor, error) {
	form := url.Values{}
	form.Set("api_key", apiKey)
	form.Set("format", "json")
	form.Set("monitors", monitorID)
	form.Set("logs", "1")
	form.Set("response_times", "1")
	form.Set("custom_uptime_ratios", uptimeRatioWindows)
	form.Set("all_time_uptime_ratio", "1")
	form.Set("ssl", "1")
	form.Set("alert_contacts", "1")
	form.Set("mwindows", "1")

	var result struct {
		Stat     string        `json:"stat"`
		Monitors []Monitor     `json:"monitors"`
		Error    providerError `json:"error"`
	}

	if err := c.post(ctx, "/getMonitors", form, &result); err != nil {
		return nil, err
	}

	if result.Stat != "ok" {
		return nil, apperrors.New(apperrors.KindProviderError,
			fmt.Sprintf("getMonitors failed: %s", result.Error.Message))
	}
	if len(result.Monitors) == 0 {
		return nil, apperrors.New(apperrors.KindProviderError,
			fmt.Sprintf("monitor %s not found upstream", monitorID))
	}

	return &result.Monitors[0], nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindTransportError, "uptime provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return apperrors.HTTPStatus(apperrors.KindProviderError, resp.StatusCode, string(body))
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return apperrors.Wrap(apperrors.KindParseError, "decode uptime response", decodeErr)
	}

	return nil
}

type providerError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
