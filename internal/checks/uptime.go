package checks

import (
	"context"
	"time"

	"github.com/jonesrussell/sitepulse/internal/analytics"
	"github.com/jonesrussell/sitepulse/internal/apperrors"
	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/metrics"
	"github.com/jonesrussell/sitepulse/internal/models"
	"github.com/jonesrussell/sitepulse/internal/providers/uptimerobot"
	"github.com/jonesrussell/sitepulse/internal/secrets"
)

type uptimeProvider interface {
	CreateMonitor(ctx context.Context, apiKey, siteURL, friendlyName string) (string, error)
	GetMonitor(ctx context.Context, apiKey, monitorID string) (*uptimerobot.Monitor, error)
}

type siteStore interface {
	GetByID(ctx context.Context, userID, id string) (*models.Site, error)
	SetUptimeMonitorID(ctx context.Context, userID, id, monitorID string) error
	SetUptimeStatus(ctx context.Context, userID, id string, status int, checkedAt time.Time) error
}

// UptimeStatus is one live snapshot of a site's monitor, with its raw logs
// already converted into the analytics log shape.
type UptimeStatus struct {
	Monitor    *uptimerobot.Monitor `json:"monitor"`
	StatusText string               `json:"status_text"`
	Logs       []analytics.LogEntry `json:"logs"`
}

type UptimeService struct {
	credentials credentialSource
	client      uptimeProvider
	sites       siteStore
	metrics     *metrics.Metrics
	logger      logger.Logger
}

func NewUptimeService(
	credentials credentialSource,
	client uptimeProvider,
	sites siteStore,
	m *metrics.Metrics,
	log logger.Logger,
) *UptimeService {
	return &UptimeService{
		credentials: credentials,
		client:      client,
		sites:       sites,
		metrics:     m,
		logger:      log,
	}
}

// EnsureMonitor returns the site's upstream monitor id, provisioning one on
// first use. Idempotent: a site that already carries a monitor id never
// triggers a second provider call.
func (s *UptimeService) EnsureMonitor(ctx context.Context, userID, siteID string) (string, error) {
	return s.ensureMonitor(ctx, userID, siteID, "")
}

// ensureMonitor provisions a monitor on first use. An empty apiKey is
// resolved from the credential store only when provisioning is needed.
func (s *UptimeService) ensureMonitor(ctx context.Context, userID, siteID, apiKey string) (string, error) {
	site, err := s.sites.GetByID(ctx, userID, siteID)
	if err != nil {
		return "", err
	}

	if site.UptimeMonitorID != nil && *site.UptimeMonitorID != "" {
		return *site.UptimeMonitorID, nil
	}

	if apiKey == "" {
		apiKey, err = s.credentials.Get(ctx, userID, secrets.ServiceUptimeMonitor)
		if err != nil {
			return "", err
		}
	}

	name := site.Title
	if name == "" {
		name = site.URL
	}

	monitorID, err := s.client.CreateMonitor(ctx, apiKey, site.URL, name)
	if err != nil {
		s.metrics.ObserveProviderError(metrics.CheckUptime, string(apperrors.KindOf(err)))
		return "", err
	}

	if err = s.sites.SetUptimeMonitorID(ctx, userID, siteID, monitorID); err != nil {
		return "", err
	}

	s.logger.Info("Uptime monitor provisioned",
		logger.String("site_id", siteID),
		logger.String("monitor_id", monitorID),
	)
	return monitorID, nil
}

// Status fetches the live monitor state, mirrors the numeric status onto the
// site row, and returns the snapshot. The mirror is last-write-wins; the
// site row is a cache, never the source of truth. The credential is resolved
// once and shared with the provisioning path.
func (s *UptimeService) Status(ctx context.Context, userID, siteID string) (status *UptimeStatus, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveCheck(metrics.CheckUptime, start, err) }()

	apiKey, err := s.credentials.Get(ctx, userID, secrets.ServiceUptimeMonitor)
	if err != nil {
		return nil, err
	}

	monitorID, err := s.ensureMonitor(ctx, userID, siteID, apiKey)
	if err != nil {
		return nil, err
	}

	monitor, err := s.client.GetMonitor(ctx, apiKey, monitorID)
	if err != nil {
		s.metrics.ObserveProviderError(metrics.CheckUptime, string(apperrors.KindOf(err)))
		return nil, err
	}

	if mirrorErr := s.sites.SetUptimeStatus(ctx, userID, siteID, monitor.Status, time.Now().UTC()); mirrorErr != nil {
		return nil, mirrorErr
	}

	return &UptimeStatus{
		Monitor:    monitor,
		StatusText: models.UptimeStatusText(monitor.Status),
		Logs:       uptimerobot.ConvertLogs(monitor),
	}, nil
}

// Logs returns the monitor's converted log entries. Always a live fetch;
// the analytics engine never reads stale logs.
func (s *UptimeService) Logs(ctx context.Context, userID, siteID string) ([]analytics.LogEntry, error) {
	status, err := s.Status(ctx, userID, siteID)
	if err != nil {
		return nil, err
	}
	return status.Logs, nil
}
