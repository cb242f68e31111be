package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/sitepulse/internal/apperrors"
	"github.com/jonesrussell/sitepulse/internal/certinspect"
	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/metrics"
	"github.com/jonesrussell/sitepulse/internal/models"
	"github.com/jonesrussell/sitepulse/internal/providers/ssllabs"
)

type deepScanAnalyzer interface {
	Analyze(ctx context.Context, host string) (*ssllabs.AnalyzeResponse, error)
}

type deepScanStore interface {
	CreateBatch(ctx context.Context, scans []*models.DeepScan) error
}

type DeepScanService struct {
	client       deepScanAnalyzer
	scans        deepScanStore
	pollInterval time.Duration
	maxAttempts  int
	metrics      *metrics.Metrics
	logger       logger.Logger
}

func NewDeepScanService(
	client deepScanAnalyzer,
	scans deepScanStore,
	pollInterval time.Duration,
	maxAttempts int,
	m *metrics.Metrics,
	log logger.Logger,
) *DeepScanService {
	return &DeepScanService{
		client:       client,
		scans:        scans,
		pollInterval: pollInterval,
		maxAttempts:  maxAttempts,
		metrics:      m,
		logger:       log,
	}
}

// Run polls the deep-scan provider until the scan reaches a terminal state
// or the attempt budget runs out. A READY scan persists one row per
// endpoint. Everything else that ends the poll, including transport
// failures, an ERROR status, an unrecognized status and poll exhaustion,
// persists exactly one row with status ERROR and the reason in its errors
// field. Only context cancellation returns without persisting.
func (s *DeepScanService) Run(ctx context.Context, userID, siteID, rawURL string) (scans []*models.DeepScan, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveCheck(metrics.CheckDeepScan, start, err) }()

	host, err := certinspect.ParseHost(rawURL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "invalid site URL", err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		s.metrics.DeepScanPolls.Inc()

		resp, analyzeErr := s.client.Analyze(ctx, host)
		if analyzeErr != nil {
			s.metrics.ObserveProviderError(metrics.CheckDeepScan, string(apperrors.KindOf(analyzeErr)))
			return s.persistError(ctx, userID, siteID, host, analyzeErr.Error())
		}

		switch {
		case resp.Status == ssllabs.StatusReady:
			return s.persistReady(ctx, userID, siteID, resp)

		case resp.Status == ssllabs.StatusError:
			reason := resp.StatusMessage
			if reason == "" {
				reason = "scan failed"
			}
			return s.persistError(ctx, userID, siteID, host, reason)

		case ssllabs.Pending(resp.Status):
			s.logger.Debug("Deep scan still running",
				logger.String("host", host),
				logger.String("status", resp.Status),
				logger.Int("attempt", attempt),
			)

		default:
			return s.persistError(ctx, userID, siteID, host,
				fmt.Sprintf("unexpected scan status %q", resp.Status))
		}

		if attempt < s.maxAttempts {
			if waitErr := sleepCtx(ctx, s.pollInterval); waitErr != nil {
				err = waitErr
				return nil, err
			}
		}
	}

	return s.persistError(ctx, userID, siteID, host,
		fmt.Sprintf("scan did not finish after %d polls", s.maxAttempts))
}

func (s *DeepScanService) persistReady(ctx context.Context, userID, siteID string, resp *ssllabs.AnalyzeResponse) ([]*models.DeepScan, error) {
	scans := ssllabs.NormalizeEndpoints(resp, time.Now().UTC())
	for _, scan := range scans {
		scan.UserID = userID
		scan.SiteID = siteID
	}

	if err := s.scans.CreateBatch(ctx, scans); err != nil {
		return nil, err
	}

	s.logger.Info("Deep scan complete",
		logger.String("site_id", siteID),
		logger.String("host", resp.Host),
		logger.Int("endpoints", len(scans)),
	)
	return scans, nil
}

func (s *DeepScanService) persistError(ctx context.Context, userID, siteID, host, reason string) ([]*models.DeepScan, error) {
	s.logger.Warn("Deep scan failed",
		logger.String("site_id", siteID),
		logger.String("host", host),
		logger.String("reason", reason),
	)

	scan := &models.DeepScan{
		UserID:    userID,
		SiteID:    siteID,
		Host:      host,
		Status:    models.DeepScanStatusError,
		Errors:    reason,
		ScannedAt: time.Now().UTC(),
	}
	if err := s.scans.CreateBatch(ctx, []*models.DeepScan{scan}); err != nil {
		return nil, err
	}
	return []*models.DeepScan{scan}, nil
}

// sleepCtx waits for the duration unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
