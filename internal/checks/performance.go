// Package checks orchestrates the acquisition services: each service holds
// one check's provider call policy and persistence rules. Stores and
// provider clients come in through narrow interfaces so tests can substitute
// them.
package checks

import (
	"context"
	"time"

	"github.com/jonesrussell/sitepulse/internal/apperrors"
	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/metrics"
	"github.com/jonesrussell/sitepulse/internal/models"
	"github.com/jonesrussell/sitepulse/internal/providers/pagespeed"
	"github.com/jonesrussell/sitepulse/internal/secrets"
)

// credentialSource resolves a user's stored provider credential.
type credentialSource interface {
	Get(ctx context.Context, userID, service string) (string, error)
}

type performanceFetcher interface {
	Fetch(ctx context.Context, pageURL, apiKey, strategy string) (*pagespeed.Report, error)
}

type reportStore interface {
	EnsurePage(ctx context.Context, userID, url string) (*models.Page, error)
	SaveGroup(ctx context.Context, group *models.ReportGroup) error
}

// strategies in fetch order. A mobile failure means the desktop call is
// never made.
var strategies = []string{models.StrategyMobile, models.StrategyDesktop}

type PerformanceService struct {
	credentials credentialSource
	client      performanceFetcher
	reports     reportStore
	metrics     *metrics.Metrics
	logger      logger.Logger
}

func NewPerformanceService(
	credentials credentialSource,
	client performanceFetcher,
	reports reportStore,
	m *metrics.Metrics,
	log logger.Logger,
) *PerformanceService {
	return &PerformanceService{
		credentials: credentials,
		client:      client,
		reports:     reports,
		metrics:     m,
		logger:      log,
	}
}

// Run fetches one report per strategy and persists them as a single group.
// All strategies share one fetch timestamp. The group is all-or-nothing: any
// fetch failure aborts before anything is written, including the page row.
func (s *PerformanceService) Run(ctx context.Context, userID, pageURL string) (group *models.ReportGroup, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveCheck(metrics.CheckPerformance, start, err) }()

	apiKey, err := s.credentials.Get(ctx, userID, secrets.ServicePerformanceAudit)
	if err != nil {
		return nil, err
	}

	fetchedAt := time.Now().UTC()
	reports := make([]models.PerformanceReport, 0, len(strategies))
	for _, strategy := range strategies {
		raw, fetchErr := s.client.Fetch(ctx, pageURL, apiKey, strategy)
		if fetchErr != nil {
			s.metrics.ObserveProviderError(metrics.CheckPerformance, string(apperrors.KindOf(fetchErr)))
			s.logger.Warn("Performance fetch failed, aborting group",
				logger.String("url", pageURL),
				logger.String("strategy", strategy),
				logger.Error(fetchErr),
			)
			err = fetchErr
			return nil, err
		}
		reports = append(reports, *pagespeed.Normalize(strategy, raw))
	}

	page, err := s.reports.EnsurePage(ctx, userID, pageURL)
	if err != nil {
		return nil, err
	}

	group = &models.ReportGroup{
		UserID:    userID,
		PageID:    page.ID,
		FetchedAt: fetchedAt,
		Reports:   reports,
	}
	if err = s.reports.SaveGroup(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info("Performance group saved",
		logger.String("page_id", page.ID),
		logger.String("group_id", group.ID),
		logger.Int("reports", len(group.Reports)),
	)
	return group, nil
}
