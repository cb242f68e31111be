package checks

import (
	"context"
	"time"

	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/metrics"
	"github.com/jonesrussell/sitepulse/internal/models"
)

type certInspector interface {
	Inspect(ctx context.Context, rawURL string) *models.CertificateCheck
}

type certificateStore interface {
	Create(ctx context.Context, check *models.CertificateCheck) error
}

type CertificateService struct {
	inspector certInspector
	checks    certificateStore
	metrics   *metrics.Metrics
	logger    logger.Logger
}

func NewCertificateService(
	inspector certInspector,
	checks certificateStore,
	m *metrics.Metrics,
	log logger.Logger,
) *CertificateService {
	return &CertificateService{
		inspector: inspector,
		checks:    checks,
		metrics:   m,
		logger:    log,
	}
}

// Run inspects the site's certificate and persists the outcome. Inspection
// is fail-soft: unreachable hosts and handshake failures still produce a
// row, with the failure recorded in its errors field. Only a persistence
// failure returns an error.
func (s *CertificateService) Run(ctx context.Context, userID, siteID, rawURL string) (check *models.CertificateCheck, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveCheck(metrics.CheckCertificate, start, err) }()

	check = s.inspector.Inspect(ctx, rawURL)
	check.UserID = userID
	check.SiteID = siteID

	if check.Errors != "" {
		s.logger.Warn("Certificate inspection reported errors",
			logger.String("site_id", siteID),
			logger.String("errors", check.Errors),
		)
	}

	if err = s.checks.Create(ctx, check); err != nil {
		return nil, err
	}
	return check, nil
}
