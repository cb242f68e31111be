package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonesrussell/sitepulse/internal/api"
	"github.com/jonesrussell/sitepulse/internal/certinspect"
	"github.com/jonesrussell/sitepulse/internal/checks"
	"github.com/jonesrussell/sitepulse/internal/config"
	"github.com/jonesrussell/sitepulse/internal/database"
	"github.com/jonesrussell/sitepulse/internal/events"
	"github.com/jonesrussell/sitepulse/internal/handlers"
	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/metadata"
	"github.com/jonesrussell/sitepulse/internal/metrics"
	"github.com/jonesrussell/sitepulse/internal/providers/pagespeed"
	"github.com/jonesrussell/sitepulse/internal/providers/ssllabs"
	"github.com/jonesrussell/sitepulse/internal/providers/uptimerobot"
	"github.com/jonesrussell/sitepulse/internal/repository"
	"github.com/jonesrussell/sitepulse/internal/secrets"
)

// SetupHTTPServer wires repositories, provider clients and check services
// into the HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	db *database.DB,
	publisher *events.Publisher,
	log logger.Logger,
) *http.Server {
	m := metrics.New(prometheus.DefaultRegisterer)

	siteRepo := repository.NewSiteRepository(db.DB(), log)
	reportRepo := repository.NewReportRepository(db.DB(), log)
	certRepo := repository.NewCertificateRepository(db.DB(), log)
	scanRepo := repository.NewDeepScanRepository(db.DB(), log)
	credentials := secrets.NewStore(db.DB())

	timeout := cfg.Providers.Timeout
	performance := checks.NewPerformanceService(
		credentials,
		pagespeed.NewClient(cfg.Providers.PageSpeed.BaseURL, timeout, log),
		reportRepo, m, log,
	)
	certificate := checks.NewCertificateService(
		certinspect.NewInspector(cfg.Providers.HandshakeTimeout, log),
		certRepo, m, log,
	)
	deepScan := checks.NewDeepScanService(
		ssllabs.NewClient(cfg.Providers.SSLLabs.BaseURL, timeout, log),
		scanRepo,
		cfg.Providers.SSLLabs.PollInterval,
		cfg.Providers.SSLLabs.MaxAttempts,
		m, log,
	)
	uptime := checks.NewUptimeService(
		credentials,
		uptimerobot.NewClient(cfg.Providers.UptimeRobot.BaseURL, timeout, log),
		siteRepo, m, log,
	)

	extractor := metadata.NewExtractor(log)

	router := api.NewRouter(api.Handlers{
		Sites:       handlers.NewSiteHandler(siteRepo, extractor, publisher, log),
		Checks:      handlers.NewCheckHandler(siteRepo, performance, certificate, deepScan, uptime, publisher, log),
		Analytics:   handlers.NewAnalyticsHandler(siteRepo, reportRepo, uptime, log),
		History:     handlers.NewHistoryHandler(siteRepo, certRepo, scanRepo, reportRepo, log),
		Credentials: handlers.NewCredentialHandler(credentials, log),
	}, cfg.Server.CORSOrigins, log)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
