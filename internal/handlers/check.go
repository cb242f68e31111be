package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/sitepulse/internal/checks"
	"github.com/jonesrussell/sitepulse/internal/events"
	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/models"
)

type performanceRunner interface {
	Run(ctx context.Context, userID, pageURL string) (*models.ReportGroup, error)
}

type certificateRunner interface {
	Run(ctx context.Context, userID, siteID, rawURL string) (*models.CertificateCheck, error)
}

type deepScanRunner interface {
	Run(ctx context.Context, userID, siteID, rawURL string) ([]*models.DeepScan, error)
}

type uptimeSyncer interface {
	EnsureMonitor(ctx context.Context, userID, siteID string) (string, error)
	Status(ctx context.Context, userID, siteID string) (*checks.UptimeStatus, error)
}

type siteReader interface {
	GetByID(ctx context.Context, userID, id string) (*models.Site, error)
}

// CheckHandler triggers acquisition runs for one site.
type CheckHandler struct {
	sites       siteReader
	performance performanceRunner
	certificate certificateRunner
	deepScan    deepScanRunner
	uptime      uptimeSyncer
	publisher   *events.Publisher
	logger      logger.Logger
}

func NewCheckHandler(
	sites siteReader,
	performance performanceRunner,
	certificate certificateRunner,
	deepScan deepScanRunner,
	uptime uptimeSyncer,
	publisher *events.Publisher,
	log logger.Logger,
) *CheckHandler {
	return &CheckHandler{
		sites:       sites,
		performance: performance,
		certificate: certificate,
		deepScan:    deepScan,
		uptime:      uptime,
		publisher:   publisher,
		logger:      log,
	}
}

func (h *CheckHandler) site(c *gin.Context) (*models.Site, bool) {
	site, err := h.sites.GetByID(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return site, true
}

func (h *CheckHandler) RunPerformance(c *gin.Context) {
	site, ok := h.site(c)
	if !ok {
		return
	}

	group, err := h.performance.Run(c.Request.Context(), userID(c), site.URL)
	if err != nil {
		h.logger.Warn("Performance check failed",
			logger.String("site_id", site.ID),
			logger.Error(err),
		)
		respondError(c, err)
		return
	}

	h.publisher.PublishAsync(events.CheckEvent{
		EventType: events.EventPerformanceSaved,
		UserID:    userID(c),
		SiteID:    site.ID,
		PageID:    group.PageID,
	})
	c.JSON(http.StatusCreated, group)
}

func (h *CheckHandler) RunCertificate(c *gin.Context) {
	site, ok := h.site(c)
	if !ok {
		return
	}

	check, err := h.certificate.Run(c.Request.Context(), userID(c), site.ID, site.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publisher.PublishAsync(events.CheckEvent{
		EventType: events.EventCertificateSaved,
		UserID:    userID(c),
		SiteID:    site.ID,
	})
	c.JSON(http.StatusCreated, check)
}

func (h *CheckHandler) RunDeepScan(c *gin.Context) {
	site, ok := h.site(c)
	if !ok {
		return
	}

	scans, err := h.deepScan.Run(c.Request.Context(), userID(c), site.ID, site.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publisher.PublishAsync(events.CheckEvent{
		EventType: events.EventDeepScanSaved,
		UserID:    userID(c),
		SiteID:    site.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"scans": scans,
		"count": len(scans),
	})
}

// SyncUptime provisions the site's uptime monitor if it does not exist yet.
func (h *CheckHandler) SyncUptime(c *gin.Context) {
	site, ok := h.site(c)
	if !ok {
		return
	}

	monitorID, err := h.uptime.EnsureMonitor(c.Request.Context(), userID(c), site.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"monitor_id": monitorID})
}

// UptimeStatus returns the live monitor snapshot and mirrors its status onto
// the site row.
func (h *CheckHandler) UptimeStatus(c *gin.Context) {
	site, ok := h.site(c)
	if !ok {
		return
	}

	status, err := h.uptime.Status(c.Request.Context(), userID(c), site.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.publisher.PublishAsync(events.CheckEvent{
		EventType: events.EventUptimeSynced,
		UserID:    userID(c),
		SiteID:    site.ID,
	})
	c.JSON(http.StatusOK, status)
}
