package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/models"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type certificateHistorySource interface {
	ListBySite(ctx context.Context, userID, siteID string, limit int) ([]models.CertificateCheck, error)
}

type deepScanHistorySource interface {
	ListBySite(ctx context.Context, userID, siteID string, limit int) ([]models.DeepScan, error)
}

type reportHistorySource interface {
	EnsurePage(ctx context.Context, userID, url string) (*models.Page, error)
	ListGroups(ctx context.Context, userID, pageID string, limit int) ([]models.ReportGroup, error)
	DeleteGroup(ctx context.Context, userID, groupID string) error
}

// HistoryHandler serves persisted check results, newest first.
type HistoryHandler struct {
	sites        siteReader
	certificates certificateHistorySource
	deepScans    deepScanHistorySource
	reports      reportHistorySource
	logger       logger.Logger
}

func NewHistoryHandler(
	sites siteReader,
	certificates certificateHistorySource,
	deepScans deepScanHistorySource,
	reports reportHistorySource,
	log logger.Logger,
) *HistoryHandler {
	return &HistoryHandler{
		sites:        sites,
		certificates: certificates,
		deepScans:    deepScans,
		reports:      reports,
		logger:       log,
	}
}

func (h *HistoryHandler) Certificates(c *gin.Context) {
	site, ok := h.site(c)
	if !ok {
		return
	}

	items, err := h.certificates.ListBySite(c.Request.Context(), userID(c), site.ID, historyLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checks": items, "count": len(items)})
}

func (h *HistoryHandler) DeepScans(c *gin.Context) {
	site, ok := h.site(c)
	if !ok {
		return
	}

	items, err := h.deepScans.ListBySite(c.Request.Context(), userID(c), site.ID, historyLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"scans": items, "count": len(items)})
}

func (h *HistoryHandler) ReportGroups(c *gin.Context) {
	site, ok := h.site(c)
	if !ok {
		return
	}

	page, err := h.reports.EnsurePage(c.Request.Context(), userID(c), site.URL)
	if err != nil {
		respondError(c, err)
		return
	}

	groups, err := h.reports.ListGroups(c.Request.Context(), userID(c), page.ID, historyLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

func (h *HistoryHandler) DeleteReportGroup(c *gin.Context) {
	if _, ok := h.site(c); !ok {
		return
	}

	if err := h.reports.DeleteGroup(c.Request.Context(), userID(c), c.Param("groupId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HistoryHandler) site(c *gin.Context) (*models.Site, bool) {
	site, err := h.sites.GetByID(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return site, true
}

func historyLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	if err != nil || limit <= 0 {
		return defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
