package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/sitepulse/internal/analytics"
	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/models"
)

// Attribute sets the analytics endpoints aggregate over.
var (
	scoreFields = []string{"performance", "accessibility", "best_practices", "seo"}
	labFields   = []string{
		"first_contentful_paint", "speed_index", "largest_contentful_paint",
		"time_to_interactive", "total_blocking_time", "cumulative_layout_shift",
	}
)

type factSource interface {
	EnsurePage(ctx context.Context, userID, url string) (*models.Page, error)
	CategoryScoreFacts(ctx context.Context, userID, pageID string) ([]analytics.Fact, error)
	LabMetricFacts(ctx context.Context, userID, pageID string) ([]analytics.Fact, error)
}

type uptimeLogSource interface {
	Logs(ctx context.Context, userID, siteID string) ([]analytics.LogEntry, error)
}

// AnalyticsHandler serves trend and compare reads. Performance analytics run
// off materialized fact rows; uptime analytics run off the live monitor log.
type AnalyticsHandler struct {
	sites  siteReader
	facts  factSource
	uptime uptimeLogSource
	logger logger.Logger
}

func NewAnalyticsHandler(sites siteReader, facts factSource, uptime uptimeLogSource, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		sites:  sites,
		facts:  facts,
		uptime: uptime,
		logger: log,
	}
}

func (h *AnalyticsHandler) performanceFacts(c *gin.Context) (scores, lab []analytics.Fact, ok bool) {
	site, err := h.sites.GetByID(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}

	page, err := h.facts.EnsurePage(c.Request.Context(), userID(c), site.URL)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}

	scores, err = h.facts.CategoryScoreFacts(c.Request.Context(), userID(c), page.ID)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	lab, err = h.facts.LabMetricFacts(c.Request.Context(), userID(c), page.ID)
	if err != nil {
		respondError(c, err)
		return nil, nil, false
	}
	return scores, lab, true
}

func (h *AnalyticsHandler) PerformanceTrend(c *gin.Context) {
	scores, lab, ok := h.performanceFacts(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scores":      analytics.TrendByGroup(scores, scoreFields),
		"lab_metrics": analytics.TrendByGroup(lab, labFields),
	})
}

func (h *AnalyticsHandler) PerformanceCompare(c *gin.Context) {
	periods, ok := parsePeriods(c)
	if !ok {
		return
	}

	scores, lab, ok := h.performanceFacts(c)
	if !ok {
		return
	}

	scoreResults, err := analytics.CompareByGroup(scores, scoreFields, periods)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	labResults, err := analytics.CompareByGroup(lab, labFields, periods)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scores":      scoreResults,
		"lab_metrics": labResults,
	})
}

func (h *AnalyticsHandler) UptimeTrend(c *gin.Context) {
	logs, ok := h.uptimeLogs(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, analytics.LogTrend(logs))
}

func (h *AnalyticsHandler) UptimeCompare(c *gin.Context) {
	periods, ok := parsePeriods(c)
	if !ok {
		return
	}

	logs, ok := h.uptimeLogs(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, analytics.LogCompare(logs, periods))
}

func (h *AnalyticsHandler) uptimeLogs(c *gin.Context) ([]analytics.LogEntry, bool) {
	logs, err := h.uptime.Logs(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return logs, true
}

// parsePeriods reads repeated period=START:END query parameters, dates in
// YYYY-MM-DD form.
func parsePeriods(c *gin.Context) ([]analytics.Period, bool) {
	raw := c.QueryArray("period")
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one period=START:END parameter is required"})
		return nil, false
	}

	periods := make([]analytics.Period, 0, len(raw))
	for _, value := range raw {
		start, end, found := strings.Cut(value, ":")
		if !found || start == "" || end == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed period, want START:END", "period": value})
			return nil, false
		}
		periods = append(periods, analytics.Period{Start: start, End: end})
	}
	return periods, true
}
