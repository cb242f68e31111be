package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sitepulse/internal/analytics"
	"github.com/jonesrussell/sitepulse/internal/models"
	"github.com/jonesrussell/sitepulse/internal/testhelpers"
)

type fakeFactSource struct {
	scores []analytics.Fact
	lab    []analytics.Fact
}

func (f *fakeFactSource) EnsurePage(_ context.Context, userID, url string) (*models.Page, error) {
	return &models.Page{ID: "page-1", UserID: userID, URL: url}, nil
}

func (f *fakeFactSource) CategoryScoreFacts(context.Context, string, string) ([]analytics.Fact, error) {
	return f.scores, nil
}

func (f *fakeFactSource) LabMetricFacts(context.Context, string, string) ([]analytics.Fact, error) {
	return f.lab, nil
}

type fakeLogSource struct {
	logs []analytics.LogEntry
}

func (f *fakeLogSource) Logs(context.Context, string, string) ([]analytics.LogEntry, error) {
	return f.logs, nil
}

func newAnalyticsRouter(h *AnalyticsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/", RequireUser())
	group.GET("/sites/:id/analytics/performance/trend", h.PerformanceTrend)
	group.GET("/sites/:id/analytics/performance/compare", h.PerformanceCompare)
	group.GET("/sites/:id/analytics/uptime/trend", h.UptimeTrend)
	group.GET("/sites/:id/analytics/uptime/compare", h.UptimeCompare)
	return router
}

func scoreFact(day int, strategy string, performance float64) analytics.Fact {
	return analytics.Fact{
		Timestamp: time.Date(2024, 6, day, 12, 0, 0, 0, time.UTC),
		Group:     strategy,
		Values:    map[string]*float64{"performance": &performance},
	}
}

func TestPerformanceTrend_GroupsByStrategy(t *testing.T) {
	handler := NewAnalyticsHandler(
		&fakeSiteReader{site: testSite()},
		&fakeFactSource{scores: []analytics.Fact{
			scoreFact(1, models.StrategyMobile, 0.9),
			scoreFact(2, models.StrategyMobile, 0.8),
			scoreFact(1, models.StrategyDesktop, 0.95),
		}},
		&fakeLogSource{},
		testhelpers.NewTestLogger(),
	)

	w := performCheck(newAnalyticsRouter(handler), http.MethodGet, "/sites/site-1/analytics/performance/trend")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Scores map[string]analytics.TrendResult `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body.Scores, models.StrategyMobile)
	require.Contains(t, body.Scores, models.StrategyDesktop)
	assert.InDelta(t, 0.85, *body.Scores[models.StrategyMobile].Avg["performance"], 1e-9)
}

func TestPerformanceCompare_RequiresPeriods(t *testing.T) {
	handler := NewAnalyticsHandler(
		&fakeSiteReader{site: testSite()}, &fakeFactSource{}, &fakeLogSource{},
		testhelpers.NewTestLogger(),
	)

	w := performCheck(newAnalyticsRouter(handler), http.MethodGet, "/sites/site-1/analytics/performance/compare")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPerformanceCompare_PeriodWindows(t *testing.T) {
	handler := NewAnalyticsHandler(
		&fakeSiteReader{site: testSite()},
		&fakeFactSource{scores: []analytics.Fact{
			scoreFact(1, models.StrategyMobile, 0.5),
			scoreFact(10, models.StrategyMobile, 1.0),
		}},
		&fakeLogSource{},
		testhelpers.NewTestLogger(),
	)

	w := performCheck(newAnalyticsRouter(handler), http.MethodGet,
		"/sites/site-1/analytics/performance/compare?period=2024-06-01:2024-06-05&period=2024-06-06:2024-06-30")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Scores map[string]map[string]analytics.TrendResult `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.InDelta(t, 0.5, *body.Scores["period1"][models.StrategyMobile].Avg["performance"], 1e-9)
	assert.InDelta(t, 1.0, *body.Scores["period2"][models.StrategyMobile].Avg["performance"], 1e-9)
}

func TestUptimeTrend(t *testing.T) {
	handler := NewAnalyticsHandler(
		&fakeSiteReader{site: testSite()}, &fakeFactSource{},
		&fakeLogSource{logs: []analytics.LogEntry{
			{Timestamp: "2024-06-01 12:00:00", Type: 2},
			{Timestamp: "2024-06-01 13:00:00", Type: 1},
		}},
		testhelpers.NewTestLogger(),
	)

	w := performCheck(newAnalyticsRouter(handler), http.MethodGet, "/sites/site-1/analytics/uptime/trend")
	require.Equal(t, http.StatusOK, w.Code)

	var result analytics.LogTrendResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.InDelta(t, 50.0, result.UptimePercent, 1e-9)
	assert.Equal(t, 1, result.DowntimeEvents)
	assert.Equal(t, 2, result.TotalChecks)
}

func TestPeriodParsing_Malformed(t *testing.T) {
	handler := NewAnalyticsHandler(
		&fakeSiteReader{site: testSite()}, &fakeFactSource{}, &fakeLogSource{},
		testhelpers.NewTestLogger(),
	)

	w := performCheck(newAnalyticsRouter(handler), http.MethodGet,
		"/sites/site-1/analytics/uptime/compare?period=2024-06-01")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
