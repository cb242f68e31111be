package pagespeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sitepulse/internal/models"
)

func f(v float64) *float64 {
	return &v
}

func TestNormalize_FieldMetrics(t *testing.T) {
	raw := &Report{
		LoadingExperience: LoadingExperience{
			Metrics: map[string]FieldMetric{
				"FIRST_CONTENTFUL_PAINT_MS":   {Percentile: f(1500)},
				"LARGEST_CONTENTFUL_PAINT_MS": {Percentile: f(2400)},
			},
		},
	}

	report := Normalize(models.StrategyMobile, raw)

	fm := report.FieldMetrics
	require.NotNil(t, fm)
	assert.True(t, fm.HasData)
	assert.Equal(t, 1500.0, *fm.FCPMs)
	assert.Equal(t, 2400.0, *fm.LCPMs)

	// Metrics absent from the payload are nil, never zero.
	assert.Nil(t, fm.FIDMs)
	assert.Nil(t, fm.CLSScore)
	assert.Nil(t, fm.INPMs)
	assert.Nil(t, fm.TTFBMs)
}

func TestNormalize_NoFieldData(t *testing.T) {
	report := Normalize(models.StrategyDesktop, &Report{})

	require.NotNil(t, report.FieldMetrics)
	assert.False(t, report.FieldMetrics.HasData)
	assert.Nil(t, report.FieldMetrics.FCPMs)
}

func TestNormalize_LabMetricsAndScores(t *testing.T) {
	raw := &Report{
		LighthouseResult: LighthouseResult{
			Audits: map[string]Audit{
				"first-contentful-paint": {NumericValue: f(1210.5)},
				"total-blocking-time":    {NumericValue: f(340)},
			},
			Categories: map[string]Category{
				"performance":    {Score: f(0.92)},
				"best-practices": {Score: f(0.79)},
			},
		},
	}

	report := Normalize(models.StrategyMobile, raw)

	lm := report.LabMetrics
	require.NotNil(t, lm)
	assert.Equal(t, 1210.5, *lm.FirstContentfulPaint)
	assert.Equal(t, 340.0, *lm.TotalBlockingTime)
	assert.Nil(t, lm.SpeedIndex)

	cs := report.CategoryScores
	require.NotNil(t, cs)
	assert.Equal(t, 0.92, *cs.Performance)
	assert.Equal(t, 0.79, *cs.BestPractices)
	assert.Nil(t, cs.Accessibility)
	assert.Nil(t, cs.SEO)
}

func TestNormalize_AuditFindings(t *testing.T) {
	raw := &Report{
		LighthouseResult: LighthouseResult{
			Audits: map[string]Audit{
				"uses-http2": {
					Title:            "Use HTTP/2",
					Description:      "HTTP/2 offers many benefits",
					Score:            f(0.5),
					ScoreDisplayMode: "numeric",
					Details:          map[string]any{"type": "opportunity"},
				},
			},
			Categories: map[string]Category{
				"performance": {
					AuditRefs: []AuditRef{
						{ID: "uses-http2"},
						{ID: "ghost-audit"}, // referenced but absent from audits map
					},
				},
			},
		},
	}

	report := Normalize(models.StrategyMobile, raw)

	// Every auditRef produces exactly one finding, present or not.
	require.Len(t, report.Audits, 2)

	known := report.Audits[0]
	assert.Equal(t, "performance", known.Category)
	assert.Equal(t, "uses-http2", known.AuditKey)
	assert.Equal(t, "Use HTTP/2", known.Title)
	assert.Equal(t, 0.5, *known.Score)
	assert.Equal(t, "opportunity", known.Details["type"])

	ghost := report.Audits[1]
	assert.Equal(t, "ghost-audit", ghost.AuditKey)
	assert.Empty(t, ghost.Title)
	assert.Empty(t, ghost.Description)
	assert.Nil(t, ghost.Score)
}
