package pagespeed

import (
	"sort"

	"github.com/jonesrussell/sitepulse/internal/models"
)

// Field-data metric keys in loadingExperience.metrics.
const (
	metricFCP  = "FIRST_CONTENTFUL_PAINT_MS"
	metricFID  = "FIRST_INPUT_DELAY_MS"
	metricLCP  = "LARGEST_CONTENTFUL_PAINT_MS"
	metricCLS  = "CUMULATIVE_LAYOUT_SHIFT_SCORE"
	metricINP  = "INTERACTION_TO_NEXT_PAINT"
	metricTTFB = "EXPERIMENTAL_TIME_TO_FIRST_BYTE"
)

// Lab-metric audit keys in lighthouseResult.audits.
const (
	auditFCP = "first-contentful-paint"
	auditSI  = "speed-index"
	auditLCP = "largest-contentful-paint"
	auditTTI = "interactive"
	auditTBT = "total-blocking-time"
	auditCLS = "cumulative-layout-shift"
)

// Normalize flattens the provider's raw report into one typed
// PerformanceReport with its derived fact rows. Absent metrics become nil
// fields, never zero.
func Normalize(strategy string, raw *Report) *models.PerformanceReport {
	report := &models.PerformanceReport{
		Strategy:       strategy,
		FieldMetrics:   normalizeFieldMetrics(raw.LoadingExperience.Metrics),
		LabMetrics:     normalizeLabMetrics(raw.LighthouseResult.Audits),
		CategoryScores: normalizeCategoryScores(raw.LighthouseResult.Categories),
		Audits:         normalizeAuditFindings(raw.LighthouseResult),
	}
	return report
}

func normalizeFieldMetrics(metrics map[string]FieldMetric) *models.FieldMetrics {
	fm := &models.FieldMetrics{
		HasData: len(metrics) > 0,
	}
	fm.FCPMs = percentile(metrics, metricFCP)
	fm.FIDMs = percentile(metrics, metricFID)
	fm.LCPMs = percentile(metrics, metricLCP)
	fm.CLSScore = percentile(metrics, metricCLS)
	fm.INPMs = percentile(metrics, metricINP)
	fm.TTFBMs = percentile(metrics, metricTTFB)
	return fm
}

func percentile(metrics map[string]FieldMetric, key string) *float64 {
	metric, ok := metrics[key]
	if !ok {
		return nil
	}
	return metric.Percentile
}

func normalizeLabMetrics(audits map[string]Audit) *models.LabMetrics {
	return &models.LabMetrics{
		FirstContentfulPaint:   numericValue(audits, auditFCP),
		SpeedIndex:             numericValue(audits, auditSI),
		LargestContentfulPaint: numericValue(audits, auditLCP),
		TimeToInteractive:      numericValue(audits, auditTTI),
		TotalBlockingTime:      numericValue(audits, auditTBT),
		CumulativeLayoutShift:  numericValue(audits, auditCLS),
	}
}

func numericValue(audits map[string]Audit, key string) *float64 {
	audit, ok := audits[key]
	if !ok {
		return nil
	}
	return audit.NumericValue
}

func normalizeCategoryScores(categories map[string]Category) *models.CategoryScores {
	return &models.CategoryScores{
		Performance:   categoryScore(categories, "performance"),
		Accessibility: categoryScore(categories, "accessibility"),
		BestPractices: categoryScore(categories, "best-practices"),
		SEO:           categoryScore(categories, "seo"),
	}
}

func categoryScore(categories map[string]Category, key string) *float64 {
	category, ok := categories[key]
	if !ok {
		return nil
	}
	return category.Score
}

// normalizeAuditFindings produces one finding per auditRef of every
// category. A reference missing from the flat audits map still yields a
// finding with empty title/description and nil score, preserving referential
// completeness for later lookups.
func normalizeAuditFindings(result LighthouseResult) []models.AuditFinding {
	categoryKeys := make([]string, 0, len(result.Categories))
	for key := range result.Categories {
		categoryKeys = append(categoryKeys, key)
	}
	sort.Strings(categoryKeys)

	var findings []models.AuditFinding
	for _, categoryKey := range categoryKeys {
		for _, ref := range result.Categories[categoryKey].AuditRefs {
			finding := models.AuditFinding{
				Category: categoryKey,
				AuditKey: ref.ID,
			}
			if audit, ok := result.Audits[ref.ID]; ok {
				finding.Title = audit.Title
				finding.Description = audit.Description
				finding.Score = audit.Score
				finding.DisplayMode = audit.ScoreDisplayMode
				finding.Details = models.JSONMap(audit.Details)
			}
			findings = append(findings, finding)
		}
	}
	return findings
}
