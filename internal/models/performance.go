package models

import "time"

// Device strategies for a performance check.
const (
	StrategyMobile  = "mobile"
	StrategyDesktop = "desktop"
)

// ReportGroup bundles the mobile/desktop report pair produced by one
// performance-check invocation. Both reports share the group's fetch time.
type ReportGroup struct {
	ID        string              `json:"id"         db:"id"`
	UserID    string              `json:"user_id"    db:"user_id"`
	PageID    string              `json:"page_id"    db:"page_id"`
	FetchedAt time.Time           `json:"fetched_at" db:"fetched_at"`
	Reports   []PerformanceReport `json:"reports,omitempty"`
}

// PerformanceReport is one strategy's normalized result within a group.
// A group has at most one report per strategy.
type PerformanceReport struct {
	ID        string    `json:"id"         db:"id"`
	UserID    string    `json:"user_id"    db:"user_id"`
	GroupID   string    `json:"group_id"   db:"group_id"`
	PageID    string    `json:"page_id"    db:"page_id"`
	Strategy  string    `json:"strategy"   db:"strategy"`
	FetchedAt time.Time `json:"fetched_at" db:"fetched_at"`

	FieldMetrics   *FieldMetrics   `json:"field_metrics,omitempty"`
	LabMetrics     *LabMetrics     `json:"lab_metrics,omitempty"`
	CategoryScores *CategoryScores `json:"category_scores,omitempty"`
	Audits         []AuditFinding  `json:"audits,omitempty"`
}

// FieldMetrics holds real-user percentile timings. Every metric is nullable;
// the provider may omit any of them. HasData records whether the provider
// returned field data at all.
type FieldMetrics struct {
	ID       string   `json:"id"                  db:"id"`
	ReportID string   `json:"report_id"           db:"report_id"`
	FCPMs    *float64 `json:"fcp_ms,omitempty"    db:"fcp_ms"`
	FIDMs    *float64 `json:"fid_ms,omitempty"    db:"fid_ms"`
	LCPMs    *float64 `json:"lcp_ms,omitempty"    db:"lcp_ms"`
	CLSScore *float64 `json:"cls_score,omitempty" db:"cls_score"`
	INPMs    *float64 `json:"inp_ms,omitempty"    db:"inp_ms"`
	TTFBMs   *float64 `json:"ttfb_ms,omitempty"   db:"ttfb_ms"`
	HasData  bool     `json:"has_data"            db:"has_data"`
}

// LabMetrics holds lab-simulated timings from the lighthouse run.
type LabMetrics struct {
	ID                     string   `json:"id"                                 db:"id"`
	ReportID               string   `json:"report_id"                          db:"report_id"`
	FirstContentfulPaint   *float64 `json:"first_contentful_paint,omitempty"   db:"first_contentful_paint"`
	SpeedIndex             *float64 `json:"speed_index,omitempty"              db:"speed_index"`
	LargestContentfulPaint *float64 `json:"largest_contentful_paint,omitempty" db:"largest_contentful_paint"`
	TimeToInteractive      *float64 `json:"time_to_interactive,omitempty"      db:"time_to_interactive"`
	TotalBlockingTime      *float64 `json:"total_blocking_time,omitempty"      db:"total_blocking_time"`
	CumulativeLayoutShift  *float64 `json:"cumulative_layout_shift,omitempty"  db:"cumulative_layout_shift"`
}

// CategoryScores holds the 0-1 lighthouse category scores.
type CategoryScores struct {
	ID            string   `json:"id"                       db:"id"`
	ReportID      string   `json:"report_id"                db:"report_id"`
	Performance   *float64 `json:"performance,omitempty"    db:"performance"`
	Accessibility *float64 `json:"accessibility,omitempty"  db:"accessibility"`
	BestPractices *float64 `json:"best_practices,omitempty" db:"best_practices"`
	SEO           *float64 `json:"seo,omitempty"            db:"seo"`
}

// AuditFinding is one named audit check from a report. A finding exists for
// every audit reference the provider lists, even when the audit body is
// missing from the response.
type AuditFinding struct {
	ID          string   `json:"id"              db:"id"`
	ReportID    string   `json:"report_id"       db:"report_id"`
	Category    string   `json:"category"        db:"category"`
	AuditKey    string   `json:"audit_key"       db:"audit_key"`
	Title       string   `json:"title"           db:"title"`
	Description string   `json:"description"     db:"description"`
	Score       *float64 `json:"score,omitempty" db:"score"`
	DisplayMode string   `json:"display_mode"    db:"display_mode"`
	Details     JSONMap  `json:"details"         db:"details"`
}
