package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/sitepulse/internal/analytics"
	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/models"
)

type ReportRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewReportRepository(db *sql.DB, log logger.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: log,
	}
}

// EnsurePage returns the page row for the URL, creating it on first use.
// One page per unique URL per user.
func (r *ReportRepository) EnsurePage(ctx context.Context, userID, url string) (*models.Page, error) {
	var page models.Page

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, url, created_at FROM pages WHERE user_id = $1 AND url = $2`,
		userID, url,
	).Scan(&page.ID, &page.UserID, &page.URL, &page.CreatedAt)

	if err == nil {
		return &page, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query page: %w", err)
	}

	page = models.Page{
		ID:        uuid.New().String(),
		UserID:    userID,
		URL:       url,
		CreatedAt: time.Now(),
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO pages (id, user_id, url, created_at) VALUES ($1, $2, $3, $4)`,
		page.ID, page.UserID, page.URL, page.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert page: %w", err)
	}

	return &page, nil
}

// SaveGroup persists a report group with both strategy reports and all
// derived fact rows in one transaction. Either the whole group lands or
// nothing does.
func (r *ReportRepository) SaveGroup(ctx context.Context, group *models.ReportGroup) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	group.ID = uuid.New().String()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO report_groups (id, user_id, page_id, fetched_at) VALUES ($1, $2, $3, $4)`,
		group.ID, group.UserID, group.PageID, group.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report group: %w", err)
	}

	for i := range group.Reports {
		if insertErr := r.insertReport(ctx, tx, group, &group.Reports[i]); insertErr != nil {
			return insertErr
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("commit report group: %w", commitErr)
	}

	return nil
}

func (r *ReportRepository) insertReport(ctx context.Context, tx *sql.Tx, group *models.ReportGroup, report *models.PerformanceReport) error {
	report.ID = uuid.New().String()
	report.UserID = group.UserID
	report.GroupID = group.ID
	report.PageID = group.PageID
	report.FetchedAt = group.FetchedAt

	_, err := tx.ExecContext(ctx,
		`INSERT INTO performance_reports (id, user_id, group_id, page_id, strategy, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		report.ID, report.UserID, report.GroupID, report.PageID, report.Strategy, report.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("insert %s report: %w", report.Strategy, err)
	}

	if fm := report.FieldMetrics; fm != nil {
		fm.ID = uuid.New().String()
		fm.ReportID = report.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO field_metrics (id, report_id, fcp_ms, fid_ms, lcp_ms, cls_score, inp_ms, ttfb_ms, has_data)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			fm.ID, fm.ReportID, fm.FCPMs, fm.FIDMs, fm.LCPMs, fm.CLSScore, fm.INPMs, fm.TTFBMs, fm.HasData,
		)
		if err != nil {
			return fmt.Errorf("insert field metrics: %w", err)
		}
	}

	if lm := report.LabMetrics; lm != nil {
		lm.ID = uuid.New().String()
		lm.ReportID = report.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO lab_metrics (id, report_id, first_contentful_paint, speed_index,
			 largest_contentful_paint, time_to_interactive, total_blocking_time, cumulative_layout_shift)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			lm.ID, lm.ReportID, lm.FirstContentfulPaint, lm.SpeedIndex,
			lm.LargestContentfulPaint, lm.TimeToInteractive, lm.TotalBlockingTime, lm.CumulativeLayoutShift,
		)
		if err != nil {
			return fmt.Errorf("insert lab metrics: %w", err)
		}
	}

	if cs := report.CategoryScores; cs != nil {
		cs.ID = uuid.New().String()
		cs.ReportID = report.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO category_scores (id, report_id, performance, accessibility, best_practices, seo)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			cs.ID, cs.ReportID, cs.Performance, cs.Accessibility, cs.BestPractices, cs.SEO,
		)
		if err != nil {
			return fmt.Errorf("insert category scores: %w", err)
		}
	}

	for i := range report.Audits {
		finding := &report.Audits[i]
		finding.ID = uuid.New().String()
		finding.ReportID = report.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO audit_findings (id, report_id, category, audit_key, title, description, score, display_mode, details)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			finding.ID, finding.ReportID, finding.Category, finding.AuditKey,
			finding.Title, finding.Description, finding.Score, finding.DisplayMode, finding.Details,
		)
		if err != nil {
			return fmt.Errorf("insert audit finding %s: %w", finding.AuditKey, err)
		}
	}

	return nil
}

// ListGroups returns the report groups for a page, newest first.
func (r *ReportRepository) ListGroups(ctx context.Context, userID, pageID string, limit int) ([]models.ReportGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, page_id, fetched_at FROM report_groups
		 WHERE user_id = $1 AND page_id = $2
		 ORDER BY fetched_at DESC
		 LIMIT $3`,
		userID, pageID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query report groups: %w", err)
	}
	defer rows.Close()

	var groups []models.ReportGroup
	for rows.Next() {
		var g models.ReportGroup
		if scanErr := rows.Scan(&g.ID, &g.UserID, &g.PageID, &g.FetchedAt); scanErr != nil {
			return nil, fmt.Errorf("scan report group: %w", scanErr)
		}
		groups = append(groups, g)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate report groups: %w", rowsErr)
	}

	return groups, nil
}

// DeleteGroup removes a report group; both reports and their fact rows
// cascade in the database.
func (r *ReportRepository) DeleteGroup(ctx context.Context, userID, groupID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM report_groups WHERE id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("delete report group: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("report group %s: %w", groupID, ErrNotFound)
	}
	return nil
}

// CategoryScoreFacts materializes category scores as analytics facts, one
// per report, partitioned by strategy.
func (r *ReportRepository) CategoryScoreFacts(ctx context.Context, userID, pageID string) ([]analytics.Fact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT pr.strategy, pr.fetched_at, cs.performance, cs.accessibility, cs.best_practices, cs.seo
		 FROM category_scores cs
		 JOIN performance_reports pr ON pr.id = cs.report_id
		 WHERE pr.user_id = $1 AND pr.page_id = $2
		 ORDER BY pr.fetched_at ASC`,
		userID, pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("query category score facts: %w", err)
	}
	defer rows.Close()

	var facts []analytics.Fact
	for rows.Next() {
		var (
			strategy  string
			fetchedAt time.Time
			perf      sql.NullFloat64
			a11y      sql.NullFloat64
			best      sql.NullFloat64
			seo       sql.NullFloat64
		)
		if scanErr := rows.Scan(&strategy, &fetchedAt, &perf, &a11y, &best, &seo); scanErr != nil {
			return nil, fmt.Errorf("scan category score fact: %w", scanErr)
		}
		facts = append(facts, analytics.Fact{
			Timestamp: fetchedAt,
			Group:     strategy,
			Values: map[string]*float64{
				"performance":    nullFloat(perf),
				"accessibility":  nullFloat(a11y),
				"best_practices": nullFloat(best),
				"seo":            nullFloat(seo),
			},
		})
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate category score facts: %w", rowsErr)
	}

	return facts, nil
}

// LabMetricFacts materializes lab metrics as analytics facts partitioned by
// strategy.
func (r *ReportRepository) LabMetricFacts(ctx context.Context, userID, pageID string) ([]analytics.Fact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT pr.strategy, pr.fetched_at, lm.first_contentful_paint, lm.speed_index,
		        lm.largest_contentful_paint, lm.time_to_interactive, lm.total_blocking_time,
		        lm.cumulative_layout_shift
		 FROM lab_metrics lm
		 JOIN performance_reports pr ON pr.id = lm.report_id
		 WHERE pr.user_id = $1 AND pr.page_id = $2
		 ORDER BY pr.fetched_at ASC`,
		userID, pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("query lab metric facts: %w", err)
	}
	defer rows.Close()

	var facts []analytics.Fact
	for rows.Next() {
		var (
			strategy  string
			fetchedAt time.Time
			fcp, si   sql.NullFloat64
			lcp, tti  sql.NullFloat64
			tbt, cls  sql.NullFloat64
		)
		if scanErr := rows.Scan(&strategy, &fetchedAt, &fcp, &si, &lcp, &tti, &tbt, &cls); scanErr != nil {
			return nil, fmt.Errorf("scan lab metric fact: %w", scanErr)
		}
		facts = append(facts, analytics.Fact{
			Timestamp: fetchedAt,
			Group:     strategy,
			Values: map[string]*float64{
				"first_contentful_paint":   nullFloat(fcp),
				"speed_index":              nullFloat(si),
				"largest_contentful_paint": nullFloat(lcp),
				"time_to_interactive":      nullFloat(tti),
				"total_blocking_time":      nullFloat(tbt),
				"cumulative_layout_shift":  nullFloat(cls),
			},
		})
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate lab metric facts: %w", rowsErr)
	}

	return facts, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
