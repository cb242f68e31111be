// Package repository implements PostgreSQL persistence for the sitepulse
// record types. Every query is scoped to the owning user; rows are never
// returned across user boundaries.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/models"
)

// ErrNotFound is returned when a row does not exist for the requesting user.
var ErrNotFound = errors.New("not found")

type SiteRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSiteRepository(db *sql.DB, log logger.Logger) *SiteRepository {
	return &SiteRepository{
		db:     db,
		logger: log,
	}
}

const siteColumns = `id, user_id, url, title, description, uptime_monitor_id,
	last_uptime_status, last_uptime_checked_at, created_at, updated_at`

func (r *SiteRepository) Create(ctx context.Context, site *models.Site) error {
	site.ID = uuid.New().String()
	site.CreatedAt = time.Now()
	site.UpdatedAt = time.Now()

	query := `
		INSERT INTO sites (
			id, user_id, url, title, description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx,
		query,
		site.ID,
		site.UserID,
		site.URL,
		site.Title,
		site.Description,
		site.CreatedAt,
		site.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("insert site: %w", err)
	}

	return nil
}

func (r *SiteRepository) GetByID(ctx context.Context, userID, id string) (*models.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE id = $1 AND user_id = $2`

	site, err := scanSite(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("site %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query site: %w", err)
	}

	return site, nil
}

func (r *SiteRepository) List(ctx context.Context, userID string) ([]models.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query sites: %w", err)
	}
	defer rows.Close()

	var sites []models.Site
	for rows.Next() {
		site, scanErr := scanSite(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan site: %w", scanErr)
		}
		sites = append(sites, *site)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate sites: %w", rowsErr)
	}

	return sites, nil
}

func (r *SiteRepository) Update(ctx context.Context, site *models.Site) error {
	site.UpdatedAt = time.Now()

	query := `
		UPDATE sites
		SET url = $1, title = $2, description = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`

	result, err := r.db.ExecContext(ctx,
		query,
		site.URL,
		site.Title,
		site.Description,
		site.UpdatedAt,
		site.ID,
		site.UserID,
	)
	if err != nil {
		return fmt.Errorf("update site: %w", err)
	}

	return requireRowAffected(result, site.ID)
}

// Delete removes a site; all dependent fact rows cascade in the database.
func (r *SiteRepository) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sites WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete site: %w", err)
	}

	return requireRowAffected(result, id)
}

// SetUptimeMonitorID caches the external monitor id on the site.
func (r *SiteRepository) SetUptimeMonitorID(ctx context.Context, userID, id, monitorID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sites SET uptime_monitor_id = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		monitorID, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("set uptime monitor id: %w", err)
	}

	return requireRowAffected(result, id)
}

// SetUptimeStatus mirrors the last known monitor status onto the site.
// Concurrent syncs are last-write-wins on these columns.
func (r *SiteRepository) SetUptimeStatus(ctx context.Context, userID, id string, status int, checkedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sites SET last_uptime_status = $1, last_uptime_checked_at = $2, updated_at = $3
		 WHERE id = $4 AND user_id = $5`,
		status, checkedAt, time.Now(), id, userID)
	if err != nil {
		return fmt.Errorf("set uptime status: %w", err)
	}

	return requireRowAffected(result, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSite(row rowScanner) (*models.Site, error) {
	var site models.Site
	err := row.Scan(
		&site.ID,
		&site.UserID,
		&site.URL,
		&site.Title,
		&site.Description,
		&site.UptimeMonitorID,
		&site.LastUptimeStatus,
		&site.LastUptimeCheckedAt,
		&site.CreatedAt,
		&site.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func requireRowAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("site %s: %w", id, ErrNotFound)
	}
	return nil
}
