package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sitepulse/internal/models"
	"github.com/jonesrussell/sitepulse/internal/testhelpers"
)

var siteRowColumns = []string{
	"id", "user_id", "url", "title", "description", "uptime_monitor_id",
	"last_uptime_status", "last_uptime_checked_at", "created_at", "updated_at",
}

func TestSiteRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO sites").
		WithArgs(sqlmock.AnyArg(), "user-1", "https://example.com", "Example", "",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSiteRepository(db, testhelpers.NewTestLogger())
	site := &models.Site{UserID: "user-1", URL: "https://example.com", Title: "Example"}

	require.NoError(t, repo.Create(context.Background(), site))
	assert.NotEmpty(t, site.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM sites WHERE id").
		WithArgs("site-1", "user-1").
		WillReturnRows(sqlmock.NewRows(siteRowColumns).
			AddRow("site-1", "user-1", "https://example.com", "Example", "", nil, nil, nil, now, now))

	repo := NewSiteRepository(db, testhelpers.NewTestLogger())

	site, err := repo.GetByID(context.Background(), "user-1", "site-1")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", site.URL)
	assert.Nil(t, site.UptimeMonitorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM sites WHERE id").
		WithArgs("missing", "user-1").
		WillReturnRows(sqlmock.NewRows(siteRowColumns))

	repo := NewSiteRepository(db, testhelpers.NewTestLogger())

	_, err = repo.GetByID(context.Background(), "user-1", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSiteRepository_Delete_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM sites").
		WithArgs("missing", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewSiteRepository(db, testhelpers.NewTestLogger())

	err = repo.Delete(context.Background(), "user-1", "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSiteRepository_SetUptimeStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	checkedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE sites SET last_uptime_status").
		WithArgs(models.UptimeStatusUp, checkedAt, sqlmock.AnyArg(), "site-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewSiteRepository(db, testhelpers.NewTestLogger())

	require.NoError(t, repo.SetUptimeStatus(context.Background(), "user-1", "site-1", models.UptimeStatusUp, checkedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}
