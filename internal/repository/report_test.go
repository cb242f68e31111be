package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sitepulse/internal/models"
	"github.com/jonesrussell/sitepulse/internal/testhelpers"
)

func floatPtr(v float64) *float64 { return &v }

func TestReportRepository_SaveGroup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO report_groups").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// mobile report with its fact rows
	mock.ExpectExec("INSERT INTO performance_reports").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO field_metrics").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO category_scores").
		WillReturnResult(sqlmock.NewResult(0, 1))
	// desktop report, lab metrics only
	mock.ExpectExec("INSERT INTO performance_reports").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO lab_metrics").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewReportRepository(db, testhelpers.NewTestLogger())
	group := &models.ReportGroup{
		UserID:    "user-1",
		PageID:    "page-1",
		FetchedAt: time.Now().UTC(),
		Reports: []models.PerformanceReport{
			{
				Strategy:       models.StrategyMobile,
				FieldMetrics:   &models.FieldMetrics{HasData: true, FCPMs: floatPtr(1200)},
				CategoryScores: &models.CategoryScores{Performance: floatPtr(0.93)},
			},
			{
				Strategy:   models.StrategyDesktop,
				LabMetrics: &models.LabMetrics{SpeedIndex: floatPtr(2100)},
			},
		},
	}

	require.NoError(t, repo.SaveGroup(context.Background(), group))
	assert.NotEmpty(t, group.ID)
	assert.Equal(t, group.ID, group.Reports[0].GroupID)
	assert.Equal(t, group.FetchedAt, group.Reports[1].FetchedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_SaveGroup_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO report_groups").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO performance_reports").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	repo := NewReportRepository(db, testhelpers.NewTestLogger())
	group := &models.ReportGroup{
		UserID:    "user-1",
		PageID:    "page-1",
		FetchedAt: time.Now().UTC(),
		Reports:   []models.PerformanceReport{{Strategy: models.StrategyMobile}},
	}

	err = repo.SaveGroup(context.Background(), group)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_EnsurePage_CreatesOnFirstUse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, user_id, url, created_at FROM pages").
		WithArgs("user-1", "https://example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "url", "created_at"}))
	mock.ExpectExec("INSERT INTO pages").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewReportRepository(db, testhelpers.NewTestLogger())

	page, err := repo.EnsurePage(context.Background(), "user-1", "https://example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, page.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepository_EnsurePage_ReturnsExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, user_id, url, created_at FROM pages").
		WithArgs("user-1", "https://example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "url", "created_at"}).
			AddRow("page-1", "user-1", "https://example.com", time.Now()))

	repo := NewReportRepository(db, testhelpers.NewTestLogger())

	page, err := repo.EnsurePage(context.Background(), "user-1", "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "page-1", page.ID)
}

func TestReportRepository_CategoryScoreFacts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT pr.strategy, pr.fetched_at, cs.performance").
		WithArgs("user-1", "page-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"strategy", "fetched_at", "performance", "accessibility", "best_practices", "seo",
		}).
			AddRow(models.StrategyMobile, now, 0.93, 0.88, nil, 1.0).
			AddRow(models.StrategyDesktop, now, 0.97, nil, 0.9, 1.0))

	repo := NewReportRepository(db, testhelpers.NewTestLogger())

	facts, err := repo.CategoryScoreFacts(context.Background(), "user-1", "page-1")
	require.NoError(t, err)
	require.Len(t, facts, 2)

	assert.Equal(t, models.StrategyMobile, facts[0].Group)
	assert.Equal(t, 0.93, *facts[0].Values["performance"])
	// SQL NULL comes through as a nil value, excluded from aggregates
	assert.Nil(t, facts[0].Values["best_practices"])
	assert.Nil(t, facts[1].Values["accessibility"])
}
