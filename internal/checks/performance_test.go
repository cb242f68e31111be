package checks

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sitepulse/internal/apperrors"
	"github.com/jonesrussell/sitepulse/internal/metrics"
	"github.com/jonesrussell/sitepulse/internal/models"
	"github.com/jonesrussell/sitepulse/internal/providers/pagespeed"
	"github.com/jonesrussell/sitepulse/internal/testhelpers"
)

type fakeCredentials struct {
	key      string
	err      error
	getCalls int
}

func (f *fakeCredentials) Get(context.Context, string, string) (string, error) {
	f.getCalls++
	return f.key, f.err
}

type fakeFetcher struct {
	failOn  string
	failErr error
	calls   []string
}

func (f *fakeFetcher) Fetch(_ context.Context, _, _, strategy string) (*pagespeed.Report, error) {
	f.calls = append(f.calls, strategy)
	if strategy == f.failOn {
		return nil, f.failErr
	}
	return &pagespeed.Report{}, nil
}

type fakeReportStore struct {
	pages  int
	groups []*models.ReportGroup
}

func (f *fakeReportStore) EnsurePage(_ context.Context, userID, url string) (*models.Page, error) {
	f.pages++
	return &models.Page{ID: "page-1", UserID: userID, URL: url}, nil
}

func (f *fakeReportStore) SaveGroup(_ context.Context, group *models.ReportGroup) error {
	f.groups = append(f.groups, group)
	return nil
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func TestPerformanceRun(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := &fakeReportStore{}
	svc := NewPerformanceService(
		&fakeCredentials{key: "test-key"},
		fetcher, store, newTestMetrics(), testhelpers.NewTestLogger(),
	)

	group, err := svc.Run(context.Background(), "user-1", "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{models.StrategyMobile, models.StrategyDesktop}, fetcher.calls)
	require.Len(t, group.Reports, 2)
	assert.Equal(t, models.StrategyMobile, group.Reports[0].Strategy)
	assert.Equal(t, models.StrategyDesktop, group.Reports[1].Strategy)
	assert.Equal(t, "page-1", group.PageID)
	assert.WithinDuration(t, time.Now(), group.FetchedAt, 5*time.Second)

	require.Len(t, store.groups, 1)
	assert.Equal(t, 1, store.pages)
}

func TestPerformanceRun_MobileFailureAbortsGroup(t *testing.T) {
	fetcher := &fakeFetcher{
		failOn:  models.StrategyMobile,
		failErr: apperrors.HTTPStatus(apperrors.KindQuotaExceeded, 429, "quota"),
	}
	store := &fakeReportStore{}
	svc := NewPerformanceService(
		&fakeCredentials{key: "test-key"},
		fetcher, store, newTestMetrics(), testhelpers.NewTestLogger(),
	)

	_, err := svc.Run(context.Background(), "user-1", "https://example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindQuotaExceeded))

	// desktop never attempted, nothing persisted
	assert.Equal(t, []string{models.StrategyMobile}, fetcher.calls)
	assert.Zero(t, store.pages)
	assert.Empty(t, store.groups)
}

func TestPerformanceRun_DesktopFailureAbortsGroup(t *testing.T) {
	fetcher := &fakeFetcher{
		failOn:  models.StrategyDesktop,
		failErr: apperrors.HTTPStatus(apperrors.KindProviderError, 500, "boom"),
	}
	store := &fakeReportStore{}
	svc := NewPerformanceService(
		&fakeCredentials{key: "test-key"},
		fetcher, store, newTestMetrics(), testhelpers.NewTestLogger(),
	)

	_, err := svc.Run(context.Background(), "user-1", "https://example.com")
	require.Error(t, err)
	assert.Zero(t, store.pages)
	assert.Empty(t, store.groups)
}

func TestPerformanceRun_CredentialMissing(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewPerformanceService(
		&fakeCredentials{err: apperrors.New(apperrors.KindCredentialMissing, "no credential configured")},
		fetcher, &fakeReportStore{}, newTestMetrics(), testhelpers.NewTestLogger(),
	)

	_, err := svc.Run(context.Background(), "user-1", "https://example.com")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindCredentialMissing))
	assert.Empty(t, fetcher.calls)
}
