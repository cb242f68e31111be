package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sitepulse/internal/metadata"
	"github.com/jonesrussell/sitepulse/internal/models"
	"github.com/jonesrussell/sitepulse/internal/repository"
	"github.com/jonesrussell/sitepulse/internal/testhelpers"
)

type fakeSiteStore struct {
	sites   map[string]*models.Site
	created []*models.Site
}

func newFakeSiteStore() *fakeSiteStore {
	return &fakeSiteStore{sites: make(map[string]*models.Site)}
}

func (f *fakeSiteStore) Create(_ context.Context, site *models.Site) error {
	site.ID = "site-1"
	f.sites[site.ID] = site
	f.created = append(f.created, site)
	return nil
}

func (f *fakeSiteStore) GetByID(_ context.Context, userID, id string) (*models.Site, error) {
	site, ok := f.sites[id]
	if !ok || site.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return site, nil
}

func (f *fakeSiteStore) List(_ context.Context, userID string) ([]models.Site, error) {
	var out []models.Site
	for _, site := range f.sites {
		if site.UserID == userID {
			out = append(out, *site)
		}
	}
	return out, nil
}

func (f *fakeSiteStore) Update(_ context.Context, site *models.Site) error {
	f.sites[site.ID] = site
	return nil
}

func (f *fakeSiteStore) Delete(_ context.Context, userID, id string) error {
	site, ok := f.sites[id]
	if !ok || site.UserID != userID {
		return repository.ErrNotFound
	}
	delete(f.sites, id)
	return nil
}

type fakeExtractor struct {
	meta *metadata.SiteMetadata
	err  error
}

func (f *fakeExtractor) Extract(context.Context, string) (*metadata.SiteMetadata, error) {
	return f.meta, f.err
}

func newSiteRouter(h *SiteHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/", RequireUser())
	group.POST("/sites", h.Create)
	group.GET("/sites", h.List)
	group.GET("/sites/metadata", h.Metadata)
	group.GET("/sites/:id", h.GetByID)
	group.DELETE("/sites/:id", h.Delete)
	return router
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-User-ID", "user-1")
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSiteCreate_PrefillsFromMetadata(t *testing.T) {
	store := newFakeSiteStore()
	handler := NewSiteHandler(store,
		&fakeExtractor{meta: &metadata.SiteMetadata{Title: "Example Site", Description: "A test."}},
		nil, testhelpers.NewTestLogger())

	w := doJSON(newSiteRouter(handler), http.MethodPost, "/sites", `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	require.Len(t, store.created, 1)
	assert.Equal(t, "Example Site", store.created[0].Title)
	assert.Equal(t, "A test.", store.created[0].Description)
	assert.Equal(t, "user-1", store.created[0].UserID)
}

func TestSiteCreate_ExplicitTitleWins(t *testing.T) {
	store := newFakeSiteStore()
	handler := NewSiteHandler(store,
		&fakeExtractor{meta: &metadata.SiteMetadata{Title: "Ignored"}},
		nil, testhelpers.NewTestLogger())

	w := doJSON(newSiteRouter(handler), http.MethodPost, "/sites",
		`{"url":"https://example.com","title":"My Site"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "My Site", store.created[0].Title)
}

func TestSiteCreate_UnreachablePageDoesNotBlock(t *testing.T) {
	store := newFakeSiteStore()
	handler := NewSiteHandler(store,
		&fakeExtractor{err: errors.New("connection refused")},
		nil, testhelpers.NewTestLogger())

	w := doJSON(newSiteRouter(handler), http.MethodPost, "/sites", `{"url":"https://example.com"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestSiteCreate_MissingURL(t *testing.T) {
	handler := NewSiteHandler(newFakeSiteStore(), &fakeExtractor{}, nil, testhelpers.NewTestLogger())

	w := doJSON(newSiteRouter(handler), http.MethodPost, "/sites", `{"title":"No URL"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSiteDelete_NotFound(t *testing.T) {
	handler := NewSiteHandler(newFakeSiteStore(), &fakeExtractor{}, nil, testhelpers.NewTestLogger())

	w := doJSON(newSiteRouter(handler), http.MethodDelete, "/sites/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSiteMetadata_MissingParam(t *testing.T) {
	handler := NewSiteHandler(newFakeSiteStore(), &fakeExtractor{}, nil, testhelpers.NewTestLogger())

	w := doJSON(newSiteRouter(handler), http.MethodGet, "/sites/metadata", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
