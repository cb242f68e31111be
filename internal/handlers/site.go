package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/sitepulse/internal/events"
	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/metadata"
	"github.com/jonesrussell/sitepulse/internal/models"
)

type siteStore interface {
	Create(ctx context.Context, site *models.Site) error
	GetByID(ctx context.Context, userID, id string) (*models.Site, error)
	List(ctx context.Context, userID string) ([]models.Site, error)
	Update(ctx context.Context, site *models.Site) error
	Delete(ctx context.Context, userID, id string) error
}

type metadataExtractor interface {
	Extract(ctx context.Context, siteURL string) (*metadata.SiteMetadata, error)
}

type SiteHandler struct {
	sites     siteStore
	extractor metadataExtractor
	publisher *events.Publisher
	logger    logger.Logger
}

func NewSiteHandler(sites siteStore, extractor metadataExtractor, publisher *events.Publisher, log logger.Logger) *SiteHandler {
	return &SiteHandler{
		sites:     sites,
		extractor: extractor,
		publisher: publisher,
		logger:    log,
	}
}

type createSiteRequest struct {
	URL         string `json:"url" binding:"required"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (h *SiteHandler) Create(c *gin.Context) {
	var req createSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Invalid request body",
			logger.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	site := models.Site{
		UserID:      userID(c),
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
	}

	// Best-effort prefill: an unreachable page never blocks registration.
	if site.Title == "" {
		if meta, err := h.extractor.Extract(c.Request.Context(), site.URL); err == nil {
			site.Title = meta.Title
			if site.Description == "" {
				site.Description = meta.Description
			}
		}
	}

	if err := h.sites.Create(c.Request.Context(), &site); err != nil {
		h.logger.Error("Failed to create site",
			logger.String("url", site.URL),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create site"})
		return
	}

	h.logger.Info("Site created",
		logger.String("site_id", site.ID),
		logger.String("url", site.URL),
	)
	h.publisher.PublishAsync(events.CheckEvent{
		EventType: events.EventSiteCreated,
		UserID:    site.UserID,
		SiteID:    site.ID,
	})

	c.JSON(http.StatusCreated, site)
}

func (h *SiteHandler) GetByID(c *gin.Context) {
	id := c.Param("id")

	site, err := h.sites.GetByID(c.Request.Context(), userID(c), id)
	if err != nil {
		h.logger.Debug("Site not found",
			logger.String("site_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	}

	c.JSON(http.StatusOK, site)
}

func (h *SiteHandler) List(c *gin.Context) {
	sites, err := h.sites.List(c.Request.Context(), userID(c))
	if err != nil {
		h.logger.Error("Failed to list sites",
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list sites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sites": sites,
		"count": len(sites),
	})
}

func (h *SiteHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req createSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	site, err := h.sites.GetByID(c.Request.Context(), userID(c), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Site not found"})
		return
	}

	site.URL = req.URL
	site.Title = req.Title
	site.Description = req.Description

	if err = h.sites.Update(c.Request.Context(), site); err != nil {
		h.logger.Error("Failed to update site",
			logger.String("site_id", id),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update site"})
		return
	}

	c.JSON(http.StatusOK, site)
}

func (h *SiteHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.sites.Delete(c.Request.Context(), userID(c), id); err != nil {
		h.logger.Error("Failed to delete site",
			logger.String("site_id", id),
			logger.Error(err),
		)
		respondError(c, err)
		return
	}

	h.logger.Info("Site deleted",
		logger.String("site_id", id),
	)
	h.publisher.PublishAsync(events.CheckEvent{
		EventType: events.EventSiteDeleted,
		UserID:    userID(c),
		SiteID:    id,
	})

	c.JSON(http.StatusNoContent, nil)
}

// Metadata prefills title and description for the site create form.
func (h *SiteHandler) Metadata(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing url parameter"})
		return
	}

	meta, err := h.extractor.Extract(c.Request.Context(), rawURL)
	if err != nil {
		h.logger.Debug("Metadata extraction failed",
			logger.String("url", rawURL),
			logger.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to extract metadata", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, meta)
}
