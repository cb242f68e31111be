package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/secrets"
)

type credentialStore interface {
	Set(ctx context.Context, userID, service, apiKey string) error
	Delete(ctx context.Context, userID, service string) error
}

// CredentialHandler manages per-user provider API keys. Keys are write-only
// over HTTP; they are never echoed back.
type CredentialHandler struct {
	store  credentialStore
	logger logger.Logger
}

func NewCredentialHandler(store credentialStore, log logger.Logger) *CredentialHandler {
	return &CredentialHandler{
		store:  store,
		logger: log,
	}
}

var knownServices = map[string]bool{
	secrets.ServicePerformanceAudit: true,
	secrets.ServiceUptimeMonitor:    true,
}

type putCredentialRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

func (h *CredentialHandler) Put(c *gin.Context) {
	service := c.Param("service")
	if !knownServices[service] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown service", "service": service})
		return
	}

	var req putCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.store.Set(c.Request.Context(), userID(c), service, req.APIKey); err != nil {
		h.logger.Error("Failed to store credential",
			logger.String("service", service),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store credential"})
		return
	}

	h.logger.Info("Credential stored",
		logger.String("service", service),
	)
	c.JSON(http.StatusNoContent, nil)
}

func (h *CredentialHandler) Delete(c *gin.Context) {
	service := c.Param("service")
	if !knownServices[service] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown service", "service": service})
		return
	}

	if err := h.store.Delete(c.Request.Context(), userID(c), service); err != nil {
		h.logger.Error("Failed to delete credential",
			logger.String("service", service),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete credential"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
