package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/sitepulse/internal/apperrors"
	"github.com/jonesrussell/sitepulse/internal/repository"
)

// respondError maps a classified failure onto an HTTP status and a stable
// machine-readable code, so clients can tell a missing credential from a
// provider rejection from an unreachable provider.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	kind := apperrors.KindOf(err)
	status := statusForKind(kind)

	body := gin.H{"error": err.Error()}
	if kind != "" {
		body["code"] = string(kind)
	}
	c.JSON(status, body)
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindCredentialMissing:
		return http.StatusUnprocessableEntity
	case apperrors.KindQuotaExceeded:
		return http.StatusTooManyRequests
	case apperrors.KindCredentialInvalid, apperrors.KindProviderError,
		apperrors.KindTransportError, apperrors.KindParseError:
		return http.StatusBadGateway
	case apperrors.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
