package ssllabs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sitepulse/internal/apperrors"
	"github.com/jonesrussell/sitepulse/internal/testhelpers"
)

func TestAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, "example.com", r.URL.Query().Get("host"))
		assert.Equal(t, "done", r.URL.Query().Get("all"))
		assert.Equal(t, "on", r.URL.Query().Get("fromCache"))
		assert.Equal(t, "on", r.URL.Query().Get("ignoreMismatch"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"host": "example.com",
			"status": "READY",
			"endpoints": [
				{
					"ipAddress": "93.184.216.34",
					"grade": "A+",
					"details": {
						"cert": {"subject": "CN=example.com", "sigAlg": "SHA256withRSA"},
						"protocols": [{"name": "TLS", "version": "1.3"}],
						"heartbleed": false
					}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testhelpers.NewTestLogger())
	resp, err := client.Analyze(context.Background(), "example.com")

	require.NoError(t, err)
	assert.Equal(t, StatusReady, resp.Status)
	require.Len(t, resp.Endpoints, 1)
	assert.Equal(t, "A+", resp.Endpoints[0].Grade)
	assert.Equal(t, "CN=example.com", resp.Endpoints[0].Details.Cert.Subject)
	// The raw detail map keeps keys the typed struct does not model.
	assert.Contains(t, resp.Endpoints[0].Details.Raw, "heartbleed")
}

func TestAnalyze_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, testhelpers.NewTestLogger())
	_, err := client.Analyze(context.Background(), "example.com")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindQuotaExceeded))
}

func TestAnalyze_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, time.Second, testhelpers.NewTestLogger())
	_, err := client.Analyze(context.Background(), "example.com")

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindTransportError))
}
