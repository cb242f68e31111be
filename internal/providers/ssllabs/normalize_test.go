package ssllabs

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/sitepulse/internal/models"
)

const endpointJSON = `{
	"host": "example.com",
	"status": "READY",
	"endpoints": [
		{
			"ipAddress": "93.184.216.34",
			"grade": "A+",
			"details": {
				"cert": {
					"subject": "CN=example.com",
					"issuerSubject": "CN=Test CA",
					"serialNumber": "0badc0de",
					"notBefore": 1700000000000,
					"notAfter": 1800000000000,
					"altNames": ["example.com", "www.example.com"],
					"sigAlg": "SHA256withRSA",
					"ocspURIs": ["http://ocsp.test-ca.example"],
					"crlURIs": ["http://crl.test-ca.example/ca.crl", "http://crl2.test-ca.example/ca.crl"]
				},
				"key": {"alg": "RSA", "size": 2048},
				"protocols": [
					{"name": "TLS", "version": "1.2"},
					{"name": "TLS", "version": "1.3"}
				],
				"suites": {"list": [{"name": "TLS_AES_128_GCM_SHA256"}]},
				"hstsPolicy": {"status": 1, "maxAge": 31536000, "preload": true},
				"forwardSecrecy": 2,
				"vulnBeast": true,
				"vulnHeartbleed": false,
				"vulnTicketbleed": 1,
				"supportsRc4": true
			}
		}
	]
}`

func TestNormalizeEndpoints(t *testing.T) {
	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal([]byte(endpointJSON), &resp))

	now := time.Now()
	scans := NormalizeEndpoints(&resp, now)
	require.Len(t, scans, 1)

	scan := scans[0]
	assert.Equal(t, "example.com", scan.Host)
	assert.Equal(t, "93.184.216.34", scan.Endpoint)
	assert.Equal(t, "A+", scan.Grade)
	assert.Equal(t, models.DeepScanStatusReady, scan.Status)
	assert.Equal(t, "CN=example.com", scan.Subject)
	assert.Equal(t, "CN=Test CA", scan.Issuer)
	assert.Equal(t, "example.com, www.example.com", scan.SubjectAltNames)
	assert.Equal(t, "SHA256withRSA", scan.SignatureAlgorithm)
	assert.Equal(t, "RSA", scan.PublicKeyAlgorithm)
	require.NotNil(t, scan.PublicKeyBits)
	assert.Equal(t, 2048, *scan.PublicKeyBits)
	assert.Equal(t, "http://ocsp.test-ca.example", scan.OCSPURLs)
	assert.Equal(t, "http://crl.test-ca.example/ca.crl, http://crl2.test-ca.example/ca.crl", scan.CRLURLs)
	assert.Equal(t, "TLS 1.2, TLS 1.3", scan.Protocols)
	assert.Equal(t, "TLS_AES_128_GCM_SHA256", scan.CipherSuites)
	assert.Equal(t, now, scan.ScannedAt)

	require.NotNil(t, scan.NotBefore)
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), *scan.NotBefore)

	// HSTS present iff status code is 1; forward secrecy iff code is 2.
	assert.True(t, scan.HSTSEnabled)
	require.NotNil(t, scan.HSTSMaxAge)
	assert.Equal(t, int64(31536000), *scan.HSTSMaxAge)
	assert.True(t, scan.HSTSPreload)
	assert.True(t, scan.ForwardSecrecy)

	// Only truthy vuln-prefixed detail keys become tags.
	assert.Equal(t, "vulnBeast, vulnTicketbleed", scan.Vulnerabilities)

	assert.NotNil(t, scan.RawPayload)
	assert.Equal(t, true, scan.RawPayload["vulnBeast"])
}

func TestNormalizeEndpoints_SecurityCodesOff(t *testing.T) {
	resp := &AnalyzeResponse{
		Host: "example.com",
		Endpoints: []Endpoint{
			{
				IPAddress: "10.0.0.1",
				Details: EndpointDetails{
					HSTSPolicy:     HSTSPolicy{Status: 3, MaxAge: 100},
					ForwardSecrecy: 1,
				},
			},
		},
	}

	scans := NormalizeEndpoints(resp, time.Now())
	require.Len(t, scans, 1)

	assert.False(t, scans[0].HSTSEnabled)
	assert.Nil(t, scans[0].HSTSMaxAge)
	assert.Nil(t, scans[0].PublicKeyBits)
	assert.False(t, scans[0].ForwardSecrecy)
	assert.Empty(t, scans[0].Vulnerabilities)
}

func TestPending(t *testing.T) {
	for _, status := range []string{StatusStarting, StatusDNS, StatusInProgress, StatusInitializing} {
		assert.True(t, Pending(status), status)
	}
	for _, status := range []string{StatusReady, StatusError, "WEIRD"} {
		assert.False(t, Pending(status), status)
	}
}
