package ssllabs

import (
	"sort"
	"strings"
	"time"

	"github.com/jonesrussell/sitepulse/internal/models"
)

const vulnKeyPrefix = "vuln"

// NormalizeEndpoints fans a READY analyze response out into one deep-scan
// row per endpoint.
func NormalizeEndpoints(resp *AnalyzeResponse, scannedAt time.Time) []*models.DeepScan {
	scans := make([]*models.DeepScan, 0, len(resp.Endpoints))
	for i := range resp.Endpoints {
		scans = append(scans, normalizeEndpoint(resp.Host, &resp.Endpoints[i], scannedAt))
	}
	return scans
}

func normalizeEndpoint(host string, endpoint *Endpoint, scannedAt time.Time) *models.DeepScan {
	details := &endpoint.Details

	scan := &models.DeepScan{
		Host:               host,
		Endpoint:           endpoint.IPAddress,
		Grade:              endpoint.Grade,
		Status:             models.DeepScanStatusReady,
		Subject:            details.Cert.Subject,
		Issuer:             details.Cert.IssuerSubject,
		SerialNumber:       details.Cert.SerialNumber,
		SubjectAltNames:    strings.Join(details.Cert.AltNames, ", "),
		SignatureAlgorithm: details.Cert.SigAlg,
		PublicKeyAlgorithm: details.Key.Alg,
		OCSPURLs:           strings.Join(details.Cert.OCSPURIs, ", "),
		CRLURLs:            strings.Join(details.Cert.CRLURIs, ", "),
		HSTSEnabled:        details.HSTSPolicy.Status == hstsPresentCode,
		HSTSPreload:        details.HSTSPolicy.Preload,
		ForwardSecrecy:     details.ForwardSecrecy == forwardSecrecyCode,
		Protocols:          joinProtocols(details.Protocols),
		CipherSuites:       joinSuites(details.Suites.List),
		Vulnerabilities:    strings.Join(vulnerabilityTags(details.Raw), ", "),
		RawPayload:         models.JSONMap(details.Raw),
		ScannedAt:          scannedAt,
	}

	if details.Key.Size > 0 {
		bits := details.Key.Size
		scan.PublicKeyBits = &bits
	}
	if scan.HSTSEnabled {
		maxAge := details.HSTSPolicy.MaxAge
		scan.HSTSMaxAge = &maxAge
	}
	if details.Cert.NotBefore > 0 {
		notBefore := time.UnixMilli(details.Cert.NotBefore).UTC()
		scan.NotBefore = &notBefore
	}
	if details.Cert.NotAfter > 0 {
		notAfter := time.UnixMilli(details.Cert.NotAfter).UTC()
		scan.NotAfter = &notAfter
	}

	return scan
}

func joinProtocols(protocols []Protocol) string {
	names := make([]string, 0, len(protocols))
	for _, p := range protocols {
		names = append(names, strings.TrimSpace(p.Name+" "+p.Version))
	}
	return strings.Join(names, ", ")
}

func joinSuites(suites []Suite) string {
	names := make([]string, 0, len(suites))
	for _, s := range suites {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

// vulnerabilityTags collects every detail key prefixed "vuln" whose value is
// truthy, sorted for stable output.
func vulnerabilityTags(raw map[string]any) []string {
	var tags []string
	for key, value := range raw {
		if strings.HasPrefix(key, vulnKeyPrefix) && truthy(value) {
			tags = append(tags, key)
		}
	}
	sort.Strings(tags)
	return tags
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case nil:
		return false
	default:
		return true
	}
}
