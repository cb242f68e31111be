// Package certinspect performs live TLS handshakes against site hosts and
// classifies certificate risk. A failed probe is itself a result: the
// inspector never returns an error, it records failures on the check row.
package certinspect

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/models"
)

const (
	defaultPort = "443"

	// minKeyBits is the key length below which a public key is flagged short.
	minKeyBits = 2048
)

type Inspector struct {
	timeout time.Duration
	port    string
	logger  logger.Logger
}

func NewInspector(timeout time.Duration, log logger.Logger) *Inspector {
	return &Inspector{
		timeout: timeout,
		port:    defaultPort,
		logger:  log,
	}
}

// Inspect performs one handshake against the host parsed from rawURL and
// returns a populated check. On any failure (parse, DNS, timeout, handshake)
// the check carries the failure text in Errors with structural fields empty.
func (i *Inspector) Inspect(ctx context.Context, rawURL string) *models.CertificateCheck {
	check := &models.CertificateCheck{
		CheckedAt: time.Now(),
	}

	host, err := ParseHost(rawURL)
	if err != nil {
		check.Errors = err.Error()
		return check
	}
	check.Host = host

	dialer := &net.Dialer{Timeout: i.timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, i.port))
	if err != nil {
		i.logger.Debug("TLS probe connection failed",
			logger.String("host", host),
			logger.Error(err),
		)
		check.Errors = err.Error()
		return check
	}
	defer netConn.Close()

	conn := tls.Client(netConn, &tls.Config{
		ServerName: host,
		// The probe inspects whatever the host presents; verification
		// failures are classified from the extracted fields instead.
		InsecureSkipVerify: true, //nolint:gosec
	})
	_ = conn.SetDeadline(time.Now().Add(i.timeout))

	if err = conn.HandshakeContext(ctx); err != nil {
		i.logger.Debug("TLS handshake failed",
			logger.String("host", host),
			logger.Error(err),
		)
		check.Errors = err.Error()
		return check
	}
	defer conn.Close()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		check.Errors = "no peer certificate presented"
		return check
	}

	i.fill(check, certs[0])
	return check
}

// ParseHost extracts the bare hostname from a site URL: scheme, path and any
// explicit port are stripped.
func ParseHost(rawURL string) (string, error) {
	raw := strings.TrimSpace(rawURL)
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse site URL: %w", err)
	}

	host := parsed.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in URL %q", rawURL)
	}
	return host, nil
}

func (i *Inspector) fill(check *models.CertificateCheck, cert *x509.Certificate) {
	check.Subject = cert.Subject.String()
	check.Issuer = cert.Issuer.String()
	check.SerialNumber = fmt.Sprintf("%X", cert.SerialNumber)
	check.Version = cert.Version
	notBefore := cert.NotBefore
	notAfter := cert.NotAfter
	check.NotBefore = &notBefore
	check.NotAfter = &notAfter
	check.SubjectAltNames = strings.Join(cert.DNSNames, ", ")
	check.SignatureAlgorithm = cert.SignatureAlgorithm.String()
	check.PublicKeyAlgorithm = cert.PublicKeyAlgorithm.String()
	check.OCSPURLs = strings.Join(cert.OCSPServer, ", ")
	check.CRLURLs = strings.Join(cert.CRLDistributionPoints, ", ")
	check.RawCertificate = cert.Raw

	if bits := publicKeyBits(cert); bits > 0 {
		check.PublicKeyBits = &bits
	}

	var warnings []string

	// Exact string comparison of the formatted names. DN field ordering
	// differences between encodings can defeat it.
	if check.Subject == check.Issuer {
		check.IsSelfSigned = true
		warnings = append(warnings, "certificate is self-signed")
	}
	if cert.NotAfter.Before(time.Now()) {
		check.IsExpired = true
		warnings = append(warnings, fmt.Sprintf("certificate expired on %s", cert.NotAfter.Format("2006-01-02")))
	}
	if strings.Contains(strings.ToLower(check.SignatureAlgorithm), "sha1") {
		check.IsWeakSignature = true
		warnings = append(warnings, fmt.Sprintf("weak signature algorithm %s", check.SignatureAlgorithm))
	}
	if check.PublicKeyBits != nil && *check.PublicKeyBits < minKeyBits {
		check.IsShortKey = true
		warnings = append(warnings, fmt.Sprintf("public key is only %d bits", *check.PublicKeyBits))
	}

	check.Warnings = strings.Join(warnings, "; ")
}

func publicKeyBits(cert *x509.Certificate) int {
	switch key := cert.PublicKey.(type) {
	case *rsa.PublicKey:
		return key.N.BitLen()
	case *ecdsa.PublicKey:
		return key.Curve.Params().BitSize
	case ed25519.PublicKey:
		return len(key) * 8
	default:
		return 0
	}
}
