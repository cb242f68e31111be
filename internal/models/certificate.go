package models

import "time"

// CertificateCheck is one local TLS handshake inspection result for a Site.
// A failed probe is still a row: Errors carries the failure text and the
// structural fields stay empty.
type CertificateCheck struct {
	ID                 string     `json:"id"                       db:"id"`
	UserID             string     `json:"user_id"                  db:"user_id"`
	SiteID             string     `json:"site_id"                  db:"site_id"`
	Host               string     `json:"host"                     db:"host"`
	Subject            string     `json:"subject"                  db:"subject"`
	Issuer             string     `json:"issuer"                   db:"issuer"`
	SerialNumber       string     `json:"serial_number"            db:"serial_number"`
	Version            int        `json:"version"                  db:"version"`
	NotBefore          *time.Time `json:"not_before,omitempty"     db:"not_before"`
	NotAfter           *time.Time `json:"not_after,omitempty"      db:"not_after"`
	SubjectAltNames    string     `json:"subject_alt_names"        db:"subject_alt_names"`
	SignatureAlgorithm string     `json:"signature_algorithm"      db:"signature_algorithm"`
	PublicKeyAlgorithm string     `json:"public_key_algorithm"     db:"public_key_algorithm"`
	PublicKeyBits      *int       `json:"public_key_bits,omitempty" db:"public_key_bits"`
	OCSPURLs           string     `json:"ocsp_urls"                db:"ocsp_urls"`
	CRLURLs            string     `json:"crl_urls"                 db:"crl_urls"`
	IsSelfSigned       bool       `json:"is_self_signed"           db:"is_self_signed"`
	IsExpired          bool       `json:"is_expired"               db:"is_expired"`
	IsWeakSignature    bool       `json:"is_weak_signature"        db:"is_weak_signature"`
	IsShortKey         bool       `json:"is_short_key"             db:"is_short_key"`
	Warnings           string     `json:"warnings"                 db:"warnings"`
	Errors             string     `json:"errors"                   db:"errors"`
	RawCertificate     []byte     `json:"-"                        db:"raw_certificate"`
	CheckedAt          time.Time  `json:"checked_at"               db:"checked_at"`
}
