package models

import "time"

// Terminal deep-scan statuses stored on a row.
const (
	DeepScanStatusReady = "READY"
	DeepScanStatusError = "ERROR"
)

// DeepScan is one endpoint-level result of the third-party TLS assessment.
// A READY scan yields one row per resolved endpoint; a failed scan yields
// exactly one row with StatusError and the reason in Errors.
type DeepScan struct {
	ID                 string     `json:"id"                        db:"id"`
	UserID             string     `json:"user_id"                   db:"user_id"`
	SiteID             string     `json:"site_id"                   db:"site_id"`
	Host               string     `json:"host"                      db:"host"`
	Endpoint           string     `json:"endpoint"                  db:"endpoint"`
	Grade              string     `json:"grade"                     db:"grade"`
	Status             string     `json:"status"                    db:"status"`
	Subject            string     `json:"subject"                   db:"subject"`
	Issuer             string     `json:"issuer"                    db:"issuer"`
	SerialNumber       string     `json:"serial_number"             db:"serial_number"`
	NotBefore          *time.Time `json:"not_before,omitempty"      db:"not_before"`
	NotAfter           *time.Time `json:"not_after,omitempty"       db:"not_after"`
	SubjectAltNames    string     `json:"subject_alt_names"         db:"subject_alt_names"`
	SignatureAlgorithm string     `json:"signature_algorithm"       db:"signature_algorithm"`
	PublicKeyAlgorithm string     `json:"public_key_algorithm"      db:"public_key_algorithm"`
	PublicKeyBits      *int       `json:"public_key_bits,omitempty" db:"public_key_bits"`
	OCSPURLs           string     `json:"ocsp_urls"                 db:"ocsp_urls"`
	CRLURLs            string     `json:"crl_urls"                  db:"crl_urls"`
	HSTSEnabled        bool       `json:"hsts_enabled"              db:"hsts_enabled"`
	HSTSMaxAge         *int64     `json:"hsts_max_age,omitempty"    db:"hsts_max_age"`
	HSTSPreload        bool       `json:"hsts_preload"              db:"hsts_preload"`
	ForwardSecrecy     bool       `json:"forward_secrecy"           db:"forward_secrecy"`
	Protocols          string     `json:"protocols"                 db:"protocols"`
	CipherSuites       string     `json:"cipher_suites"             db:"cipher_suites"`
	Vulnerabilities    string     `json:"vulnerabilities"           db:"vulnerabilities"`
	RawPayload         JSONMap    `json:"raw_payload,omitempty"     db:"raw_payload"`
	Errors             string     `json:"errors"                    db:"errors"`
	ScannedAt          time.Time  `json:"scanned_at"                db:"scanned_at"`
}
