package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/sitepulse/internal/logger"
	"github.com/jonesrussell/sitepulse/internal/models"
)

type CertificateRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewCertificateRepository(db *sql.DB, log logger.Logger) *CertificateRepository {
	return &CertificateRepository{
		db:     db,
		logger: log,
	}
}

func (r *CertificateRepository) Create(ctx context.Context, check *models.CertificateCheck) error {
	check.ID = uuid.New().String()
	if check.CheckedAt.IsZero() {
		check.CheckedAt = time.Now()
	}

	query := `
		INSERT INTO certificate_checks (
			id, user_id, site_id, host, subject, issuer, serial_number, version,
			not_before, not_after, subject_alt_names, signature_algorithm,
			public_key_algorithm, public_key_bits, ocsp_urls, crl_urls,
			is_self_signed, is_expired, is_weak_signature, is_short_key,
			warnings, errors, raw_certificate, checked_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		          $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
	`

	_, err := r.db.ExecContext(ctx,
		query,
		check.ID,
		check.UserID,
		check.SiteID,
		check.Host,
		check.Subject,
		check.Issuer,
		check.SerialNumber,
		check.Version,
		check.NotBefore,
		check.NotAfter,
		check.SubjectAltNames,
		check.SignatureAlgorithm,
		check.PublicKeyAlgorithm,
		check.PublicKeyBits,
		check.OCSPURLs,
		check.CRLURLs,
		check.IsSelfSigned,
		check.IsExpired,
		check.IsWeakSignature,
		check.IsShortKey,
		check.Warnings,
		check.Errors,
		check.RawCertificate,
		check.CheckedAt,
	)

	if err != nil {
		return fmt.Errorf("insert certificate check: %w", err)
	}

	return nil
}

// ListBySite returns certificate checks for a site, newest first.
func (r *CertificateRepository) ListBySite(ctx context.Context, userID, siteID string, limit int) ([]models.CertificateCheck, error) {
	query := `
		SELECT id, user_id, site_id, host, subject, issuer, serial_number, version,
		       not_before, not_after, subject_alt_names, signature_algorithm,
		       public_key_algorithm, public_key_bits, ocsp_urls, crl_urls,
		       is_self_signed, is_expired, is_weak_signature, is_short_key,
		       warnings, errors, raw_certificate, checked_at
		FROM certificate_checks
		WHERE user_id = $1 AND site_id = $2
		ORDER BY checked_at DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, siteID, limit)
	if err != nil {
		return nil, fmt.Errorf("query certificate checks: %w", err)
	}
	defer rows.Close()

	var checks []models.CertificateCheck
	for rows.Next() {
		var c models.CertificateCheck
		scanErr := rows.Scan(
			&c.ID, &c.UserID, &c.SiteID, &c.Host, &c.Subject, &c.Issuer,
			&c.SerialNumber, &c.Version, &c.NotBefore, &c.NotAfter,
			&c.SubjectAltNames, &c.SignatureAlgorithm, &c.PublicKeyAlgorithm,
			&c.PublicKeyBits, &c.OCSPURLs, &c.CRLURLs, &c.IsSelfSigned,
			&c.IsExpired, &c.IsWeakSignature, &c.IsShortKey, &c.Warnings,
			&c.Errors, &c.RawCertificate, &c.CheckedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("scan certificate check: %w", scanErr)
		}
		checks = append(checks, c)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate certificate checks: %w", rowsErr)
	}

	return checks, nil
}
