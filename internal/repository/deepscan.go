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

type DeepScanRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewDeepScanRepository(db *sql.DB, log logger.Logger) *DeepScanRepository {
	return &DeepScanRepository{
		db:     db,
		logger: log,
	}
}

// CreateBatch inserts the endpoint rows of one scan invocation.
func (r *DeepScanRepository) CreateBatch(ctx context.Context, scans []*models.DeepScan) error {
	for _, scan := range scans {
		if err := r.create(ctx, scan); err != nil {
			return err
		}
	}
	return nil
}

func (r *DeepScanRepository) create(ctx context.Context, scan *models.DeepScan) error {
	scan.ID = uuid.New().String()
	if scan.ScannedAt.IsZero() {
		scan.ScannedAt = time.Now()
	}

	query := `
		INSERT INTO deep_scans (
			id, user_id, site_id, host, endpoint, grade, status,
			subject, issuer, serial_number, not_before, not_after,
			subject_alt_names, signature_algorithm, public_key_algorithm,
			public_key_bits, ocsp_urls, crl_urls, hsts_enabled, hsts_max_age,
			hsts_preload, forward_secrecy, protocols, cipher_suites,
			vulnerabilities, raw_payload, errors, scanned_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		          $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
	`

	_, err := r.db.ExecContext(ctx,
		query,
		scan.ID,
		scan.UserID,
		scan.SiteID,
		scan.Host,
		scan.Endpoint,
		scan.Grade,
		scan.Status,
		scan.Subject,
		scan.Issuer,
		scan.SerialNumber,
		scan.NotBefore,
		scan.NotAfter,
		scan.SubjectAltNames,
		scan.SignatureAlgorithm,
		scan.PublicKeyAlgorithm,
		scan.PublicKeyBits,
		scan.OCSPURLs,
		scan.CRLURLs,
		scan.HSTSEnabled,
		scan.HSTSMaxAge,
		scan.HSTSPreload,
		scan.ForwardSecrecy,
		scan.Protocols,
		scan.CipherSuites,
		scan.Vulnerabilities,
		scan.RawPayload,
		scan.Errors,
		scan.ScannedAt,
	)

	if err != nil {
		return fmt.Errorf("insert deep scan: %w", err)
	}

	return nil
}

// ListBySite returns deep scan rows for a site, newest first.
func (r *DeepScanRepository) ListBySite(ctx context.Context, userID, siteID string, limit int) ([]models.DeepScan, error) {
	query := `
		SELECT id, user_id, site_id, host, endpoint, grade, status,
		       subject, issuer, serial_number, not_before, not_after,
		       subject_alt_names, signature_algorithm, public_key_algorithm,
		       public_key_bits, ocsp_urls, crl_urls, hsts_enabled, hsts_max_age,
		       hsts_preload, forward_secrecy, protocols, cipher_suites,
		       vulnerabilities, raw_payload, errors, scanned_at
		FROM deep_scans
		WHERE user_id = $1 AND site_id = $2
		ORDER BY scanned_at DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, siteID, limit)
	if err != nil {
		return nil, fmt.Errorf("query deep scans: %w", err)
	}
	defer rows.Close()

	var scans []models.DeepScan
	for rows.Next() {
		var s models.DeepScan
		scanErr := rows.Scan(
			&s.ID, &s.UserID, &s.SiteID, &s.Host, &s.Endpoint, &s.Grade, &s.Status,
			&s.Subject, &s.Issuer, &s.SerialNumber, &s.NotBefore, &s.NotAfter,
			&s.SubjectAltNames, &s.SignatureAlgorithm, &s.PublicKeyAlgorithm,
			&s.PublicKeyBits, &s.OCSPURLs, &s.CRLURLs, &s.HSTSEnabled, &s.HSTSMaxAge,
			&s.HSTSPreload, &s.ForwardSecrecy, &s.Protocols, &s.CipherSuites,
			&s.Vulnerabilities, &s.RawPayload, &s.Errors, &s.ScannedAt,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("scan deep scan row: %w", scanErr)
		}
		scans = append(scans, s)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate deep scans: %w", rowsErr)
	}

	return scans, nil
}
