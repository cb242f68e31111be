// Package secrets provides per-user provider credentials backed by the
// user_api_keys table. Credentials are passed explicitly into acquisition
// calls; there is no ambient session context.
package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/sitepulse/internal/apperrors"
)

// Service keys for the stored credentials.
const (
	ServicePerformanceAudit = "performance-audit"
	ServiceUptimeMonitor    = "uptime-monitor"
)

// ErrCredentialMissing is returned when no non-empty credential is stored
// for the user and service.
var ErrCredentialMissing = apperrors.New(apperrors.KindCredentialMissing, "no credential configured")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the credential stored for the user and service.
func (s *Store) Get(ctx context.Context, userID, service string) (string, error) {
	var apiKey string
	err := s.db.QueryRowContext(ctx,
		`SELECT api_key FROM user_api_keys WHERE user_id = $1 AND service = $2`,
		userID, service,
	).Scan(&apiKey)

	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s credential for user %s: %w", service, userID, ErrCredentialMissing)
	}
	if err != nil {
		return "", fmt.Errorf("query credential: %w", err)
	}
	if apiKey == "" {
		return "", fmt.Errorf("%s credential for user %s is empty: %w", service, userID, ErrCredentialMissing)
	}

	return apiKey, nil
}

// Set stores or replaces the credential for the user and service.
func (s *Store) Set(ctx context.Context, userID, service, apiKey string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_api_keys (user_id, service, api_key, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (user_id, service)
		 DO UPDATE SET api_key = EXCLUDED.api_key, updated_at = EXCLUDED.updated_at`,
		userID, service, apiKey, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

// Delete removes the credential for the user and service.
func (s *Store) Delete(ctx context.Context, userID, service string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_api_keys WHERE user_id = $1 AND service = $2`,
		userID, service,
	)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
