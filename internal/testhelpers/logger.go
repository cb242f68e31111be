// Package testhelpers provides shared helpers for tests.
package testhelpers

import (
	"github.com/jonesrussell/sitepulse/internal/logger"
)

// NewTestLogger returns a logger that discards output, for use in tests.
func NewTestLogger() logger.Logger {
	return logger.NewNop()
}
