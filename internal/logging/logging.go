// Package logging configures the process-wide structured logger.
package logging

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// New builds the root logger at the given verbosity. Unknown levels fall
// back to info. STARKBOT_LOG_LEVEL overrides the configured value.
func New(level string) *log.Logger {
	if env := strings.TrimSpace(os.Getenv("STARKBOT_LOG_LEVEL")); env != "" {
		level = env
	}

	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		parsed = log.InfoLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parsed,
	})
}
