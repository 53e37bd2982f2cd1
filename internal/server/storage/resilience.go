package storage

import (
	"context"
	"strings"

	"github.com/sethvargo/go-retry"
)

// EnsureConnection pings the store, retrying transient failures with a fixed
// delay up to maxRetries. It returns true once a ping succeeds and false when
// the bound is exhausted; it never panics or returns an error upward. Each
// failed attempt is logged with its running count, and a success that follows
// failures is logged as a recovery.
func (m *PostgresManager) EnsureConnection(ctx context.Context) bool {
	if err := m.open(); err != nil {
		m.logger.Error(ctx, "store handle unavailable", "error", err)
		return false
	}

	failures := 0

	b := retry.WithMaxRetries(m.maxRetries, retry.NewConstant(m.retryDelay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, m.pingTimeout)
		defer cancel()

		if err := m.db.PingContext(pingCtx); err != nil {
			failures++
			total := m.attempts.Add(1)
			m.logger.Error(ctx, "store connection failed",
				"attempt", total,
				"max_retries", m.maxRetries,
				"error", err)
			if hasLoopbackSignature(err.Error()) || hasLoopbackSignature(m.dsn) {
				m.logger.Error(ctx, "store target is a loopback address; outside local development this is a configuration error",
					"dsn_host_hint", "localhost/127.0.0.1")
			}
			m.logger.Info(ctx, "retrying store connection", "delay", m.retryDelay)
			return retry.RetryableError(err)
		}
		return nil
	})

	if err != nil {
		m.logger.Error(ctx, "max connection retries reached; store is unavailable",
			"attempts", m.attempts.Load(),
			"error", err)
		return false
	}

	if failures > 0 {
		m.logger.Info(ctx, "store connection restored", "failed_attempts", failures)
	}
	m.attempts.Store(0)

	return true
}

// ConnectionAttempts reports the running count of failed connection checks
// since the last success.
func (m *PostgresManager) ConnectionAttempts() int64 {
	return m.attempts.Load()
}

// hasLoopbackSignature scans free-form text (a driver error or a DSN) for
// local-only address markers.
func hasLoopbackSignature(s string) bool {
	for _, sig := range []string{"localhost", "127.0.0.1", "::1"} {
		if strings.Contains(s, sig) {
			return true
		}
	}
	return false
}
