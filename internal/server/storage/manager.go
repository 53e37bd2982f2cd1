// Package storage owns the shared PostgreSQL handle: single-flight creation,
// health checking with bounded reconnect retries, schema migrations, and
// graceful teardown. The rest of the server reaches the datastore only
// through a Manager.
package storage

import (
	"context"
	"database/sql"

	"github.com/vkazmirchuk/authgate/internal/server/repositories/users"
)

type Manager interface {
	// EnsureConnection verifies the store is reachable, retrying transient
	// failures up to the configured bound. It reports availability instead
	// of returning an error: an unreachable store is a degraded state, not
	// a crash.
	EnsureConnection(ctx context.Context) bool

	// RunMigrations applies the embedded schema migrations.
	RunMigrations(ctx context.Context) error

	// Users returns the account repository bound to the shared handle.
	Users() users.Repository

	// Conn exposes the underlying handle for callers that need raw access.
	Conn() *sql.DB

	// Close tears the connection down, bounded by the context deadline.
	Close(ctx context.Context) error
}
