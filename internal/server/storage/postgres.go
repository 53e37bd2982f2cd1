package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/vkazmirchuk/authgate/internal/logging"
	"github.com/vkazmirchuk/authgate/internal/server/config"
	"github.com/vkazmirchuk/authgate/internal/server/migrations"
	"github.com/vkazmirchuk/authgate/internal/server/repositories/users"
)

// PostgresManager is the process-wide connection owner. The handle is opened
// at most once (sync.Once) and reused by every request; pgx's stdlib driver
// carries its own pool and connects lazily on first query.
type PostgresManager struct {
	dsn         string
	maxRetries  uint64
	retryDelay  time.Duration
	pingTimeout time.Duration
	logger      logging.Logger

	openOnce sync.Once
	openErr  error
	db       *sql.DB
	users    users.Repository

	// attempts counts consecutive failed connection checks; reset to zero on
	// every successful check.
	attempts atomic.Int64
}

func NewPostgresManager(cfg *config.Config, logger logging.Logger) (*PostgresManager, error) {
	m := &PostgresManager{
		dsn:         cfg.DatabaseDSN,
		maxRetries:  uint64(cfg.MaxRetries),
		retryDelay:  cfg.RetryDelay,
		pingTimeout: cfg.ConnectTimeout,
		logger:      logger.With("module", "storage"),
	}

	if err := m.open(); err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return m, nil
}

// open creates the shared handle exactly once, even under concurrent first
// access. Tests pre-seed m.db before first use to substitute a mock handle.
func (m *PostgresManager) open() error {
	m.openOnce.Do(func() {
		if m.db == nil {
			db, err := sql.Open("pgx", m.dsn)
			if err != nil {
				m.openErr = err
				return
			}
			db.SetMaxOpenConns(10)
			db.SetMaxIdleConns(10)
			db.SetConnMaxLifetime(30 * time.Minute)
			m.db = db
		}
		m.users = users.NewPostgresRepository(m.db)
	})
	return m.openErr
}

func (m *PostgresManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresManager) Users() users.Repository {
	return m.users
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and applies them
// against the shared handle.
func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	m.logger.Info(ctx, "schema migrations applied")
	return nil
}

// Close disconnects from the store. The context bounds the grace period so a
// stuck teardown cannot hold up process exit.
func (m *PostgresManager) Close(ctx context.Context) error {
	if m.db == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- m.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
		m.logger.Info(ctx, "store connection closed")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
