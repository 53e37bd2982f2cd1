package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	ErrMissingDatabaseDSN = errors.New("DATABASE_URL is not set")
	ErrMissingSecretKey   = errors.New("AUTH_SECRET is not set")
	ErrLoopbackDSN        = errors.New("production DATABASE_URL points at a loopback address")
)

// Validate runs the startup preconditions. A non-nil error is a deploy-time
// misconfiguration: the caller must abort instead of serving requests.
// Transient store failures are not detected here; those belong to the
// reconnect loop in the storage manager.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return ErrMissingDatabaseDSN
	}
	if c.SecretKey == "" {
		return ErrMissingSecretKey
	}
	if c.IsProduction() && dsnTargetsLoopback(c.DatabaseDSN) {
		return fmt.Errorf("%w (host %q)", ErrLoopbackDSN, dsnHost(c.DatabaseDSN))
	}
	return nil
}

func dsnHost(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// dsnTargetsLoopback reports whether the DSN resolves to a local-only address.
// Falls back to a substring scan for DSNs the URL parser cannot handle
// (key=value style pgx connection strings).
func dsnTargetsLoopback(dsn string) bool {
	if host := dsnHost(dsn); host != "" {
		if host == "localhost" {
			return true
		}
		if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
			return true
		}
		return false
	}
	for _, sig := range []string{"localhost", "127.0.0.1", "::1"} {
		if strings.Contains(dsn, sig) {
			return true
		}
	}
	return false
}
