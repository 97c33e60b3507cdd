// Package kvstore isolates the device-local key/value storage used for the
// last-known location, the analysis history, the UI language, and the auth
// flag. The storage medium is swappable so tests run against memory and
// shared-kiosk deployments can point at postgres or redis.
package kvstore

import (
	"context"

	"github.com/rotisserie/eris"
)

// Store is the persistence contract for process-wide client state.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Well-known keys. Each has a single writer per event; last writer wins.
const (
	KeyLastLocation = "agrisense:last_location"
	KeyHistory      = "agrisense:history"
	KeyLanguage     = "agrisense:language"
	KeyAuth         = "agrisense:auth"
)

// Config selects and configures a backend.
type Config struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// Open creates a Store for the configured driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "agrisense.db"
		}
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, cfg.DSN)
	case "redis":
		return NewRedis(cfg.DSN)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, eris.Errorf("kvstore: unknown driver %q", cfg.Driver)
	}
}
