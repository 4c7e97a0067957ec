// internal/infra/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMemory    = "memory"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port string

	// Product store
	StoreBackend      string
	DatabaseURL       string
	DatabaseURLSecret string // projects/<p>/secrets/<s>/versions/<v>（指定時は DatabaseURL より優先）
	SQLitePath        string

	// Firestore / GCP
	FirestoreProjectID       string
	FirestoreCredentialsFile string

	// Cart cache
	CartTTL           time.Duration
	CartSweepInterval time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string

	// Optional catalog seeding at boot (file path or gs://bucket/object)
	CatalogURI string
}

// Load は環境変数を読み込み Config を返します。
func Load() (*Config, error) {
	defaultProject := getenvDefault("GCP_PROJECT_ID", "")

	ttl, err := getenvDuration("CART_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}
	sweep, err := getenvDuration("CART_SWEEP_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port: getenvDefault("PORT", "8080"),

		StoreBackend:      strings.ToLower(getenvDefault("STORE_BACKEND", BackendMemory)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DatabaseURLSecret: os.Getenv("DATABASE_URL_SECRET"),
		SQLitePath:        getenvDefault("SQLITE_PATH", "shopcart.db"),

		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),

		CartTTL:           ttl,
		CartSweepInterval: sweep,

		LogLevel:  strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getenvDefault("LOG_FORMAT", "json")),

		CORSAllowedOrigins: splitList(getenvDefault("CORS_ALLOWED_ORIGINS", "*")),

		CatalogURI: os.Getenv("CATALOG_URI"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports inconsistent settings.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config: nil")
	}

	switch c.StoreBackend {
	case BackendMemory:
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" && strings.TrimSpace(c.DatabaseURLSecret) == "" {
			return errors.New("config: DATABASE_URL or DATABASE_URL_SECRET is required for postgres")
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("config: SQLITE_PATH is required for sqlite")
		}
	case BackendFirestore:
		if strings.TrimSpace(c.FirestoreProjectID) == "" {
			return errors.New("config: FIRESTORE_PROJECT_ID (or GCP_PROJECT_ID) is required for firestore")
		}
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.CartTTL <= 0 {
		return errors.New("config: CART_TTL must be positive")
	}

	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

// GetFirestoreProjectID は Firestore/GCP プロジェクト ID を返します。
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
