// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Sheets        SheetsConfig        `mapstructure:"sheets"`
	Tenants       TenantsConfig       `mapstructure:"tenants"`
	Database      DatabaseConfig      `mapstructure:"database"`
	PayFast       PayFastConfig       `mapstructure:"payfast"`
	WhatsApp      WhatsAppConfig      `mapstructure:"whatsapp"`
	Notifications NotificationConfig  `mapstructure:"notifications"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SheetsConfig describes the published-CSV data provider.
type SheetsConfig struct {
	FetchTimeout int `mapstructure:"fetch_timeout"` // milliseconds
	CacheTTL     int `mapstructure:"cache_ttl"`     // seconds, 0 disables the Redis cache
	// SnapshotMaxAge bounds how long a parsed snapshot is served before
	// the sheets are fetched again. Seconds; 0 refreshes on every read.
	SnapshotMaxAge int `mapstructure:"snapshot_max_age"`
}

// TenantsConfig controls tenant resolution.
type TenantsConfig struct {
	// ActiveTown, when set, overrides hostname-based resolution for the
	// whole process. Populated from the TOWN env var if present.
	ActiveTown  string `mapstructure:"active_town"`
	ConfigDir   string `mapstructure:"config_dir"`
	DefaultSlug string `mapstructure:"default_slug"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PayFastConfig holds ITN webhook verification settings.
type PayFastConfig struct {
	MerchantID  string `mapstructure:"merchant_id"`
	MerchantKey string `mapstructure:"merchant_key"`
	Passphrase  string `mapstructure:"passphrase"`
	// LedgerSheetURL, when set, also appends completed payments to the
	// spreadsheet web-app endpoint (the original payment log).
	LedgerSheetURL string `mapstructure:"ledger_sheet_url"`
}

// WhatsAppConfig holds settings for the keyword-query bot reply.
type WhatsAppConfig struct {
	Number     string `mapstructure:"number"`
	MaxResults int    `mapstructure:"max_results"`
}

// NotificationConfig holds settings for owner payment notifications.
type NotificationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		ToEmail   string `mapstructure:"to_email"`
	} `mapstructure:"email"`
	SMS struct {
		Enabled  bool   `mapstructure:"enabled"`
		ToNumber string `mapstructure:"to_number"`
	} `mapstructure:"sms"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

// ObservabilityConfig holds tracing settings. Tracing is disabled when
// the Jaeger endpoint is empty.
type ObservabilityConfig struct {
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
