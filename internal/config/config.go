package config

import (
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Relay    RelayConfig    `yaml:"relay"`
	Media    MediaConfig    `yaml:"media"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`

	// RateLimitPerMinute caps requests per client IP. 0 disables limiting.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"300"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"false"`
	MigrationsDir   string        `yaml:"migrations_dir"     env:"DATABASE_MIGRATIONS_DIR"     env-default:"./migrations"`
}

// AuthConfig holds settings for verifying identity-provider tokens.
// The provider signs session tokens; the backend only verifies them and
// consumes the subject claim as the stable user identity.
type AuthConfig struct {
	TokenSecret string `yaml:"token_secret" env:"AUTH_TOKEN_SECRET" env-required:"true"`
	Issuer      string `yaml:"issuer"       env:"AUTH_ISSUER"       env-default:"devverse"`
}

// RelayConfig holds realtime relay settings.
type RelayConfig struct {
	// AllowedOrigins restricts the websocket handshake. Comma-separated;
	// "*" allows any origin (development only).
	AllowedOrigins string `yaml:"allowed_origins" env:"RELAY_ALLOWED_ORIGINS" env-default:"*"`

	// StoreTimeout bounds each message/notification store round-trip made
	// while handling a relay event. Timeout is treated as a persistence
	// failure for that event.
	StoreTimeout time.Duration `yaml:"store_timeout" env:"RELAY_STORE_TIMEOUT" env-default:"5s"`

	// WriteTimeout bounds a single push to one client connection.
	WriteTimeout time.Duration `yaml:"write_timeout" env:"RELAY_WRITE_TIMEOUT" env-default:"10s"`
}

// MediaConfig holds Cloudinary upload settings.
type MediaConfig struct {
	CloudinaryURL string `yaml:"cloudinary_url" env:"CLOUDINARY_URL"`
	UploadFolder  string `yaml:"upload_folder"  env:"MEDIA_UPLOAD_FOLDER" env-default:"devverse_posts"`
	MaxUploadSize int64  `yaml:"max_upload_size" env:"MEDIA_MAX_UPLOAD_SIZE" env-default:"8388608"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// OriginList splits AllowedOrigins into trimmed entries.
func (c RelayConfig) OriginList() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
