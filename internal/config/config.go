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
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
	Redis    RedisConfig    `yaml:"redis"`
	Visitors VisitorsConfig `yaml:"visitors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr              string        `yaml:"addr"                env:"VISITORLOG_SERVER_ADDR"                env-default:":8080"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"VISITORLOG_SERVER_READ_HEADER_TIMEOUT" env-default:"10s"`
	ReadTimeout       time.Duration `yaml:"read_timeout"        env:"VISITORLOG_SERVER_READ_TIMEOUT"        env-default:"30s"`
	WriteTimeout      time.Duration `yaml:"write_timeout"       env:"VISITORLOG_SERVER_WRITE_TIMEOUT"       env-default:"60s"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"        env:"VISITORLOG_SERVER_IDLE_TIMEOUT"        env-default:"120s"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"    env:"VISITORLOG_SERVER_SHUTDOWN_TIMEOUT"    env-default:"5s"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"VISITORLOG_DATABASE_PATH" env-default:"visitorlog.sqlite3"`
}

// AuthConfig holds token settings. An empty JWTSecret means the secret
// persisted in the database is used.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"VISITORLOG_AUTH_JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl"  env:"VISITORLOG_AUTH_TOKEN_TTL"  env-default:"168h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"VISITORLOG_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"VISITORLOG_LOG_FORMAT" env-default:"text"`
	File   string `yaml:"file"   env:"VISITORLOG_LOG_FILE"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"VISITORLOG_CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000,http://localhost:8080"`
}

// Origins returns the allowed origins as a trimmed list.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// RedisConfig holds the optional Redis connection used for the token
// revocation list. Empty URL keeps revocations in SQLite.
type RedisConfig struct {
	URL string `yaml:"url" env:"VISITORLOG_REDIS_URL"`
}

// VisitorsConfig holds visitor API behaviour switches.
type VisitorsConfig struct {
	AllowBodyOwner bool `yaml:"allow_body_owner" env:"VISITORLOG_VISITORS_ALLOW_BODY_OWNER" env-default:"false"`
}
