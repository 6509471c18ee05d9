package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	_ "github.com/joho/godotenv/autoload"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port     string `env:"PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
	// LogFormat is "text" or "json".
	LogFormat string `env:"LOG_FORMAT,default=text"`
	MediaDir  string `env:"MEDIA_DIR,default=./media"`
	SeedFile  string `env:"SEED_FILE"`

	Database Database
	Auth     Auth
	Mail     Mail
	Twilio   Twilio
}

type Database struct {
	Host     string `env:"DB_HOST,default=localhost"`
	Port     string `env:"DB_PORT,default=5432"`
	User     string `env:"DB_USER,default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME,default=blogicum"`
	SSLMode  string `env:"DB_SSLMODE,default=disable"`
}

// DSN returns the key/value connection string understood by pgx.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

type Auth struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"JWT_TTL,default=72h"`
	// Requests per second allowed per client on /auth endpoints.
	RateLimit int `env:"AUTH_RATE_LIMIT,default=5"`
	RateBurst int `env:"AUTH_RATE_BURST,default=10"`
}

type Mail struct {
	From     string `env:"MAIL_FROM,default=blogicum@ya.ru"`
	Host     string `env:"SMTP_HOST"`
	Port     string `env:"SMTP_PORT,default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
}

// Enabled reports whether an SMTP relay is configured.
func (m Mail) Enabled() bool { return m.Host != "" }

type Twilio struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	From       string `env:"TWILIO_FROM"`
	// Comma separated list of phone numbers alerted on new comments.
	AlertTo string `env:"TWILIO_ALERT_TO"`
}

func (t Twilio) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.From != "" && t.AlertTo != ""
}

func (t Twilio) Recipients() []string {
	var out []string
	for _, n := range strings.Split(t.AlertTo, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// Load decodes the process environment (and .env, if present) into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("unsupported LOG_FORMAT %q", cfg.LogFormat)
	}

	return &cfg, nil
}
