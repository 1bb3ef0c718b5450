package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultJWTSecret is used when JWT_SECRET is not provided.
// TODO: fail startup instead once every deployment sets JWT_SECRET.
const DefaultJWTSecret = "your-secret-key"

type Settings struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	Port     string `envconfig:"PORT" default:"3000"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DBDriver       string `envconfig:"DB_DRIVER" default:"postgres"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	DBMaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	DBMaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`

	JWTSecret   string `envconfig:"JWT_SECRET"`
	TokenIssuer string `envconfig:"TOKEN_ISSUER" default:"imageworld"`
	AppURL      string `envconfig:"APP_URL" default:"http://localhost:3000"`
	AvatarDir   string `envconfig:"AVATAR_DIR" default:"/tmp/imageworld-avatars"`

	AllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	BodyLimitMB    int    `envconfig:"BODY_LIMIT_MB" default:"101"`

	ArchiveBucket  string        `envconfig:"ARCHIVE_BUCKET"`
	ArchivePrefix  string        `envconfig:"ARCHIVE_PREFIX" default:"processed/"`
	ArchiveTimeout time.Duration `envconfig:"ARCHIVE_TIMEOUT" default:"50s"`

	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	insecureSecret bool
}

// Load reads an optional .env file and then the process environment.
func Load() (*Settings, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("processing env: %w", err)
	}

	if s.JWTSecret == "" {
		s.JWTSecret = DefaultJWTSecret
		s.insecureSecret = true
	}

	switch s.DBDriver {
	case "postgres":
		if s.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for driver %q", s.DBDriver)
		}
	case "sqlite":
		if s.DatabaseURL == "" {
			s.DatabaseURL = "imageworld.db"
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", s.DBDriver)
	}

	if s.BodyLimitMB <= 0 {
		return nil, fmt.Errorf("BODY_LIMIT_MB must be positive, got %d", s.BodyLimitMB)
	}

	return &s, nil
}

// UsingDefaultSecret reports whether credentials are signed with DefaultJWTSecret.
func (s *Settings) UsingDefaultSecret() bool {
	return s.insecureSecret
}

func (s *Settings) IsDevelopment() bool {
	return s.Env == "development"
}

func (s *Settings) ArchiveEnabled() bool {
	return s.ArchiveBucket != ""
}
