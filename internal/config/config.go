package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration, parsed once at process start
// and passed to constructors.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	// Service-to-service authentication.
	APIKey string `env:"API_KEY,required"`

	Security  Security `envPrefix:""`
	Postgres  Postgres `envPrefix:"POSTGRES_"`
	Mongo     Mongo    `envPrefix:"MONGO_"`
	RedisAddr string   `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	SMTP      SMTP     `envPrefix:"SMTP_"`
	OpenAI    OpenAI   `envPrefix:"OPENAI_"`

	CORSOrigins        []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	EnableQuickTest    bool     `env:"ENABLE_QUICK_TEST" envDefault:"false"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`

	RecommendationTimeoutSeconds int `env:"RECOMMENDATION_TIMEOUT_SECONDS" envDefault:"120"`
}

// Security holds token and credential parameters.
type Security struct {
	SecretKey                     string `env:"SECRET_KEY,required"`
	JWTAlgorithm                  string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes      int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	RefreshTokenExpireDays        int    `env:"REFRESH_TOKEN_EXPIRE_DAYS" envDefault:"7"`
	VerificationCodeExpireMinutes int    `env:"VERIFICATION_CODE_EXPIRE_MINUTES" envDefault:"15"`

	// When true, login is rejected until the email address is verified.
	RequireEmailVerification bool `env:"REQUIRE_EMAIL_VERIFICATION" envDefault:"false"`
}

// Postgres holds relational store connection parameters.
type Postgres struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER,required"`
	Password string `env:"PASSWORD,required"`
	DBName   string `env:"DB,required"`
}

// Mongo holds content store connection parameters.
type Mongo struct {
	URL string `env:"URL,required"`
	DB  string `env:"DB" envDefault:"assessment"`
}

// SMTP holds outbound email parameters. Host left empty disables sending.
type SMTP struct {
	Host      string `env:"HOST"`
	Port      int    `env:"PORT" envDefault:"587"`
	User      string `env:"USER"`
	Password  string `env:"PASSWORD"`
	FromEmail string `env:"FROM_EMAIL"`
	FromName  string `env:"FROM_NAME" envDefault:"LearnHub LMS"`
}

// OpenAI holds LLM API parameters for recommendation generation.
type OpenAI struct {
	APIKey          string `env:"API_KEY,required"`
	Model           string `env:"MODEL" envDefault:"gpt-4o-mini"`
	MaxTokens       int    `env:"MAX_TOKENS" envDefault:"4000"`
	ReasoningEffort string `env:"REASONING_EFFORT" envDefault:"medium"`
	BaseURL         string `env:"BASE_URL"`
}

// Load parses configuration from environment variables. Missing required
// values are reported here so the process fails at startup, not per-request.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
