package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Verify  VerifyConfig  `yaml:"verify"`
	Suggest SuggestConfig `yaml:"suggest"`
	Email   EmailConfig   `yaml:"email"`
	Archive ArchiveConfig `yaml:"archive"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains Gemini settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// VerifyConfig bounds the generation used by the verification domain.
type VerifyConfig struct {
	RoastMaxTokens  int32 `yaml:"roastMaxTokens"`
	VerifyMaxTokens int32 `yaml:"verifyMaxTokens"`
}

// SuggestConfig controls activity suggestions and their cache.
type SuggestConfig struct {
	DefaultCount int           `yaml:"defaultCount"`
	CacheTTL     time.Duration `yaml:"cacheTtl"`
	Redis        RedisConfig   `yaml:"redis"`
}

// RedisConfig contains connection information for the suggestion cache.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// EmailConfig holds SendGrid credentials for the shame-report fanout.
type EmailConfig struct {
	APIKey      string `yaml:"apiKey"`
	SenderEmail string `yaml:"senderEmail"`
	SenderName  string `yaml:"senderName"`
}

// ArchiveConfig enables the optional S3-compatible photo archive.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
// A .env file next to the binary is honored for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("SENDGRID_API_KEY"); v != "" {
		cfg.Email.APIKey = v
	}
	if v := os.Getenv("SENDGRID_SENDER_EMAIL"); v != "" {
		cfg.Email.SenderEmail = v
	}
	if v := os.Getenv("SENDGRID_SENDER_NAME"); v != "" {
		cfg.Email.SenderName = v
	}
	if v := os.Getenv("SUGGEST_DEFAULT_COUNT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Suggest.DefaultCount = parsed
		}
	}
	if v := os.Getenv("SUGGEST_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Suggest.CacheTTL = parsed
		}
	}
	if v := os.Getenv("SUGGEST_REDIS_ENABLED"); v != "" {
		cfg.Suggest.Redis.Enabled = isTruthy(v)
	}
	if v := os.Getenv("SUGGEST_REDIS_ADDR"); v != "" {
		cfg.Suggest.Redis.Addr = v
	}
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		cfg.Archive.Enabled = isTruthy(v)
	}
	if v := os.Getenv("ARCHIVE_ENDPOINT"); v != "" {
		cfg.Archive.Endpoint = v
	}
	if v := os.Getenv("ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("ARCHIVE_REGION"); v != "" {
		cfg.Archive.Region = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = isTruthy(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func isTruthy(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 100,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Model:       "gemini-2.5-flash",
			Temperature: 0.9,
		},
		Verify: VerifyConfig{
			RoastMaxTokens:  300,
			VerifyMaxTokens: 800,
		},
		Suggest: SuggestConfig{
			DefaultCount: 5,
			CacheTTL:     time.Hour,
		},
		Email: EmailConfig{
			SenderName: "GoTouchGrass",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Verify.RoastMaxTokens <= 0 {
		return errors.New("verify.roastMaxTokens must be positive")
	}
	if c.Verify.VerifyMaxTokens <= 0 {
		return errors.New("verify.verifyMaxTokens must be positive")
	}
	if c.Suggest.DefaultCount <= 0 {
		return errors.New("suggest.defaultCount must be positive")
	}
	if c.Suggest.CacheTTL < 0 {
		return errors.New("suggest.cacheTtl cannot be negative")
	}
	if c.Suggest.Redis.Enabled && strings.TrimSpace(c.Suggest.Redis.Addr) == "" {
		return errors.New("suggest.redis.addr cannot be empty when the cache is enabled")
	}
	if c.Archive.Enabled {
		if strings.TrimSpace(c.Archive.Endpoint) == "" {
			return errors.New("archive.endpoint cannot be empty when the archive is enabled")
		}
		if strings.TrimSpace(c.Archive.Bucket) == "" {
			return errors.New("archive.bucket cannot be empty when the archive is enabled")
		}
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}
