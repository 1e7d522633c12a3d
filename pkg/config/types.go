package config

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Config is the main configuration struct, loaded from YAML and overlaid
// with env vars and flags.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Provider  ProviderConfig  `yaml:"provider"`
	Security  SecurityConfig  `yaml:"security"`
	Validate  ValidateConfig  `yaml:"validation"`
	Logging   LoggingConfig   `yaml:"logging"`
	Retention RetentionConfig `yaml:"retention"`
}

// ServerConfig holds http, tls and storage settings.
type ServerConfig struct {
	Address string    `yaml:"address"`
	Port    int       `yaml:"port"`
	DBPath  string    `yaml:"db_path"`
	TLS     TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate configuration.
type TLSConfig struct {
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

// CacheConfig is the tiered-cache policy.
type CacheConfig struct {
	// PromoteThreshold is the usage count a query must exceed before its
	// answer gets a fast-path record (default 5).
	PromoteThreshold int64 `yaml:"promote_threshold"`
	TopLimit         int   `yaml:"top_limit"`
	ContextMessages  int   `yaml:"context_messages"`
}

// ProviderConfig points at the model backend.
type ProviderConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	MaxTokens      int    `yaml:"max_tokens"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// SecurityConfig holds security related settings.
type SecurityConfig struct {
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
	IPWhitelist []string `yaml:"ip_whitelist"`
	APIKeys     struct {
		Backend     []string `yaml:"backend"`
		Frontend    []string `yaml:"frontend"`
		Admin       []string `yaml:"admin"`
		AllowUnauth bool     `yaml:"allow_unauth"`
	} `yaml:"api_keys"`
}

// ValidateConfig bounds request payloads. MaxAnswerSize takes humanized
// values like "64KB".
type ValidateConfig struct {
	MaxQueryLen   int    `yaml:"max_query_len"`
	MaxAnswerSize string `yaml:"max_answer_size"`
	MaxSessionLen int    `yaml:"max_session_len"`
}

// MaxAnswerBytes parses the humanized answer-size limit (0 when unset).
func (v ValidateConfig) MaxAnswerBytes() (int, error) {
	if v.MaxAnswerSize == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(v.MaxAnswerSize)
	if err != nil {
		return 0, fmt.Errorf("invalid max_answer_size %q: %w", v.MaxAnswerSize, err)
	}
	return int(n), nil
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// RetentionConfig drives the stale fast-path purge runner.
type RetentionConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	// Period is a Go duration; promoted records older than this are purged
	Period string `yaml:"period"`
}

// Addr returns the listen address in host:port form. An address that
// already carries a port (as ANSWERDB_ADDR does) is returned as-is.
func (c *Config) Addr() string {
	if c.Server.Address == "" && c.Server.Port == 0 {
		return ""
	}
	if strings.Contains(c.Server.Address, ":") {
		return c.Server.Address
	}
	port := c.Server.Port
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", c.Server.Address, port)
}
