package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"websession/pkg/client"
	"websession/pkg/session"
)

// Config represents the main configuration structure
type Config struct {
	Target  TargetConfig  `yaml:"target"`
	Client  ClientConfig  `yaml:"client"`
	Runner  RunnerConfig  `yaml:"runner"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

type TargetConfig struct {
	BaseURL       string `yaml:"base_url" env:"WEBSESSION_BASE_URL"`
	LoginPath     string `yaml:"login_path" env:"WEBSESSION_LOGIN_PATH"`
	Username      string `yaml:"username" env:"WEBSESSION_USERNAME"`
	Password      string `yaml:"password" env:"WEBSESSION_PASSWORD"`
	SessionCookie string `yaml:"session_cookie" env:"WEBSESSION_SESSION_COOKIE"`
	CSRFField     string `yaml:"csrf_field" env:"WEBSESSION_CSRF_FIELD"`
	Strict        bool   `yaml:"strict" env:"WEBSESSION_STRICT"`
}

type ClientConfig struct {
	Timeout      time.Duration     `yaml:"timeout" env:"WEBSESSION_TIMEOUT"`
	MaxRetries   int               `yaml:"max_retries" env:"WEBSESSION_MAX_RETRIES"`
	MaxRedirects int               `yaml:"max_redirects"`
	VerifyTLS    bool              `yaml:"verify_tls" env:"WEBSESSION_VERIFY_TLS"`
	RateLimit    int               `yaml:"rate_limit" env:"WEBSESSION_RATE_LIMIT"`
	Delay        time.Duration     `yaml:"delay"`
	MaxDelay     time.Duration     `yaml:"max_delay"`
	Proxies      []string          `yaml:"proxies" env:"WEBSESSION_PROXIES" envSeparator:","`
	Headers      map[string]string `yaml:"headers"`
	UserAgents   []string          `yaml:"user_agents"`
}

type RunnerConfig struct {
	Threads int `yaml:"threads" env:"WEBSESSION_THREADS"`
}

type LoggingConfig struct {
	Level      string `yaml:"level" env:"WEBSESSION_LOG_LEVEL"`
	File       string `yaml:"file" env:"WEBSESSION_LOG_FILE"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			LoginPath:     "/accounts/login/",
			SessionCookie: "sessionid",
			CSRFField:     "csrfmiddlewaretoken",
		},
		Client: ClientConfig{
			Timeout:      30 * time.Second,
			MaxRedirects: 10,
			VerifyTLS:    true,
		},
		Runner: RunnerConfig{
			Threads: 4,
		},
		Logging: LoggingConfig{
			Level:      "warn",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of DefaultConfig.
// An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return config, nil
}

// LoadEnvFiles loads .env files into the process environment. Variables that
// are already set keep their value.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	return godotenv.Load(paths...)
}

// ApplyEnv overrides fields whose WEBSESSION_* variable is set.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// SessionConfig converts the target section.
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		BaseURL:           c.Target.BaseURL,
		LoginPath:         c.Target.LoginPath,
		Username:          c.Target.Username,
		Password:          c.Target.Password,
		SessionCookieName: c.Target.SessionCookie,
		CSRFFieldName:     c.Target.CSRFField,
		Strict:            c.Target.Strict,
	}
}

// ClientConfig converts the client section.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		Timeout:      c.Client.Timeout,
		MaxRetries:   c.Client.MaxRetries,
		MaxRedirects: c.Client.MaxRedirects,
		VerifyTLS:    c.Client.VerifyTLS,
		RateLimit:    c.Client.RateLimit,
		MinDelay:     c.Client.Delay,
		MaxDelay:     c.Client.MaxDelay,
		Proxies:      c.Client.Proxies,
		Headers:      c.Client.Headers,
		UserAgents:   c.Client.UserAgents,
	}
}
