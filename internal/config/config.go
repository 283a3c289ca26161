package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/hashicorp-forge/scribd-go/pkg/scribd"
)

// Environment variables that override the configuration file.
const (
	EnvAPIKey    = "SCRIBD_API_KEY"
	EnvAPISecret = "SCRIBD_API_SECRET"
	EnvEndpoint  = "SCRIBD_ENDPOINT"
)

// Config contains the CLI configuration.
//
// Example (scribd.hcl):
//
//	api_key    = "..."
//	api_secret = "..."
//	log_level  = "info"
//
//	http {
//	  timeout      = "30s"
//	  retry_window = "10s"
//	}
type Config struct {
	APIKey    string `hcl:"api_key,optional"`
	APISecret string `hcl:"api_secret,optional"`

	// Endpoint is the API request URL.
	Endpoint string `hcl:"endpoint,optional"`

	// SiteURL is the base of public document links.
	SiteURL string `hcl:"site_url,optional"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `hcl:"log_level,optional"`

	HTTP *HTTP `hcl:"http,block"`
}

// HTTP configures the API transport.
type HTTP struct {
	Timeout     string `hcl:"timeout,optional"`
	RetryWindow string `hcl:"retry_window,optional"`
	TLSVerify   *bool  `hcl:"tls_verify,optional"`
	Trace       bool   `hcl:"trace,optional"`
}

// Load reads the configuration file at path, if any, and applies
// environment overrides. An empty path yields a configuration built from the
// environment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}
		if err := hclsimple.DecodeFile(path, nil, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
	}

	if val, ok := os.LookupEnv(EnvAPIKey); ok && val != "" {
		cfg.APIKey = val
	}
	if val, ok := os.LookupEnv(EnvAPISecret); ok && val != "" {
		cfg.APISecret = val
	}
	if val, ok := os.LookupEnv(EnvEndpoint); ok && val != "" {
		cfg.Endpoint = val
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.APIKey == "" {
		result = multierror.Append(result,
			fmt.Errorf("api_key is required (or set %s)", EnvAPIKey))
	}
	if c.APISecret == "" {
		result = multierror.Append(result,
			fmt.Errorf("api_secret is required (or set %s)", EnvAPISecret))
	}
	if c.LogLevel != "" && hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		result = multierror.Append(result,
			fmt.Errorf("invalid log_level %q", c.LogLevel))
	}
	if c.HTTP != nil {
		if _, err := parseDuration(c.HTTP.Timeout); err != nil {
			result = multierror.Append(result, fmt.Errorf("http.timeout: %w", err))
		}
		if _, err := parseDuration(c.HTTP.RetryWindow); err != nil {
			result = multierror.Append(result, fmt.Errorf("http.retry_window: %w", err))
		}
	}

	return result.ErrorOrNil()
}

// ClientConfig converts the configuration into the library configuration.
func (c *Config) ClientConfig(logger hclog.Logger) *scribd.Config {
	cfg := &scribd.Config{
		APIKey:    c.APIKey,
		APISecret: c.APISecret,
		Endpoint:  c.Endpoint,
		SiteURL:   c.SiteURL,
		Logger:    logger,
	}
	if c.HTTP != nil {
		// Validated by Load.
		cfg.Timeout, _ = parseDuration(c.HTTP.Timeout)
		cfg.RetryWindow, _ = parseDuration(c.HTTP.RetryWindow)
		cfg.TLSVerify = c.HTTP.TLSVerify
		cfg.Trace = c.HTTP.Trace
	}
	return cfg
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative: %s", s)
	}
	return d, nil
}
