package scribd

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-hclog"
	httptrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/net/http"
)

const (
	// DefaultEndpoint is the Scribd HTTP API request URL.
	DefaultEndpoint = "http://api.scribd.com/api"

	// DefaultSiteURL is the base of public document links.
	DefaultSiteURL = "http://www.scribd.com"

	// DefaultRetryWindow bounds the time spent retrying transient failures,
	// measured from the first attempt.
	DefaultRetryWindow = 10 * time.Second
)

// Config contains configuration for a Client.
//
// Example configuration (HCL):
//
//	api_key    = "..."
//	api_secret = env("SCRIBD_API_SECRET")
//	endpoint   = "http://api.scribd.com/api"
type Config struct {
	// APIKey and APISecret are given by Scribd after registering for an API
	// account. Both are required before any request is sent.
	APIKey    string `hcl:"api_key,optional" json:"apiKey"`
	APISecret string `hcl:"api_secret,optional" json:"-"` // Never marshal the secret

	// Endpoint is the API request URL.
	// Default: DefaultEndpoint
	Endpoint string `hcl:"endpoint,optional" json:"endpoint,omitempty"`

	// SiteURL is the base URL used by Document.PublicURL.
	// Default: DefaultSiteURL
	SiteURL string `hcl:"site_url,optional" json:"siteUrl,omitempty"`

	// Timeout for a single HTTP round trip.
	// Default: 60 seconds
	Timeout time.Duration `json:"timeout,omitempty"`

	// RetryWindow for transport failures and HTTP 500 responses.
	// Default: 10 seconds
	RetryWindow time.Duration `json:"retryWindow,omitempty"`

	// RetryInterval is the initial delay between retries.
	// Default: 100 milliseconds
	RetryInterval time.Duration `json:"retryInterval,omitempty"`

	// TLSVerify controls TLS certificate verification for https endpoints.
	TLSVerify *bool `json:"tlsVerify,omitempty"`

	// Trace wraps the HTTP client with Datadog APM tracing.
	Trace bool `json:"trace,omitempty"`

	// Logger receives request and response debug records.
	Logger hclog.Logger `json:"-"`

	// HTTPClient overrides the client built by NewHTTPClient.
	HTTPClient *http.Client `json:"-"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		Endpoint:      DefaultEndpoint,
		SiteURL:       DefaultSiteURL,
		Timeout:       60 * time.Second,
		RetryWindow:   DefaultRetryWindow,
		RetryInterval: 100 * time.Millisecond,
		TLSVerify:     &tlsVerify,
	}
}

// applyDefaults fills every unset field from DefaultConfig.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Endpoint == "" {
		c.Endpoint = defaults.Endpoint
	}
	if c.SiteURL == "" {
		c.SiteURL = defaults.SiteURL
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.RetryWindow == 0 {
		c.RetryWindow = defaults.RetryWindow
	}
	if c.RetryInterval == 0 {
		c.RetryInterval = defaults.RetryInterval
	}
	if c.TLSVerify == nil {
		c.TLSVerify = defaults.TLSVerify
	}
	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
}

// Validate checks if the configuration is valid. The API key and secret are
// not checked here; a client without them fails each request with
// ErrNotConfigured.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required, is.URL),
		validation.Field(&c.SiteURL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.RetryWindow, validation.Min(time.Duration(0))),
		validation.Field(&c.RetryInterval, validation.Min(time.Duration(0))),
	)
}

// Configured reports whether both the API key and secret are set.
func (c *Config) Configured() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// NewHTTPClient creates a configured HTTP client for the API.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}

	// Configure TLS verification
	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	client := &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
	if c.Trace {
		client = httptrace.WrapClient(client,
			httptrace.RTWithServiceName("scribd-client"),
			httptrace.RTWithResourceNamer(func(req *http.Request) string {
				return fmt.Sprintf("%s %s", req.Method, req.URL.Path)
			}),
		)
	}
	return client
}
