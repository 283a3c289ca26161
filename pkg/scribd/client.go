package scribd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-hclog"
)

// Client holds the process-wide API configuration: the key/secret pair, the
// HTTP transport and the implicit API-account user. It is immutable after
// New and safe for concurrent use; entities created from it are not.
type Client struct {
	config   *Config
	client   *http.Client
	logger   hclog.Logger
	boundary func() string

	apiUser *User
}

// New creates a Client from cfg. Unset fields take their defaults from
// DefaultConfig.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	config := *cfg
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scribd config: %w", err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = config.NewHTTPClient()
	}

	c := &Client{
		config:   &config,
		client:   httpClient,
		logger:   config.Logger.Named("scribd"),
		boundary: newBoundary,
	}
	c.apiUser = newUser(c, nil)
	return c, nil
}

// APIUser returns the user that registered the API account. It carries no
// session key and no resource fields; its documents are those uploaded with
// the API account itself.
func (c *Client) APIUser() *User {
	return c.apiUser
}

// VirtualUser returns a virtual user within the API account. Every call with
// the same id refers to the same virtual user. The id must not be empty.
func (c *Client) VirtualUser(id string) (*VirtualUser, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: virtual user id must not be empty", ErrInvalidArgument)
	}
	u := newUser(c, nil)
	u.externalID = id
	return &VirtualUser{User: u}, nil
}

// Login signs the given user in and returns the corresponding User.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	root, err := c.SendRequest(ctx, "user.login", Fields{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	return newUser(c, root), nil
}

// Signup creates a new user and returns it already logged in. name is
// optional.
func (c *Client) Signup(ctx context.Context, username, password, email, name string) (*User, error) {
	fields := Fields{
		"username": username,
		"password": password,
		"email":    email,
	}
	if name != "" {
		fields["name"] = name
	}

	root, err := c.SendRequest(ctx, "user.signup", fields)
	if err != nil {
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}
	return newUser(c, root), nil
}

// Find searches public documents. Unless opts.Scope is set the scope is
// "all" and the returned documents are owned by the API user.
func (c *Client) Find(ctx context.Context, query string, opts SearchOptions) ([]*Document, error) {
	if opts.Scope == "" {
		opts.Scope = ScopeAll
	}
	return c.apiUser.Search(ctx, query, opts)
}

// FindAll is the paging counterpart of Find.
func (c *Client) FindAll(query string, opts SearchOptions) *DocumentIterator {
	if opts.Scope == "" {
		opts.Scope = ScopeAll
	}
	return c.apiUser.SearchAll(query, opts)
}
