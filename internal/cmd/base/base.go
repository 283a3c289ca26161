package base

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"golang.org/x/term"

	"github.com/hashicorp-forge/scribd-go/internal/config"
	"github.com/hashicorp-forge/scribd-go/pkg/scribd"
)

// EnvPassword holds the password for -login in non-interactive use.
const EnvPassword = "SCRIBD_PASSWORD"

// Command is embedded by every CLI command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// ReadPassword reads a password from the terminal without echo.
	// Default: term.ReadPassword on stdin
	ReadPassword func() ([]byte, error)
}

// New returns the base command shared by all commands.
func New(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{Log: log, UI: ui}
}

// APIFlags are the flags of every command that calls the API.
type APIFlags struct {
	Config      string
	LogLevel    string
	VirtualUser string
	Login       string
	Format      string
}

// Register adds the API flags to f.
func (a *APIFlags) Register(f *FlagSet) {
	f.StringVar(&a.Config, "config", "",
		"Path to an HCL configuration file. Credentials may instead be set with "+
			config.EnvAPIKey+" and "+config.EnvAPISecret+".")
	f.StringVar(&a.LogLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error). Overrides log_level from the config file.")
	f.StringVar(&a.VirtualUser, "virtual-user", "",
		"Act as the named virtual user of the API account.")
	f.StringVar(&a.Login, "login", "",
		"Log in as the named Scribd user. The password is read from "+EnvPassword+" or prompted for.")
	f.StringVar(&a.Format, "format", "table",
		"Output format (table, json, yaml).")
}

// Validate checks flag combinations.
func (a *APIFlags) Validate() error {
	if a.VirtualUser != "" && a.Login != "" {
		return errors.New("-virtual-user and -login are mutually exclusive")
	}
	switch a.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", a.Format)
	}
	if a.LogLevel != "" && hclog.LevelFromString(a.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("invalid log level %q", a.LogLevel)
	}
	return nil
}

// Session is a connected client and the user a command acts as.
type Session struct {
	Client *scribd.Client
	User   *scribd.User

	// Virtual is set when acting as a virtual user.
	Virtual *scribd.VirtualUser
}

// Context returns a context canceled on interrupt.
func (c *Command) Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// Connect loads the configuration, creates the client and resolves the
// acting user: a virtual user, a logged-in user or the API-account user.
func (c *Command) Connect(ctx context.Context, flags *APIFlags) (*Session, error) {
	if err := flags.Validate(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(flags.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	level := cfg.LogLevel
	if flags.LogLevel != "" {
		level = flags.LogLevel
	}
	if level != "" {
		c.Log.SetLevel(hclog.LevelFromString(level))
	}

	client, err := scribd.New(cfg.ClientConfig(c.Log))
	if err != nil {
		return nil, fmt.Errorf("error creating client: %w", err)
	}

	s := &Session{Client: client, User: client.APIUser()}
	switch {
	case flags.VirtualUser != "":
		v, err := client.VirtualUser(flags.VirtualUser)
		if err != nil {
			return nil, err
		}
		s.Virtual = v
		s.User = s.Virtual.User
	case flags.Login != "":
		password, err := c.password()
		if err != nil {
			return nil, fmt.Errorf("error reading password: %w", err)
		}
		user, err := client.Login(ctx, flags.Login, password)
		if err != nil {
			return nil, err
		}
		c.Log.Debug("logged in", "user", user.ID())
		s.User = user
	}
	return s, nil
}

func (c *Command) password() (string, error) {
	if val, ok := os.LookupEnv(EnvPassword); ok && val != "" {
		return val, nil
	}

	if c.ReadPassword != nil {
		pw, err := c.ReadPassword()
		return string(pw), err
	}

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	pw, err := c.UI.AskSecret("Password:")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(pw), nil
}
