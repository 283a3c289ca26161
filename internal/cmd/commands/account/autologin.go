package account

import (
	"flag"
	"fmt"

	"github.com/pkg/browser"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
)

type AutoLoginCommand struct {
	*base.Command

	// OpenURL opens a link in the user's browser.
	// Default: browser.OpenURL
	OpenURL func(url string) error

	api base.APIFlags

	flagNext string
	flagOpen bool
}

func (c *AutoLoginCommand) Synopsis() string {
	return "Print a link that signs the user in to Scribd"
}

func (c *AutoLoginCommand) Help() string {
	return `Usage: scribd autologin [options]

  Print a one-time link that signs the acting user in to scribd.com and
  redirects to -next. Not available for virtual users.` + c.Flags().Help()
}

func (c *AutoLoginCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("autologin", flag.ContinueOnError))
	c.api.Register(f)

	f.StringVar(&c.flagNext, "next", "/", "Path to redirect to after signing in.")
	f.BoolVar(&c.flagOpen, "open", false, "Open the link in the default browser.")

	return f
}

func (c *AutoLoginCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() > 0 {
		c.UI.Error("autologin takes no arguments")
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	s, err := c.Connect(ctx, &c.api)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	link, err := s.User.AutoLoginURL(ctx, c.flagNext)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.UI.Output(link)

	if c.flagOpen {
		open := c.OpenURL
		if open == nil {
			open = browser.OpenURL
		}
		if err := open(link); err != nil {
			c.UI.Warn(fmt.Sprintf("could not open browser: %v", err))
		}
	}
	return 0
}
