package account

import (
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
)

type SignupCommand struct {
	*base.Command

	api base.APIFlags

	flagUsername string
	flagEmail    string
	flagName     string
}

func (c *SignupCommand) Synopsis() string {
	return "Create a Scribd user"
}

func (c *SignupCommand) Help() string {
	return `Usage: scribd signup -username=<name> -email=<address> [options]

  Create a new Scribd user. The password is read from ` + base.EnvPassword + `
  or prompted for.` + c.Flags().Help()
}

func (c *SignupCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("signup", flag.ContinueOnError))
	c.api.Register(f)

	f.StringVar(&c.flagUsername, "username", "", "(Required) Username of the new user.")
	f.StringVar(&c.flagEmail, "email", "", "(Required) Email address of the new user.")
	f.StringVar(&c.flagName, "name", "", "Display name of the new user.")

	return f
}

func (c *SignupCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagUsername == "" || c.flagEmail == "" {
		c.UI.Error("-username and -email are required")
		return 1
	}
	if c.api.Login != "" || c.api.VirtualUser != "" {
		c.UI.Error("signup cannot be combined with -login or -virtual-user")
		return 1
	}

	password := os.Getenv(base.EnvPassword)
	if password == "" {
		pw, err := c.UI.AskSecret("Password for the new user:")
		if err != nil {
			c.UI.Error(fmt.Sprintf("error reading password: %v", err))
			return 1
		}
		password = pw
	}

	ctx, cancel := c.Context()
	defer cancel()

	s, err := c.Connect(ctx, &c.api)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	user, err := s.Client.Signup(ctx, c.flagUsername, password, c.flagEmail, c.flagName)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	c.UI.Info(fmt.Sprintf("Created user %s", user.ID()))
	return 0
}
