package documents

import (
	"flag"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
)

type DeleteCommand struct {
	*base.Command

	api base.APIFlags
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete documents"
}

func (c *DeleteCommand) Help() string {
	return `Usage: scribd delete [options] <doc_id>...

  Delete documents owned by the acting user. Every document is attempted;
  failures are reported together.` + c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("delete", flag.ContinueOnError))
	c.api.Register(f)
	return f
}

func (c *DeleteCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() == 0 {
		c.UI.Error("at least one document id is required")
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	s, err := c.Connect(ctx, &c.api)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	var result *multierror.Error
	deleted := 0
	for _, id := range f.Args() {
		if err := s.User.Document(id).Delete(ctx); err != nil {
			result = multierror.Append(result, err)
			continue
		}
		deleted++
	}

	c.UI.Info(fmt.Sprintf("Deleted %d document(s)", deleted))
	if err := result.ErrorOrNil(); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
