package documents

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
)

type GetCommand struct {
	*base.Command

	api base.APIFlags
}

func (c *GetCommand) Synopsis() string {
	return "Show the settings of a document"
}

func (c *GetCommand) Help() string {
	return `Usage: scribd get [options] <doc_id>

  Show every field of a document owned by the acting user.` + c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get", flag.ContinueOnError))
	c.api.Register(f)
	return f
}

func (c *GetCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one document id is required")
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	s, err := c.Connect(ctx, &c.api)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	doc, err := s.User.GetDocument(ctx, f.Arg(0))
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if err := c.Output(c.api.Format, fieldTable(doc.Snapshot())); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
