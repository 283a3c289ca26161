package documents

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
)

type StatusCommand struct {
	*base.Command

	api base.APIFlags
}

func (c *StatusCommand) Synopsis() string {
	return "Show the conversion status of a document"
}

func (c *StatusCommand) Help() string {
	return `Usage: scribd status [options] <doc_id>

  Show the conversion status of a document, e.g. PROCESSING, DONE or ERROR.` + c.Flags().Help()
}

func (c *StatusCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("status", flag.ContinueOnError))
	c.api.Register(f)
	return f
}

func (c *StatusCommand) Run(args []string) int {
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

	status, err := s.User.Document(f.Arg(0)).ConversionStatus(ctx)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if err := c.Output(c.api.Format, statusResult{DocID: f.Arg(0), ConversionStatus: status}); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
