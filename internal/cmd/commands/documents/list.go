package documents

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
	"github.com/hashicorp-forge/scribd-go/pkg/scribd"
)

type ListCommand struct {
	*base.Command

	api base.APIFlags

	flagOffset   int
	flagLimit    int
	flagAll      bool
	flagPageSize int
}

func (c *ListCommand) Synopsis() string {
	return "List documents"
}

func (c *ListCommand) Help() string {
	return `Usage: scribd list [options]

  List the documents of the acting user: the API account by default, a
  virtual user with -virtual-user or a Scribd user with -login.

  With -all, documents are fetched page by page until the list is exhausted
  or -limit documents were returned.` + c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))
	c.api.Register(f)

	f.IntVar(&c.flagOffset, "offset", 0, "Number of documents to skip.")
	f.IntVar(&c.flagLimit, "limit", 0, "Maximum number of documents to return.")
	f.BoolVar(&c.flagAll, "all", false, "Page through all documents.")
	f.IntVar(&c.flagPageSize, "page-size", scribd.DefaultPageSize, "Documents fetched per call with -all.")

	return f
}

func (c *ListCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() > 0 {
		c.UI.Error("list takes no arguments")
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	s, err := c.Connect(ctx, &c.api)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	var docs []*scribd.Document
	if c.flagAll {
		it := s.User.ListAll(scribd.ListOptions{
			Offset:   c.flagOffset,
			PageSize: c.flagPageSize,
		})
		docs, err = collect(ctx, it, c.flagLimit)
	} else {
		docs, err = s.User.List(ctx, scribd.ListOptions{
			Offset: c.flagOffset,
			Limit:  c.flagLimit,
		})
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error listing documents: %v", err))
		return 1
	}

	out, err := newDocumentList(docs)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if err := c.Output(c.api.Format, out); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
