package documents

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
	"github.com/hashicorp-forge/scribd-go/pkg/scribd"
)

type SearchCommand struct {
	*base.Command

	api base.APIFlags

	flagScope    string
	flagOffset   int
	flagLimit    int
	flagAll      bool
	flagPageSize int
}

func (c *SearchCommand) Synopsis() string {
	return "Search documents"
}

func (c *SearchCommand) Help() string {
	return `Usage: scribd search [options] <query>

  Search the acting user's documents, or all public documents with
  -scope=all.` + c.Flags().Help()
}

func (c *SearchCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("search", flag.ContinueOnError))
	c.api.Register(f)

	f.StringVar(&c.flagScope, "scope", scribd.ScopeUser, "Search scope (user, all).")
	f.IntVar(&c.flagOffset, "offset", 0, "Number of results to skip.")
	f.IntVar(&c.flagLimit, "limit", 0, "Maximum number of results to return.")
	f.BoolVar(&c.flagAll, "all", false, "Page through all results.")
	f.IntVar(&c.flagPageSize, "page-size", 0, "Results fetched per call with -all.")

	return f
}

func (c *SearchCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	query := strings.TrimSpace(strings.Join(f.Args(), " "))
	if query == "" {
		c.UI.Error("a search query is required")
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	s, err := c.Connect(ctx, &c.api)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	opts := scribd.SearchOptions{
		Scope:    c.flagScope,
		Offset:   c.flagOffset,
		Limit:    c.flagLimit,
		PageSize: c.flagPageSize,
	}

	var docs []*scribd.Document
	if c.flagAll {
		docs, err = collect(ctx, s.User.SearchAll(query, opts), c.flagLimit)
	} else {
		docs, err = s.User.Search(ctx, query, opts)
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error searching documents: %v", err))
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
