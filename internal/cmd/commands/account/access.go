package account

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
	"github.com/hashicorp-forge/scribd-go/pkg/scribd"
)

type AccessCommand struct {
	*base.Command

	api base.APIFlags

	flagSet string
}

func (c *AccessCommand) Synopsis() string {
	return "Manage virtual user access to secure documents"
}

func (c *AccessCommand) Help() string {
	return `Usage: scribd access -virtual-user=<id> [-set=allow|deny] [doc_id]
       scribd access <doc_id>

  Show or change which virtual users may view secure documents.

    scribd access -virtual-user=u1               documents u1 may view
    scribd access -virtual-user=u1 -set=deny     revoke u1's access to all documents
    scribd access -virtual-user=u1 -set=allow 42 grant u1 access to document 42
    scribd access 42                             virtual users allowed to view 42` + c.Flags().Help()
}

func (c *AccessCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("access", flag.ContinueOnError))
	c.api.Register(f)

	f.StringVar(&c.flagSet, "set", "", "Change access: allow or deny.")

	return f
}

func (c *AccessCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() > 1 {
		c.UI.Error("at most one document id may be given")
		return 1
	}

	var allowed bool
	switch strings.ToLower(c.flagSet) {
	case "":
	case "allow":
		allowed = true
	case "deny":
	default:
		c.UI.Error(fmt.Sprintf("-set must be allow or deny, got %q", c.flagSet))
		return 1
	}
	if c.flagSet != "" && c.api.VirtualUser == "" {
		c.UI.Error("-set requires -virtual-user")
		return 1
	}
	if c.api.VirtualUser == "" && f.NArg() == 0 {
		c.UI.Error("either -virtual-user or a document id is required")
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	s, err := c.Connect(ctx, &c.api)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	// Secure documents belong to the API account.
	var doc *scribd.Document
	if f.NArg() == 1 {
		doc = s.Client.APIUser().Document(f.Arg(0))
	}

	switch {
	case c.flagSet != "" && doc != nil:
		err = doc.SetAccess(ctx, s.Virtual.ID(), allowed)
	case c.flagSet != "":
		err = s.Virtual.SetAccess(ctx, allowed)
	case doc != nil:
		err = c.listUsers(ctx, doc)
	default:
		err = c.listDocuments(ctx, s.Virtual)
	}
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

func (c *AccessCommand) listUsers(ctx context.Context, doc *scribd.Document) error {
	users, err := doc.AccessList(ctx)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID())
	}
	if c.api.Format == "table" {
		return c.Output(c.api.Format, strings.Join(ids, "\n"))
	}
	return c.Output(c.api.Format, ids)
}

func (c *AccessCommand) listDocuments(ctx context.Context, v *scribd.VirtualUser) error {
	docs, err := v.AccessList(ctx)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID())
	}
	if c.api.Format == "table" {
		return c.Output(c.api.Format, strings.Join(ids, "\n"))
	}
	return c.Output(c.api.Format, ids)
}
