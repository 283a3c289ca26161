package documents

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
	"github.com/hashicorp-forge/scribd-go/pkg/scribd"
)

type UpdateCommand struct {
	*base.Command

	api base.APIFlags
}

func (c *UpdateCommand) Synopsis() string {
	return "Change document settings"
}

func (c *UpdateCommand) Help() string {
	return `Usage: scribd update [options] <doc_id>[,<doc_id>...] <key=value>...

  Change settings of one or more documents owned by the acting user. All
  documents are updated with a single call.

  Keys are the API's setting names; camelCase and kebab-case spellings are
  accepted.

  Example:
    scribd update 1234,5678 access=private tags=archive` + c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("update", flag.ContinueOnError))
	c.api.Register(f)
	return f
}

func (c *UpdateCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() < 2 {
		c.UI.Error("a document id and at least one key=value pair are required")
		return 1
	}

	ids := splitIDs(f.Arg(0))
	if len(ids) == 0 {
		c.UI.Error("no document ids given")
		return 1
	}
	pairs, err := base.ParseFields(f.Args()[1:])
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	ctx, cancel := c.Context()
	defer cancel()

	s, err := c.Connect(ctx, &c.api)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	docs := make([]*scribd.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, s.User.Document(id))
	}

	if len(docs) == 1 {
		doc := docs[0]
		for k, v := range pairs {
			if err := doc.Set(k, v); err != nil {
				c.UI.Error(err.Error())
				return 1
			}
		}
		if _, err := doc.Save(ctx); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	} else {
		fields := scribd.Fields{}
		for k, v := range pairs {
			fields[k] = v
		}
		if err := scribd.UpdateMany(ctx, docs, fields); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}

	c.UI.Info(fmt.Sprintf("Updated %d document(s)", len(docs)))
	return 0
}

func splitIDs(arg string) []string {
	var ids []string
	for _, id := range strings.Split(arg, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
