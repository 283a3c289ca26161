package documents

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
)

type URLCommand struct {
	*base.Command

	api base.APIFlags

	flagDownload string
}

func (c *URLCommand) Synopsis() string {
	return "Print the public or download link of a document"
}

func (c *URLCommand) Help() string {
	return `Usage: scribd url [options] <doc_id>

  Print the link to a document's page. Private documents get their secret
  password appended.

  With -download, print a link to a static version of the document instead,
  e.g. -download=pdf or -download=original.` + c.Flags().Help()
}

func (c *URLCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("url", flag.ContinueOnError))
	c.api.Register(f)

	f.StringVar(&c.flagDownload, "download", "", "Print a download link for this format.")

	return f
}

func (c *URLCommand) Run(args []string) int {
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

	doc := s.User.Document(f.Arg(0))

	var link string
	if c.flagDownload != "" {
		link, err = doc.DownloadURL(ctx, c.flagDownload)
		if err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	} else {
		link = doc.PublicURL(ctx)
	}

	if err := c.Output(c.api.Format, urlResult{DocID: doc.ID(), URL: link}); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
