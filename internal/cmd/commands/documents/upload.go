package documents

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/c2fo/vfs/v7/vfssimple"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/scribd-go/internal/cmd/base"
	"github.com/hashicorp-forge/scribd-go/pkg/scribd"
)

type UploadCommand struct {
	*base.Command

	// FS is the filesystem local paths are read from.
	// Default: the OS filesystem
	FS afero.Fs

	api base.APIFlags

	flagURL     string
	flagDocType string
	flagAccess  string
	flagReplace string
	flagFields  base.FieldsValue
}

func (c *UploadCommand) Synopsis() string {
	return "Upload a document"
}

func (c *UploadCommand) Help() string {
	return `Usage: scribd upload [options] <path|uri>
       scribd upload [options] -url=<url>

  Upload a local file, a file at any supported storage URI (file://, s3://,
  gs://, ...) or have Scribd fetch the document from a URL.

  With -replace, the new content replaces an existing document, which keeps
  its id and settings.

  Example:
    scribd upload -access=private -field=tags=finance,2009 report.pdf` + c.Flags().Help()
}

func (c *UploadCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("upload", flag.ContinueOnError))
	c.api.Register(f)

	if c.flagFields == nil {
		c.flagFields = base.FieldsValue{}
	}
	f.StringVar(&c.flagURL, "url", "", "Have Scribd fetch the document from this URL.")
	f.StringVar(&c.flagDocType, "doc-type", "", "Document type. Default: the file extension.")
	f.StringVar(&c.flagAccess, "access", "", "Access setting (public, private).")
	f.StringVar(&c.flagReplace, "replace", "", "Id of a document to replace.")
	f.Var(c.flagFields, "field", "Additional upload parameter as key=value. May be repeated.")

	return f
}

func (c *UploadCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	source := f.Arg(0)
	switch {
	case c.flagURL == "" && f.NArg() != 1:
		c.UI.Error("exactly one file path or URI is required")
		return 1
	case c.flagURL != "" && f.NArg() != 0:
		c.UI.Error("a file argument cannot be combined with -url")
		return 1
	}

	fields := scribd.Fields{}
	for k, v := range c.flagFields {
		fields[k] = v
	}
	if c.flagDocType != "" {
		fields["doc_type"] = c.flagDocType
	}
	if c.flagAccess != "" {
		fields["access"] = c.flagAccess
	}

	ctx, cancel := c.Context()
	defer cancel()

	s, err := c.Connect(ctx, &c.api)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	var doc *scribd.Document
	if c.flagReplace != "" {
		doc = s.User.Document(c.flagReplace)
		err = c.replace(ctx, doc, source, fields)
	} else {
		doc, err = c.upload(ctx, s.User, source, fields)
	}
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	out, err := newDocumentList([]*scribd.Document{doc})
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

func (c *UploadCommand) upload(ctx context.Context, u *scribd.User, source string, fields scribd.Fields) (*scribd.Document, error) {
	switch {
	case c.flagURL != "":
		return u.UploadFromURL(ctx, c.flagURL, fields)
	case isURI(source):
		return u.UploadURI(ctx, source, fields)
	default:
		return u.UploadFile(ctx, c.fs(), source, fields)
	}
}

func (c *UploadCommand) replace(ctx context.Context, doc *scribd.Document, source string, fields scribd.Fields) error {
	if c.flagURL != "" {
		return doc.ReplaceFromURL(ctx, c.flagURL, fields)
	}

	if isURI(source) {
		vf, err := vfssimple.NewFile(source)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", source, err)
		}
		defer vf.Close()
		return doc.Replace(ctx, vf, vf.Name(), fields)
	}

	file, err := c.fs().Open(source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer file.Close()
	return doc.Replace(ctx, file, source, fields)
}

func (c *UploadCommand) fs() afero.Fs {
	if c.FS == nil {
		return afero.NewOsFs()
	}
	return c.FS
}

func isURI(s string) bool {
	return strings.Contains(s, "://")
}
