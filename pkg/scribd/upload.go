package scribd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/c2fo/vfs/v7/vfssimple"
	"github.com/spf13/afero"
)

// namer is implemented by *os.File, afero.File and vfs.File.
type namer interface {
	Name() string
}

// Upload reads r into memory and uploads it as a new document.
//
// name may be a full path; only its base name is sent. If name is empty it is
// taken from r's Name method. Unless fields sets doc_type, the document type
// is the lower-cased extension of the name.
func (u *User) Upload(ctx context.Context, r io.Reader, name string, fields Fields) (*Document, error) {
	if name == "" {
		if n, ok := r.(namer); ok {
			name = n.Name()
		}
	}
	if name == "" {
		return nil, fmt.Errorf("%w: upload requires a file name", ErrInvalidArgument)
	}
	name = filepath.Base(name)

	fields = fields.clone()
	setDocType(fields, name)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	fields["file"] = File{Name: name, Data: data}

	root, err := u.send(ctx, "docs.upload", fields)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return newDocument(root, u), nil
}

// UploadFile uploads the file at filename on fs.
func (u *User) UploadFile(ctx context.Context, fs afero.Fs, filename string, fields Fields) (*Document, error) {
	f, err := fs.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	return u.Upload(ctx, f, filename, fields)
}

// UploadURI uploads a file from any location vfs can open, e.g.
// file:///tmp/report.pdf or s3://bucket/report.pdf.
func (u *User) UploadURI(ctx context.Context, uri string, fields Fields) (*Document, error) {
	f, err := vfssimple.NewFile(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", uri, err)
	}
	defer f.Close()

	return u.Upload(ctx, f, f.Name(), fields)
}

// UploadFromURL has the server fetch a document from a remote URL.
func (u *User) UploadFromURL(ctx context.Context, docURL string, fields Fields) (*Document, error) {
	fields = fields.clone()
	source := docURL
	if parsed, err := url.Parse(docURL); err == nil && parsed.Path != "" {
		source = parsed.Path
	}
	setDocType(fields, source)
	fields["url"] = docURL

	root, err := u.send(ctx, "docs.uploadFromUrl", fields)
	if err != nil {
		return nil, fmt.Errorf("failed to upload from %s: %w", docURL, err)
	}
	return newDocument(root, u), nil
}

// setDocType normalizes an explicit doc_type or derives it from the
// extension of name.
func setDocType(fields Fields, name string) {
	docType := path.Ext(name)
	if v, ok := fields["doc_type"]; ok && v != nil {
		docType = formatValue(v)
	}
	fields["doc_type"] = strings.ToLower(strings.TrimLeft(docType, "."))
}
