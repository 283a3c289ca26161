package scribd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/forPelevin/gomoji"
)

// Document is a Scribd document.
//
// Its owner is the user whose session signs every call made for the
// document. Documents found outside the user search scope are owned by the
// API-account user, which may not be their true owner; operations such as
// Save and Delete then fail remotely until the owner is set with SetOwner.
type Document struct {
	Resource

	owner *User
}

// NewDocument wraps a result element as a document owned by owner.
func NewDocument(el *Element, owner *User) (*Document, error) {
	if owner == nil {
		return nil, fmt.Errorf("%w: document owner is required", ErrInvalidArgument)
	}
	return newDocument(el, owner), nil
}

func newDocument(el *Element, owner *User) *Document {
	d := &Document{owner: owner}
	d.Resource = newResource(d.setStructural)
	d.LoadFrom(el)
	return d
}

func (d *Document) setStructural(name string, value any) (bool, error) {
	if name != "owner" {
		return false, nil
	}
	switch v := value.(type) {
	case *User:
		if v != nil {
			d.owner = v
			return true, nil
		}
	case *VirtualUser:
		if v != nil && v.User != nil {
			d.owner = v.User
			return true, nil
		}
	}
	return true, fmt.Errorf("%w: owner must be a non-nil user, got %T", ErrInvalidArgument, value)
}

// ID returns the doc_id field, empty before it is loaded.
func (d *Document) ID() string {
	return d.identity("doc_id", "")
}

// Key returns the identity key of the document.
func (d *Document) Key() string {
	return "document:" + d.ID()
}

// Owner returns the user the document's calls are signed by.
func (d *Document) Owner() *User {
	return d.owner
}

// SetOwner replaces the owner, e.g. once the true owner of a search result
// is known.
func (d *Document) SetOwner(owner *User) error {
	return d.Set("owner", owner)
}

func (d *Document) String() string {
	return fmt.Sprintf("<Document %q>", d.ID())
}

func (d *Document) send(ctx context.Context, method string, fields Fields) (*Element, error) {
	return d.owner.send(ctx, method, fields)
}

// ConversionStatus returns the current conversion status of the document.
func (d *Document) ConversionStatus(ctx context.Context) (string, error) {
	root, err := d.send(ctx, "docs.getConversionStatus", Fields{"doc_id": d.ID()})
	if err != nil {
		return "", fmt.Errorf("failed to get conversion status: %w", err)
	}
	return root.ChildText("conversion_status")
}

// Delete deletes the document remotely. The local object is left as is.
func (d *Document) Delete(ctx context.Context) error {
	if _, err := d.send(ctx, "docs.delete", Fields{"doc_id": d.ID()}); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", d.ID(), err)
	}
	return nil
}

// DownloadURL returns a link to a static version of the document in the given
// format, "original" if empty.
func (d *Document) DownloadURL(ctx context.Context, format string) (string, error) {
	if format == "" {
		format = "original"
	}
	root, err := d.send(ctx, "docs.getDownloadUrl", Fields{
		"doc_id":   d.ID(),
		"doc_type": format,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get download url: %w", err)
	}
	return root.ChildText("download_link")
}

// Reload fetches the full settings of the document and loads them.
func (d *Document) Reload(ctx context.Context) error {
	root, err := d.send(ctx, "docs.getSettings", Fields{"doc_id": d.ID()})
	if err != nil {
		return fmt.Errorf("failed to reload document %s: %w", d.ID(), err)
	}
	d.LoadFrom(root)
	return nil
}

// Save sends the pending fields in one docs.changeSettings call and reports
// whether a call was made. The fields are marked stored only once the call
// succeeded.
func (d *Document) Save(ctx context.Context) (bool, error) {
	if !d.Dirty() {
		return false, nil
	}

	fields := Fields(d.Pending())
	fields["doc_ids"] = d.ID()
	if _, err := d.send(ctx, "docs.changeSettings", fields); err != nil {
		return false, fmt.Errorf("failed to save document %s: %w", d.ID(), err)
	}
	d.commit()
	return true, nil
}

// Replace uploads new content in place of the document. The doc_id and all
// other fields of the document remain; fields returned by the upload are
// merged in.
func (d *Document) Replace(ctx context.Context, r io.Reader, name string, fields Fields) error {
	doc, err := d.owner.Upload(ctx, r, name, fields.with(Fields{"rev_id": d.ID()}))
	if err != nil {
		return fmt.Errorf("failed to replace document %s: %w", d.ID(), err)
	}
	d.mergeStored(&doc.Resource, "doc_id", "rev_id")
	return nil
}

// ReplaceFromURL is like Replace with the new content fetched by the server
// from docURL.
func (d *Document) ReplaceFromURL(ctx context.Context, docURL string, fields Fields) error {
	doc, err := d.owner.UploadFromURL(ctx, docURL, fields.with(Fields{"rev_id": d.ID()}))
	if err != nil {
		return fmt.Errorf("failed to replace document %s: %w", d.ID(), err)
	}
	d.mergeStored(&doc.Resource, "doc_id", "rev_id")
	return nil
}

// PublicURL returns a link to the document's page. Private documents get
// their secret password appended; if the access setting is unknown the
// document is reloaded first, and a failed reload leaves the link without
// the password.
func (d *Document) PublicURL(ctx context.Context) string {
	reloaded := true
	if !d.Has("access") {
		if err := d.Reload(ctx); err != nil {
			d.owner.client.logger.Debug("could not determine document access", "doc_id", d.ID(), "error", err)
			reloaded = false
		}
	}

	title, _ := d.GetString("title")
	link := fmt.Sprintf("%s/doc/%s/%s", strings.TrimRight(d.owner.client.config.SiteURL, "/"), d.ID(), slugify(title))
	if !reloaded {
		return link
	}
	if access, _ := d.GetString("access"); access == "private" {
		password, _ := d.GetString("secret_password")
		link += "?secret_password=" + url.QueryEscape(password)
	}
	return link
}

// slugify keeps runs of ASCII letters and digits and joins them with
// hyphens. Emoji separate words like any other non-ASCII rune.
func slugify(title string) string {
	title = gomoji.ReplaceEmojisWith(title, ' ')
	words := strings.FieldsFunc(title, func(r rune) bool {
		return r >= utf8.RuneSelf || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	return strings.Join(words, "-")
}

// AccessList returns the virtual users currently authorized to view this
// secure document.
func (d *Document) AccessList(ctx context.Context) ([]*VirtualUser, error) {
	root, err := d.send(ctx, "security.getDocumentAccessList", Fields{"doc_id": d.ID()})
	if err != nil {
		return nil, fmt.Errorf("failed to get document access list: %w", err)
	}
	set, err := resultSet(root, "resultset")
	if err != nil {
		return nil, err
	}

	users := make([]*VirtualUser, 0, set.Len())
	for _, result := range set.Children {
		name, err := result.ChildText("user_identifier")
		if err != nil {
			return nil, &MalformedResponseError{Status: 200, Reason: err.Error()}
		}
		user, err := d.owner.client.VirtualUser(name)
		if err != nil {
			return nil, &MalformedResponseError{Status: 200, Reason: err.Error()}
		}
		users = append(users, user)
	}
	return users, nil
}

// SetAccess disables (or re-enables) a virtual user's access to this secure
// document.
func (d *Document) SetAccess(ctx context.Context, userID string, allowed bool) error {
	_, err := d.send(ctx, "security.setAccess", Fields{
		"user_identifier": userID,
		"allowed":         allowed,
		"doc_id":          d.ID(),
	})
	if err != nil {
		return fmt.Errorf("failed to set document access: %w", err)
	}
	return nil
}

// DocumentInfo is a typed view of the common document fields.
type DocumentInfo struct {
	DocID            string  `mapstructure:"doc_id" json:"doc_id" yaml:"doc_id"`
	Title            string  `mapstructure:"title" json:"title,omitempty" yaml:"title,omitempty"`
	Description      string  `mapstructure:"description" json:"description,omitempty" yaml:"description,omitempty"`
	Access           string  `mapstructure:"access" json:"access,omitempty" yaml:"access,omitempty"`
	License          string  `mapstructure:"license" json:"license,omitempty" yaml:"license,omitempty"`
	Tags             string  `mapstructure:"tags" json:"tags,omitempty" yaml:"tags,omitempty"`
	ConversionStatus string  `mapstructure:"conversion_status" json:"conversion_status,omitempty" yaml:"conversion_status,omitempty"`
	PageCount        int     `mapstructure:"page_count" json:"page_count,omitempty" yaml:"page_count,omitempty"`
	Reads            int     `mapstructure:"reads" json:"reads,omitempty" yaml:"reads,omitempty"`
	Rating           float64 `mapstructure:"rating" json:"rating,omitempty" yaml:"rating,omitempty"`
	AccessKey        string  `mapstructure:"access_key" json:"access_key,omitempty" yaml:"access_key,omitempty"`
	ThumbnailURL     string  `mapstructure:"thumbnail_url" json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`

	WhenUploaded time.Time `mapstructure:"when_uploaded" json:"when_uploaded,omitzero" yaml:"when_uploaded,omitempty"`
	WhenUpdated  time.Time `mapstructure:"when_updated" json:"when_updated,omitzero" yaml:"when_updated,omitempty"`
}

// Info decodes the document fields into a DocumentInfo.
func (d *Document) Info() (DocumentInfo, error) {
	var info DocumentInfo
	if err := d.Decode(&info); err != nil {
		return DocumentInfo{}, err
	}
	return info, nil
}
