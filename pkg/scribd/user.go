package scribd

import (
	"context"
	"fmt"
)

const (
	// ScopeUser searches the documents of the calling user.
	ScopeUser = "user"
	// ScopeAll searches all public documents.
	ScopeAll = "all"

	// DefaultPageSize is the number of documents fetched per call by the
	// paging iterators.
	DefaultPageSize = 100

	apiUserID = "api_user"
)

// User is a Scribd user. The API-account user (Client.APIUser) has no
// session key; users returned by Client.Login and Client.Signup carry the
// session key of their login and sign every request with it.
type User struct {
	Resource

	client     *Client
	sessionKey string
	externalID string
}

func newUser(c *Client, root *Element) *User {
	u := &User{client: c}
	u.Resource = newResource(u.setStructural)
	u.LoadFrom(root)
	return u
}

// LoadFrom loads the resource fields of a user.login or user.signup
// response. The session key is kept as the user's credential, not as a
// field.
func (u *User) LoadFrom(root *Element) {
	u.Resource.LoadFrom(root)
	if v, ok := u.stored["session_key"]; ok {
		u.sessionKey = formatValue(v)
		delete(u.stored, "session_key")
	}
}

func (u *User) setStructural(name string, value any) (bool, error) {
	switch name {
	case "session_key":
		switch v := value.(type) {
		case nil:
			u.sessionKey = ""
		case string:
			u.sessionKey = v
		default:
			return true, fmt.Errorf("%w: session_key must be a string, got %T", ErrInvalidArgument, value)
		}
		return true, nil
	case "my_user_id":
		if u.externalID == "" {
			return false, nil
		}
		v, ok := value.(string)
		if !ok || v == "" {
			return true, fmt.Errorf("%w: my_user_id must be a non-empty string", ErrInvalidArgument)
		}
		u.externalID = v
		return true, nil
	}
	return false, nil
}

// ID returns the user_id field, the virtual user name for virtual users, or
// "api_user" for the API-account user.
func (u *User) ID() string {
	if u.externalID != "" {
		return u.externalID
	}
	return u.identity("user_id", apiUserID)
}

// Key returns the identity key of the user.
func (u *User) Key() string {
	return "user:" + u.ID()
}

// SessionKey returns the session credential, empty for the API-account user.
func (u *User) SessionKey() string {
	return u.sessionKey
}

// Client returns the client the user was created from.
func (u *User) Client() *Client {
	return u.client
}

func (u *User) String() string {
	return fmt.Sprintf("<User %q>", u.ID())
}

// send signs a call with the user's session key and, for virtual users, the
// virtual user name.
func (u *User) send(ctx context.Context, method string, fields Fields) (*Element, error) {
	fields = fields.clone()
	delete(fields, "session_key")
	delete(fields, "my_user_id")
	if u.sessionKey != "" {
		fields["session_key"] = u.sessionKey
	}
	if u.externalID != "" {
		fields["my_user_id"] = u.externalID
	}
	return u.client.SendRequest(ctx, method, fields)
}

// ListOptions are the paging arguments of docs.getList. Fields carries any
// other documented parameter.
type ListOptions struct {
	Offset int
	Limit  int

	// PageSize is used by ListAll instead of Limit.
	// Default: DefaultPageSize
	PageSize int

	Fields Fields
}

// List returns the user's documents in a single call.
func (u *User) List(ctx context.Context, opts ListOptions) ([]*Document, error) {
	fields := opts.Fields.clone()
	if opts.Limit > 0 {
		fields["limit"] = opts.Limit
	}
	if opts.Offset > 0 {
		fields["offset"] = opts.Offset
	}
	return u.listPage(ctx, fields)
}

func (u *User) listPage(ctx context.Context, fields Fields) ([]*Document, error) {
	root, err := u.send(ctx, "docs.getList", fields)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	set, err := resultSet(root, "resultset")
	if err != nil {
		return nil, err
	}
	return documentsFrom(set, u), nil
}

// ListAll returns an iterator over all of the user's documents, fetching
// PageSize documents per call until a short page is returned.
func (u *User) ListAll(opts ListOptions) *DocumentIterator {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	offset := opts.Offset

	return newDocumentIterator(func(ctx context.Context) ([]*Document, bool, error) {
		fields := opts.Fields.with(Fields{"limit": pageSize})
		if offset > 0 {
			fields["offset"] = offset
		}
		docs, err := u.listPage(ctx, fields)
		if err != nil {
			return nil, false, err
		}
		offset += len(docs)
		return docs, len(docs) >= pageSize, nil
	})
}

// GetDocument returns the document with the given id. The user has to own it.
func (u *User) GetDocument(ctx context.Context, docID string) (*Document, error) {
	root, err := u.send(ctx, "docs.getSettings", Fields{"doc_id": docID})
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", docID, err)
	}
	return newDocument(root, u), nil
}

// Document returns a handle for the user's document docID without fetching
// it. Only doc_id is known until the document is reloaded.
func (u *User) Document(docID string) *Document {
	d := newDocument(nil, u)
	d.stored["doc_id"] = docID
	return d
}

// SearchOptions are the arguments of docs.search.
type SearchOptions struct {
	// Scope is ScopeUser (the default) or ScopeAll. Only documents found in
	// the user scope are owned by the searching user; all others are owned
	// by the API-account user.
	Scope string

	// Offset is zero-based and sent as the one-based num_start.
	Offset int

	// Limit caps the number of results (num_results).
	Limit int

	// PageSize is used by SearchAll instead of Limit.
	PageSize int

	Fields Fields
}

func (o SearchOptions) owner(u *User) *User {
	if o.Scope == "" || o.Scope == ScopeUser {
		return u
	}
	return u.client.apiUser
}

func (o SearchOptions) fields(query string) Fields {
	fields := o.Fields.with(Fields{"query": query})
	if o.Scope != "" {
		fields["scope"] = o.Scope
	}
	return fields
}

// Search searches for documents in a single call.
func (u *User) Search(ctx context.Context, query string, opts SearchOptions) ([]*Document, error) {
	fields := opts.fields(query)
	if opts.Offset > 0 {
		fields["num_start"] = opts.Offset + 1
	}
	if opts.Limit > 0 {
		fields["num_results"] = opts.Limit
	}

	root, err := u.send(ctx, "docs.search", fields)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	set, err := resultSet(root, "result_set")
	if err != nil {
		return nil, err
	}
	return documentsFrom(set, opts.owner(u)), nil
}

// SearchAll returns an iterator over all search results. Each page advances
// the start position by the range reported in the result set until the
// reported total is reached.
func (u *User) SearchAll(query string, opts SearchOptions) *DocumentIterator {
	base := opts.fields(query)
	if opts.PageSize > 0 {
		base["num_results"] = opts.PageSize
	}
	start := 0
	if opts.Offset > 0 {
		start = opts.Offset + 1
	}
	owner := opts.owner(u)

	return newDocumentIterator(func(ctx context.Context) ([]*Document, bool, error) {
		fields := base.clone()
		if start > 0 {
			fields["num_start"] = start
		}

		root, err := u.send(ctx, "docs.search", fields)
		if err != nil {
			return nil, false, fmt.Errorf("failed to search documents: %w", err)
		}
		set, err := resultSet(root, "result_set")
		if err != nil {
			return nil, false, err
		}

		var first, returned, available int
		for name, dst := range map[string]*int{
			"firstResultPosition":   &first,
			"totalResultsReturned":  &returned,
			"totalResultsAvailable": &available,
		} {
			if _, err := fmt.Sscan(set.Attrs[name], dst); err != nil {
				return nil, false, &MalformedResponseError{
					Status: 200,
					Reason: fmt.Sprintf("result_set attribute %s is missing or invalid", name),
				}
			}
		}

		start = first + returned - 1
		return documentsFrom(set, owner), returned > 0 && start < available, nil
	})
}

// AutoLoginURL returns a URL that signs the user in when visited and
// redirects to nextURL.
func (u *User) AutoLoginURL(ctx context.Context, nextURL string) (string, error) {
	if u.externalID != "" {
		return "", fmt.Errorf("%w: auto-login is not supported by virtual users", ErrUnsupportedOperation)
	}
	root, err := u.send(ctx, "user.getAutoSigninUrl", Fields{"next_url": nextURL})
	if err != nil {
		return "", fmt.Errorf("failed to get auto-login url: %w", err)
	}
	return root.ChildText("url")
}

// VirtualUser is a user of the caller's own platform, scoped within the API
// account. Every request carries its name as my_user_id. Virtual users also
// control access to secure documents.
type VirtualUser struct {
	*User
}

// AccessList returns the secure documents the virtual user is currently
// allowed to access. The documents are owned by the API-account user.
func (v *VirtualUser) AccessList(ctx context.Context) ([]*Document, error) {
	root, err := v.send(ctx, "security.getUserAccessList", Fields{"user_identifier": v.externalID})
	if err != nil {
		return nil, fmt.Errorf("failed to get access list: %w", err)
	}
	set, err := resultSet(root, "resultset")
	if err != nil {
		return nil, err
	}
	return documentsFrom(set, v.client.apiUser), nil
}

// SetAccess disables (or re-enables) the virtual user's access to all secure
// documents.
func (v *VirtualUser) SetAccess(ctx context.Context, allowed bool) error {
	_, err := v.send(ctx, "security.setAccess", Fields{
		"user_identifier": v.externalID,
		"allowed":         allowed,
	})
	if err != nil {
		return fmt.Errorf("failed to set access: %w", err)
	}
	return nil
}

func resultSet(root *Element, name string) (*Element, error) {
	set, ok := root.Get(name)
	if !ok {
		return nil, &MalformedResponseError{
			Status: 200,
			Reason: fmt.Sprintf("response has no %s element", name),
		}
	}
	return set, nil
}

func documentsFrom(set *Element, owner *User) []*Document {
	docs := make([]*Document, 0, set.Len())
	for _, result := range set.Children {
		docs = append(docs, newDocument(result, owner))
	}
	return docs
}
