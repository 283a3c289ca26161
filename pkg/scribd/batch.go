package scribd

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// UpdateMany sets the same fields on many documents with a single
// docs.changeSettings call, then applies them locally with Set.
//
// All documents must have the same owner, compared by identity. Note that
// every document owned by the API-account user shares that owner.
func UpdateMany(ctx context.Context, docs []*Document, fields Fields) error {
	var (
		owner  *User
		result *multierror.Error
	)
	ids := make([]string, 0, len(docs))
	for i, doc := range docs {
		if doc == nil {
			result = multierror.Append(result, fmt.Errorf("document %d is nil", i))
			continue
		}
		ids = append(ids, doc.ID())
		if owner == nil {
			owner = doc.owner
			continue
		}
		if !Equal(owner, doc.owner) {
			result = multierror.Append(result,
				fmt.Errorf("document %s is owned by %s, not %s", doc.ID(), doc.owner.ID(), owner.ID()))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if owner == nil {
		return nil
	}

	_, err := owner.send(ctx, "docs.changeSettings", fields.with(Fields{
		"doc_ids": strings.Join(ids, ","),
	}))
	if err != nil {
		return fmt.Errorf("failed to update %d documents: %w", len(docs), err)
	}

	for _, doc := range docs {
		for name, value := range fields {
			if err := doc.Set(name, value); err != nil {
				return err
			}
		}
	}
	return nil
}
