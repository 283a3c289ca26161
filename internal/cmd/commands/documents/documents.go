// Package documents implements the document commands of the scribd CLI.
package documents

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"google.golang.org/api/iterator"

	"github.com/hashicorp-forge/scribd-go/pkg/scribd"
)

// documentList renders documents as a table or as a list of objects.
type documentList []scribd.DocumentInfo

func newDocumentList(docs []*scribd.Document) (documentList, error) {
	out := make(documentList, 0, len(docs))
	for _, doc := range docs {
		info, err := doc.Info()
		if err != nil {
			return nil, fmt.Errorf("error decoding document %s: %w", doc.ID(), err)
		}
		out = append(out, info)
	}
	return out, nil
}

func (l documentList) Header() []string {
	return []string{"DOC_ID", "TITLE", "ACCESS", "STATUS", "PAGES"}
}

func (l documentList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, d := range l {
		pages := ""
		if d.PageCount > 0 {
			pages = strconv.Itoa(d.PageCount)
		}
		rows = append(rows, []string{d.DocID, d.Title, d.Access, d.ConversionStatus, pages})
	}
	return rows
}

// fieldTable renders all fields of a single document.
type fieldTable map[string]any

func (f fieldTable) Header() []string {
	return []string{"FIELD", "VALUE"}
}

func (f fieldTable) Rows() [][]string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprint(f[k])})
	}
	return rows
}

type statusResult struct {
	DocID            string `json:"doc_id" yaml:"doc_id"`
	ConversionStatus string `json:"conversion_status" yaml:"conversion_status"`
}

func (r statusResult) String() string {
	return r.ConversionStatus
}

type urlResult struct {
	DocID string `json:"doc_id" yaml:"doc_id"`
	URL   string `json:"url" yaml:"url"`
}

func (r urlResult) String() string {
	return r.URL
}

// collect drains it, stopping after limit documents if limit is positive.
func collect(ctx context.Context, it *scribd.DocumentIterator, limit int) ([]*scribd.Document, error) {
	var docs []*scribd.Document
	for limit <= 0 || len(docs) < limit {
		doc, err := it.Next(ctx)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
