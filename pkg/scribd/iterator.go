package scribd

import (
	"context"
	"errors"
	"iter"

	"google.golang.org/api/iterator"
)

// pageFunc fetches the next page. more is false once the page is known to be
// the last one.
type pageFunc func(ctx context.Context) (docs []*Document, more bool, err error)

// DocumentIterator yields documents page by page. A page is fetched only when
// the documents of the previous one have been consumed, so abandoning the
// iterator early costs no further calls. An iterator cannot be restarted;
// call ListAll or SearchAll again for a fresh cursor.
type DocumentIterator struct {
	fetch pageFunc
	buf   []*Document
	more  bool
	err   error
	pages int
}

func newDocumentIterator(fetch pageFunc) *DocumentIterator {
	return &DocumentIterator{fetch: fetch, more: true}
}

// Next returns the next document. Its second return value is iterator.Done
// once there are no more documents. A failed page fetch ends the iteration
// with that error.
func (it *DocumentIterator) Next(ctx context.Context) (*Document, error) {
	for len(it.buf) == 0 {
		if it.err != nil {
			return nil, it.err
		}
		if !it.more {
			return nil, iterator.Done
		}

		docs, more, err := it.fetch(ctx)
		it.pages++
		if err != nil {
			it.err = err
			return nil, err
		}
		it.buf, it.more = docs, more
	}

	doc := it.buf[0]
	it.buf = it.buf[1:]
	return doc, nil
}

// Pages returns the number of page fetches performed so far.
func (it *DocumentIterator) Pages() int {
	return it.pages
}

// All adapts the iterator for range loops. Iteration stops at the first
// error, which is yielded with a nil document.
func (it *DocumentIterator) All(ctx context.Context) iter.Seq2[*Document, error] {
	return func(yield func(*Document, error) bool) {
		for {
			doc, err := it.Next(ctx)
			if errors.Is(err, iterator.Done) {
				return
			}
			if !yield(doc, err) || err != nil {
				return
			}
		}
	}
}
