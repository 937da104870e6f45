package collate

import (
	"context"

	"github.com/michaeldistler/backstage"
)

// Stream is a pull-based, single-pass sequence of collated documents.
// It is finite and not restartable; re-invoke Collate for a fresh run.
type Stream struct {
	docs <-chan *backstage.Document
}

// Next returns the next document from the stream. It returns false when
// the stream is exhausted or the context is canceled.
func (s *Stream) Next(ctx context.Context) (*backstage.Document, bool) {
	select {
	case doc, ok := <-s.docs:
		if !ok {
			return nil, false
		}
		return doc, true
	case <-ctx.Done():
		return nil, false
	}
}

// Docs exposes the stream's underlying channel for range-based consumption.
func (s *Stream) Docs() <-chan *backstage.Document {
	return s.docs
}

// Collect drains the stream into a slice. Intended for small catalogs and
// tests; large runs should consume the stream incrementally.
func (s *Stream) Collect(ctx context.Context) []*backstage.Document {
	var docs []*backstage.Document
	for {
		doc, ok := s.Next(ctx)
		if !ok {
			return docs
		}
		docs = append(docs, doc)
	}
}
