package mock

import (
	"context"

	"github.com/michaeldistler/backstage"
)

var _ backstage.DocumentWriter = (*DocumentWriter)(nil)

// DocumentWriter is a mock implementation of backstage.DocumentWriter.
type DocumentWriter struct {
	WriteDocumentFn func(ctx context.Context, doc *backstage.Document) error
}

func (w *DocumentWriter) WriteDocument(ctx context.Context, doc *backstage.Document) error {
	return w.WriteDocumentFn(ctx, doc)
}
