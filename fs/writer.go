// Package fs provides file-based output sinks for collated documents.
package fs

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/michaeldistler/backstage"
)

// Ensure Writer implements backstage.DocumentWriter at compile time.
var _ backstage.DocumentWriter = (*Writer)(nil)

// Writer writes documents as newline-delimited JSON, one document per
// line. Safe for concurrent use.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a Writer emitting NDJSON to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// WriteDocument validates the document and appends it as one JSON line.
func (w *Writer) WriteDocument(ctx context.Context, doc *backstage.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(doc)
}
