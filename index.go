package backstage

import "context"

// IndexEntry is one searchable unit as reported by an entity's remote
// search index. Text may be absent in the payload, in which case it
// decodes to the empty string.
type IndexEntry struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Location string `json:"location"`
}

// SearchIndex is the parsed per-entity search index document.
type SearchIndex struct {
	Docs []IndexEntry
}

// SearchIndexService retrieves and parses the remote search index for one
// entity's published documentation.
type SearchIndexService interface {
	// Fetch retrieves the search index for the entity addressed by key,
	// rooted at the documentation hosting base URL. The key is expected to
	// be already normalized.
	Fetch(ctx context.Context, baseURL string, key EntityKey) (*SearchIndex, error)
}
