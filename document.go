package backstage

import "context"

// DefaultComponentType is used when an entity does not declare a spec type.
const DefaultComponentType = "other"

// Document represents one searchable documentation fragment, normalized
// from a raw search index entry and enriched with entity-level metadata.
type Document struct {
	// Title and Text are the fragment's searchable content with HTML
	// entities unescaped.
	Title string `json:"title"`
	Text  string `json:"text"`

	// Location is the fully-resolved, user-facing address of the fragment.
	// Path is the raw relative location reported by the search index.
	Location string `json:"location"`
	Path     string `json:"path"`

	// Kind, Namespace and Name identify the owning entity using the
	// normalized triplet that addressed its documentation.
	Kind      string `json:"kind"`
	Namespace string `json:"namespace"`
	Name      string `json:"name"`

	// Entity-level metadata resolved once per entity.
	EntityTitle   string `json:"entityTitle,omitempty"`
	ComponentType string `json:"componentType"`
	Lifecycle     string `json:"lifecycle"`
	Owner         string `json:"owner"`

	// ContentHash is a stable fingerprint of Text, useful for downstream
	// change detection.
	ContentHash string `json:"contentHash,omitempty"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Name == "" {
		return Errorf(EINVALID, "document entity name required")
	}
	if d.Location == "" {
		return Errorf(EINVALID, "document location required")
	}
	return nil
}

// DocumentWriter writes collated documents to an output sink.
type DocumentWriter interface {
	WriteDocument(ctx context.Context, doc *Document) error
}
