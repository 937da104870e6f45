package backstage

import (
	"context"
	"strings"
)

// TechDocsRefAnnotation marks an entity as having generated TechDocs
// documentation. Entities without it are skipped during collation.
const TechDocsRefAnnotation = "backstage.io/techdocs-ref"

// DefaultNamespace is used when an entity does not declare a namespace.
const DefaultNamespace = "default"

// RelationOwnedBy is the relation type linking an entity to its owner.
const RelationOwnedBy = "ownedBy"

// Entity represents a catalog-tracked unit (service, component, API, etc.)
// that may own published documentation.
type Entity struct {
	Kind      string           `json:"kind"`
	Metadata  EntityMetadata   `json:"metadata"`
	Spec      EntitySpec       `json:"spec"`
	Relations []EntityRelation `json:"relations,omitempty"`
}

// EntityMetadata holds the identifying metadata of a catalog entity.
type EntityMetadata struct {
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace,omitempty"`
	Title       string            `json:"title,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// EntitySpec holds the subset of an entity's spec the collator reads.
type EntitySpec struct {
	Type      string `json:"type,omitempty"`
	Lifecycle string `json:"lifecycle,omitempty"`
}

// EntityRelation represents a typed edge from this entity to another.
type EntityRelation struct {
	Type      string `json:"type"`
	TargetRef string `json:"targetRef"`
}

// HasTechDocs reports whether the entity carries the TechDocs reference
// annotation.
func (e *Entity) HasTechDocs() bool {
	_, ok := e.Metadata.Annotations[TechDocsRefAnnotation]
	return ok
}

// Key returns the addressable (kind, namespace, name) triple for the
// entity's documentation resource. The namespace defaults to "default"
// when the entity does not declare one.
func (e *Entity) Key() EntityKey {
	namespace := e.Metadata.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return EntityKey{
		Kind:      e.Kind,
		Namespace: namespace,
		Name:      e.Metadata.Name,
	}
}

// Owner returns the target of the entity's first ownedBy relation, or the
// empty string if the entity has no recorded owner.
func (e *Entity) Owner() string {
	for _, rel := range e.Relations {
		if rel.Type == RelationOwnedBy {
			return rel.TargetRef
		}
	}
	return ""
}

// EntityKey identifies the addressable documentation resource for one
// catalog entity. Immutable once constructed; derived fresh per entity per
// collation run.
type EntityKey struct {
	Kind      string
	Namespace string
	Name      string
}

// NormalizeEntityKey canonicalizes an entity key for path construction.
// If legacy is true the key is returned unchanged, preserving original
// casing for systems that pre-date the case-insensitive path fix.
// Otherwise all three fields are lower-cased with a locale-independent
// rule.
func NormalizeEntityKey(legacy bool, key EntityKey) EntityKey {
	if legacy {
		return key
	}
	return EntityKey{
		Kind:      strings.ToLower(key.Kind),
		Namespace: strings.ToLower(key.Namespace),
		Name:      strings.ToLower(key.Name),
	}
}

// EntityFilter narrows a catalog query. Fields, if set, requests only the
// named fields of each entity from the catalog (a payload-size
// optimization, not a correctness requirement).
type EntityFilter struct {
	Fields []string
}

// CatalogService queries the software catalog for entities.
type CatalogService interface {
	// Entities returns all catalog entities matching the filter.
	// The token authenticates the request with the catalog backend.
	Entities(ctx context.Context, filter EntityFilter, token string) ([]*Entity, error)
}
