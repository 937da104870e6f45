// Package collate provides the TechDocs document collation pipeline.
// It queries the catalog for entities with published documentation,
// fetches each entity's search index under a concurrency cap, and emits
// a flat stream of normalized documents.
package collate

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/michaeldistler/backstage"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTemplate renders the user-facing location of a document.
	DefaultTemplate = "/docs/:namespace/:kind/:name/:path"

	// DefaultConcurrency bounds simultaneous in-flight index fetches.
	DefaultConcurrency = 10

	// techdocsPluginID is the discovery handle of the docs hosting backend.
	techdocsPluginID = "techdocs"
)

// catalogFields projects the catalog query down to the fields the collator
// reads. A payload-size optimization only; the mapping tolerates full
// entities.
var catalogFields = []string{
	"kind",
	"metadata.name",
	"metadata.namespace",
	"metadata.title",
	"metadata.annotations",
	"spec.type",
	"spec.lifecycle",
	"relations",
}

// Collator orchestrates document collation across the catalog.
type Collator struct {
	Discovery backstage.DiscoveryService
	Tokens    backstage.TokenService
	Catalog   backstage.CatalogService
	Index     backstage.SearchIndexService
	Logger    *slog.Logger

	// Template for document locations. Defaults to DefaultTemplate.
	Template string

	// Concurrency caps in-flight index fetches. Defaults to DefaultConcurrency.
	Concurrency int

	// LegacyPathCasing preserves entity key casing in documentation paths,
	// for installations that pre-date the case-insensitive path fix.
	LegacyPathCasing bool
}

// Collate queries the catalog and returns a stream of normalized documents
// from every entity with published documentation. Catalog, discovery and
// token failures abort the call; per-entity fetch failures are logged and
// contribute zero documents.
//
// Each call re-queries the catalog. The returned stream is single-pass and
// delivers documents lazily as the consumer reads; all fetch tasks are
// scheduled up front under the concurrency cap. Document order across
// entities is not guaranteed. Cancel ctx to abandon the stream early;
// in-flight fetches drain and their workers exit.
func (c *Collator) Collate(ctx context.Context) (*Stream, error) {
	baseURL, err := c.Discovery.BaseURL(ctx, techdocsPluginID)
	if err != nil {
		return nil, fmt.Errorf("resolve techdocs base URL: %w", err)
	}

	token, err := c.Tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire token: %w", err)
	}

	entities, err := c.Catalog.Entities(ctx, backstage.EntityFilter{Fields: catalogFields}, token)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}

	eligible := make([]*backstage.Entity, 0, len(entities))
	for _, entity := range entities {
		if entity.HasTechDocs() {
			eligible = append(eligible, entity)
		}
	}

	logger := c.logger().With("run_id", uuid.NewString())
	logger.Debug("collation started",
		"entities", len(entities),
		"eligible", len(eligible),
	)

	docCh := make(chan *backstage.Document)

	// A plain group, not WithContext: one entity's failure must never
	// cancel its siblings, and tasks report no errors upward.
	var g errgroup.Group
	g.SetLimit(c.concurrency())

	go func() {
		for _, entity := range eligible {
			entity := entity
			key := backstage.NormalizeEntityKey(c.LegacyPathCasing, entity.Key())
			g.Go(func() error {
				for _, doc := range c.fetchEntity(ctx, logger, baseURL, key, entity) {
					select {
					case docCh <- doc:
					case <-ctx.Done():
						return nil
					}
				}
				return nil
			})
		}
		_ = g.Wait()
		close(docCh)
	}()

	return &Stream{docs: docCh}, nil
}

// fetchEntity retrieves one entity's search index and maps its entries to
// documents. All failures are contained here: they are logged with the
// entity's normalized key and yield an empty result, never a partial one.
func (c *Collator) fetchEntity(
	ctx context.Context,
	logger *slog.Logger,
	baseURL string,
	key backstage.EntityKey,
	entity *backstage.Entity,
) []*backstage.Document {
	index, err := c.Index.Fetch(ctx, baseURL, key)
	if err != nil {
		logger.Debug("failed to retrieve search index",
			"kind", key.Kind,
			"namespace", key.Namespace,
			"name", key.Name,
			"err", err,
		)
		return nil
	}

	// Entity-level fields resolve once per entity, not per entry.
	componentType := entity.Spec.Type
	if componentType == "" {
		componentType = backstage.DefaultComponentType
	}
	owner := entity.Owner()

	docs := make([]*backstage.Document, 0, len(index.Docs))
	for _, entry := range index.Docs {
		text := html.UnescapeString(entry.Text)
		docs = append(docs, &backstage.Document{
			Title: html.UnescapeString(entry.Title),
			Text:  text,
			Location: backstage.FormatPath(c.template(), map[string]string{
				"kind":      key.Kind,
				"namespace": key.Namespace,
				"name":      key.Name,
				"path":      entry.Location,
			}),
			Path:          entry.Location,
			Kind:          key.Kind,
			Namespace:     key.Namespace,
			Name:          key.Name,
			EntityTitle:   entity.Metadata.Title,
			ComponentType: componentType,
			Lifecycle:     entity.Spec.Lifecycle,
			Owner:         owner,
			ContentHash:   computeHash(text),
		})
	}
	return docs
}

func (c *Collator) template() string {
	if c.Template == "" {
		return DefaultTemplate
	}
	return c.Template
}

func (c *Collator) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

func (c *Collator) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}
