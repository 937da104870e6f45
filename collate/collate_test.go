package collate_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/michaeldistler/backstage"
	"github.com/michaeldistler/backstage/collate"
	"github.com/michaeldistler/backstage/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCollator builds a Collator with happy-path discovery and token mocks.
func newCollator(catalog *mock.CatalogService, index *mock.SearchIndexService) *collate.Collator {
	return &collate.Collator{
		Discovery: &mock.DiscoveryService{
			BaseURLFn: func(_ context.Context, pluginID string) (string, error) {
				return "http://backstage.example.com/api/" + pluginID, nil
			},
		},
		Tokens: &mock.TokenService{
			TokenFn: func(_ context.Context) (string, error) {
				return "test-token", nil
			},
		},
		Catalog: catalog,
		Index:   index,
	}
}

func techDocsEntity(kind, namespace, name string) *backstage.Entity {
	return &backstage.Entity{
		Kind: kind,
		Metadata: backstage.EntityMetadata{
			Name:      name,
			Namespace: namespace,
			Annotations: map[string]string{
				backstage.TechDocsRefAnnotation: "dir:.",
			},
		},
	}
}

func TestCollator_Collate(t *testing.T) {
	t.Parallel()

	t.Run("maps index entries to documents", func(t *testing.T) {
		t.Parallel()

		entity := techDocsEntity("Component", "default", "foo")
		entity.Metadata.Title = "Foo Service"
		entity.Spec = backstage.EntitySpec{Type: "service", Lifecycle: "production"}
		entity.Relations = []backstage.EntityRelation{
			{Type: backstage.RelationOwnedBy, TargetRef: "group:default/team-a"},
		}

		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, _ backstage.EntityFilter, _ string) ([]*backstage.Entity, error) {
				return []*backstage.Entity{entity}, nil
			},
		}
		index := &mock.SearchIndexService{
			FetchFn: func(_ context.Context, _ string, _ backstage.EntityKey) (*backstage.SearchIndex, error) {
				return &backstage.SearchIndex{Docs: []backstage.IndexEntry{
					{Title: "Getting Started", Text: "Welcome", Location: "getting-started/"},
					{Title: "Reference", Text: "", Location: "reference/"},
				}}, nil
			},
		}

		stream, err := newCollator(catalog, index).Collate(context.Background())
		require.NoError(t, err)

		docs := stream.Collect(context.Background())
		require.Len(t, docs, 2)

		byPath := map[string]*backstage.Document{}
		for _, doc := range docs {
			byPath[doc.Path] = doc
		}

		doc := byPath["getting-started/"]
		require.NotNil(t, doc)
		assert.Equal(t, "Getting Started", doc.Title)
		assert.Equal(t, "Welcome", doc.Text)
		assert.Equal(t, "/docs/default/component/foo/getting-started/", doc.Location)
		assert.Equal(t, "component", doc.Kind)
		assert.Equal(t, "default", doc.Namespace)
		assert.Equal(t, "foo", doc.Name)
		assert.Equal(t, "Foo Service", doc.EntityTitle)
		assert.Equal(t, "service", doc.ComponentType)
		assert.Equal(t, "production", doc.Lifecycle)
		assert.Equal(t, "group:default/team-a", doc.Owner)
		assert.NotEmpty(t, doc.ContentHash)
	})

	t.Run("unescapes HTML entities in title and text", func(t *testing.T) {
		t.Parallel()

		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, _ backstage.EntityFilter, _ string) ([]*backstage.Entity, error) {
				return []*backstage.Entity{techDocsEntity("Component", "default", "foo")}, nil
			},
		}
		index := &mock.SearchIndexService{
			FetchFn: func(_ context.Context, _ string, _ backstage.EntityKey) (*backstage.SearchIndex, error) {
				return &backstage.SearchIndex{Docs: []backstage.IndexEntry{
					{Title: "A &amp; B", Text: "", Location: "index.html"},
				}}, nil
			},
		}

		stream, err := newCollator(catalog, index).Collate(context.Background())
		require.NoError(t, err)

		docs := stream.Collect(context.Background())
		require.Len(t, docs, 1)
		assert.Equal(t, "A & B", docs[0].Title)
		assert.Equal(t, "", docs[0].Text)
		assert.Equal(t, "/docs/default/component/foo/index.html", docs[0].Location)
		assert.Equal(t, "index.html", docs[0].Path)
	})

	t.Run("componentType defaults to other", func(t *testing.T) {
		t.Parallel()

		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, _ backstage.EntityFilter, _ string) ([]*backstage.Entity, error) {
				return []*backstage.Entity{techDocsEntity("Component", "default", "foo")}, nil
			},
		}
		index := &mock.SearchIndexService{
			FetchFn: func(_ context.Context, _ string, _ backstage.EntityKey) (*backstage.SearchIndex, error) {
				return &backstage.SearchIndex{Docs: []backstage.IndexEntry{
					{Title: "Home", Location: "index.html"},
				}}, nil
			},
		}

		stream, err := newCollator(catalog, index).Collate(context.Background())
		require.NoError(t, err)

		docs := stream.Collect(context.Background())
		require.Len(t, docs, 1)
		assert.Equal(t, "other", docs[0].ComponentType)
		assert.Equal(t, "", docs[0].Lifecycle)
		assert.Equal(t, "", docs[0].Owner)
	})

	t.Run("skips entities without the techdocs annotation", func(t *testing.T) {
		t.Parallel()

		var fetched sync.Map
		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, _ backstage.EntityFilter, _ string) ([]*backstage.Entity, error) {
				plain := &backstage.Entity{
					Kind:     "Component",
					Metadata: backstage.EntityMetadata{Name: "undocumented"},
				}
				return []*backstage.Entity{techDocsEntity("Component", "default", "foo"), plain}, nil
			},
		}
		index := &mock.SearchIndexService{
			FetchFn: func(_ context.Context, _ string, key backstage.EntityKey) (*backstage.SearchIndex, error) {
				fetched.Store(key.Name, true)
				return &backstage.SearchIndex{Docs: []backstage.IndexEntry{
					{Title: "Home", Location: "index.html"},
				}}, nil
			},
		}

		stream, err := newCollator(catalog, index).Collate(context.Background())
		require.NoError(t, err)

		docs := stream.Collect(context.Background())
		require.Len(t, docs, 1)
		assert.Equal(t, "foo", docs[0].Name)

		_, ok := fetched.Load("undocumented")
		assert.False(t, ok, "unannotated entity must not be fetched")
	})

	t.Run("legacy casing preserves the triplet", func(t *testing.T) {
		t.Parallel()

		var fetchedKey backstage.EntityKey
		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, _ backstage.EntityFilter, _ string) ([]*backstage.Entity, error) {
				return []*backstage.Entity{techDocsEntity("Component", "Default", "Foo")}, nil
			},
		}
		index := &mock.SearchIndexService{
			FetchFn: func(_ context.Context, _ string, key backstage.EntityKey) (*backstage.SearchIndex, error) {
				fetchedKey = key
				return &backstage.SearchIndex{Docs: []backstage.IndexEntry{
					{Title: "Home", Location: "index.html"},
				}}, nil
			},
		}

		c := newCollator(catalog, index)
		c.LegacyPathCasing = true

		stream, err := c.Collate(context.Background())
		require.NoError(t, err)

		docs := stream.Collect(context.Background())
		require.Len(t, docs, 1)
		assert.Equal(t, backstage.EntityKey{Kind: "Component", Namespace: "Default", Name: "Foo"}, fetchedKey)
		assert.Equal(t, "/docs/Default/Component/Foo/index.html", docs[0].Location)
	})

	t.Run("fetch failure isolates the entity", func(t *testing.T) {
		t.Parallel()

		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, _ backstage.EntityFilter, _ string) ([]*backstage.Entity, error) {
				return []*backstage.Entity{
					techDocsEntity("Component", "default", "broken"),
					techDocsEntity("Component", "default", "healthy"),
				}, nil
			},
		}
		index := &mock.SearchIndexService{
			FetchFn: func(_ context.Context, _ string, key backstage.EntityKey) (*backstage.SearchIndex, error) {
				if key.Name == "broken" {
					return nil, backstage.Errorf(backstage.EUNAVAILABLE, "HTTP 503")
				}
				return &backstage.SearchIndex{Docs: []backstage.IndexEntry{
					{Title: "Home", Location: "index.html"},
				}}, nil
			},
		}

		stream, err := newCollator(catalog, index).Collate(context.Background())
		require.NoError(t, err)

		docs := stream.Collect(context.Background())
		require.Len(t, docs, 1)
		assert.Equal(t, "healthy", docs[0].Name)
	})

	t.Run("discovery failure is fatal", func(t *testing.T) {
		t.Parallel()

		c := newCollator(&mock.CatalogService{}, &mock.SearchIndexService{})
		c.Discovery = &mock.DiscoveryService{
			BaseURLFn: func(_ context.Context, _ string) (string, error) {
				return "", backstage.Errorf(backstage.EUNAVAILABLE, "unknown plugin")
			},
		}

		_, err := c.Collate(context.Background())
		require.Error(t, err)
		assert.Equal(t, backstage.EUNAVAILABLE, backstage.ErrorCode(err))
	})

	t.Run("token failure is fatal", func(t *testing.T) {
		t.Parallel()

		c := newCollator(&mock.CatalogService{}, &mock.SearchIndexService{})
		c.Tokens = &mock.TokenService{
			TokenFn: func(_ context.Context) (string, error) {
				return "", backstage.Errorf(backstage.EUNAUTHORIZED, "no credentials")
			},
		}

		_, err := c.Collate(context.Background())
		require.Error(t, err)
		assert.Equal(t, backstage.EUNAUTHORIZED, backstage.ErrorCode(err))
	})

	t.Run("catalog failure is fatal and yields no documents", func(t *testing.T) {
		t.Parallel()

		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, _ backstage.EntityFilter, _ string) ([]*backstage.Entity, error) {
				return nil, errors.New("connection refused")
			},
		}

		stream, err := newCollator(catalog, &mock.SearchIndexService{}).Collate(context.Background())
		require.Error(t, err)
		assert.Nil(t, stream)
	})

	t.Run("passes token and field projection to the catalog", func(t *testing.T) {
		t.Parallel()

		var gotToken string
		var gotFields []string
		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, filter backstage.EntityFilter, token string) ([]*backstage.Entity, error) {
				gotToken = token
				gotFields = filter.Fields
				return nil, nil
			},
		}

		stream, err := newCollator(catalog, &mock.SearchIndexService{}).Collate(context.Background())
		require.NoError(t, err)

		assert.Empty(t, stream.Collect(context.Background()))
		assert.Equal(t, "test-token", gotToken)
		assert.Contains(t, gotFields, "metadata.annotations")
		assert.Contains(t, gotFields, "relations")
	})

	t.Run("bounds in-flight fetches to the configured limit", func(t *testing.T) {
		t.Parallel()

		const limit = 3
		const total = 20

		var inFlight, peak atomic.Int64
		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, _ backstage.EntityFilter, _ string) ([]*backstage.Entity, error) {
				entities := make([]*backstage.Entity, 0, total)
				for i := 0; i < total; i++ {
					entities = append(entities, techDocsEntity("Component", "default", "svc-"+string(rune('a'+i))))
				}
				return entities, nil
			},
		}
		gate := make(chan struct{})
		index := &mock.SearchIndexService{
			FetchFn: func(_ context.Context, _ string, _ backstage.EntityKey) (*backstage.SearchIndex, error) {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				<-gate
				inFlight.Add(-1)
				return &backstage.SearchIndex{Docs: []backstage.IndexEntry{
					{Title: "Home", Location: "index.html"},
				}}, nil
			},
		}

		c := newCollator(catalog, index)
		c.Concurrency = limit

		stream, err := c.Collate(context.Background())
		require.NoError(t, err)

		// Release the gate once consumption starts so queued fetches drain.
		close(gate)
		docs := stream.Collect(context.Background())

		assert.Len(t, docs, total)
		assert.LessOrEqual(t, peak.Load(), int64(limit))
	})

	t.Run("documents within one entity keep index order", func(t *testing.T) {
		t.Parallel()

		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, _ backstage.EntityFilter, _ string) ([]*backstage.Entity, error) {
				return []*backstage.Entity{techDocsEntity("Component", "default", "foo")}, nil
			},
		}
		index := &mock.SearchIndexService{
			FetchFn: func(_ context.Context, _ string, _ backstage.EntityKey) (*backstage.SearchIndex, error) {
				return &backstage.SearchIndex{Docs: []backstage.IndexEntry{
					{Title: "One", Location: "one/"},
					{Title: "Two", Location: "two/"},
					{Title: "Three", Location: "three/"},
				}}, nil
			},
		}

		stream, err := newCollator(catalog, index).Collate(context.Background())
		require.NoError(t, err)

		docs := stream.Collect(context.Background())
		require.Len(t, docs, 3)
		assert.Equal(t, "one/", docs[0].Path)
		assert.Equal(t, "two/", docs[1].Path)
		assert.Equal(t, "three/", docs[2].Path)
	})

	t.Run("custom template", func(t *testing.T) {
		t.Parallel()

		catalog := &mock.CatalogService{
			EntitiesFn: func(_ context.Context, _ backstage.EntityFilter, _ string) ([]*backstage.Entity, error) {
				return []*backstage.Entity{techDocsEntity("Component", "default", "foo")}, nil
			},
		}
		index := &mock.SearchIndexService{
			FetchFn: func(_ context.Context, _ string, _ backstage.EntityKey) (*backstage.SearchIndex, error) {
				return &backstage.SearchIndex{Docs: []backstage.IndexEntry{
					{Title: "Home", Location: "index.html"},
				}}, nil
			},
		}

		c := newCollator(catalog, index)
		c.Template = "/documentation/:name/:path"

		stream, err := c.Collate(context.Background())
		require.NoError(t, err)

		docs := stream.Collect(context.Background())
		require.Len(t, docs, 1)
		assert.Equal(t, "/documentation/foo/index.html", docs[0].Location)
	})
}
