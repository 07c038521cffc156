package application

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
	"github.com/oksasatya/recipe-share-api/pkg/helpers"
)

type esCall struct {
	Method string
	Path   string
	Body   map[string]any
}

func newFakeES(t *testing.T, searchHits []entity.Recipe) (*elasticsearch.Client, func() []esCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []esCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(b, &body)
		mu.Lock()
		calls = append(calls, esCall{Method: r.Method, Path: r.URL.Path, Body: body})
		mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/_search"):
			hits := make([]map[string]any, 0, len(searchHits))
			for _, h := range searchHits {
				hits = append(hits, map[string]any{"_source": h})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"hits": map[string]any{"hits": hits}})
		default:
			_, _ = w.Write([]byte(`{"result":"ok"}`))
		}
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, func() []esCall {
		mu.Lock()
		defer mu.Unlock()
		return append([]esCall(nil), calls...)
	}
}

func TestRecipeIndexPutAndSearch(t *testing.T) {
	hit := entity.Recipe{ID: 7, Title: "Lemon Tart", Ingredients: entity.Entries{"lemon"}, Steps: entity.Entries{}, IsValidate: true}
	es, calls := newFakeES(t, []entity.Recipe{hit})
	idx := NewRecipeIndex(es, "recipes", helpers.NopLogger())
	ctx := context.Background()

	require.True(t, idx.Enabled())
	require.NoError(t, idx.Put(ctx, &entity.Recipe{ID: 7, Title: "Lemon Tart"}))

	got, err := idx.Search(ctx, "lemon", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, "Lemon Tart", got[0].Title)

	require.NoError(t, idx.DeleteByOwner(ctx, 3))

	seen := calls()
	require.Len(t, seen, 3)
	assert.Equal(t, "/recipes/_doc/7", seen[0].Path)
	assert.Equal(t, "Lemon Tart", seen[0].Body["title"])
	assert.EqualValues(t, 20, seen[1].Body["size"])
	assert.Equal(t, "/recipes/_delete_by_query", seen[2].Path)
}

func TestSearchRecipesUsesIndexWhenConfigured(t *testing.T) {
	es, _ := newFakeES(t, []entity.Recipe{{ID: 99, Title: "From the index"}})
	f := newFixture(t, nil)
	f.recipes.Index = NewRecipeIndex(es, "recipes", helpers.NopLogger())

	got, err := f.recipes.SearchRecipes(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"From the index"}, titles(got))
}

func TestRecipeIndexDisabled(t *testing.T) {
	var idx *RecipeIndex
	assert.False(t, idx.Enabled())
	assert.NoError(t, idx.Put(context.Background(), &entity.Recipe{ID: 1}))
	assert.NoError(t, NewRecipeIndex(nil, "recipes", nil).DeleteByOwner(context.Background(), 1))
}

func TestEnsureIndexCreatesMissingIndex(t *testing.T) {
	var (
		mu      sync.Mutex
		methods []string
		created map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		methods = append(methods, r.Method+" "+r.URL.Path)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			_ = json.NewDecoder(r.Body).Decode(&created)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		}
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	idx := NewRecipeIndex(es, "recipes", nil)
	require.NoError(t, idx.EnsureIndex(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"HEAD /recipes", "PUT /recipes"}, methods)
	assert.Contains(t, created, "mappings")
}

func TestEnsureIndexKeepsExistingIndex(t *testing.T) {
	es, calls := newFakeES(t, nil)
	idx := NewRecipeIndex(es, "recipes", nil)
	require.NoError(t, idx.EnsureIndex(context.Background()))

	got := calls()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodHead, got[0].Method)
}
