package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
)

// RecipeIndex mirrors recipes into Elasticsearch for full-text search.
// A nil client disables it.
type RecipeIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewRecipeIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *RecipeIndex {
	return &RecipeIndex{ES: es, Index: index, Logger: logger}
}

func (x *RecipeIndex) Enabled() bool { return x != nil && x.ES != nil && x.Index != "" }

var recipeMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"title":       map[string]any{"type": "text"},
			"category":    map[string]any{"type": "text", "fields": map[string]any{"raw": map[string]any{"type": "keyword"}}},
			"tips":        map[string]any{"type": "text"},
			"ingredients": map[string]any{"type": "text"},
			"userId":      map[string]any{"type": "long"},
			"is_validate": map[string]any{"type": "boolean"},
		},
	},
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *RecipeIndex) EnsureIndex(ctx context.Context) error {
	if !x.Enabled() {
		return nil
	}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := x.ES.Indices.Exists([]string{x.Index}, x.ES.Indices.Exists.WithContext(c))
	if err != nil {
		return err
	}
	_ = res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}
	if res.StatusCode != 404 {
		return fmt.Errorf("es index exists: %s", res.Status())
	}
	body, _ := json.Marshal(recipeMapping)
	res, err = x.ES.Indices.Create(x.Index,
		x.ES.Indices.Create.WithContext(c),
		x.ES.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}

// Put indexes the recipe document under its id.
func (x *RecipeIndex) Put(ctx context.Context, r *entity.Recipe) error {
	if !x.Enabled() {
		return nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.Index,
		DocumentID: strconv.FormatInt(r.ID, 10),
		Body:       bytes.NewReader(b),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// DeleteByOwner drops every document owned by userID.
func (x *RecipeIndex) DeleteByOwner(ctx context.Context, userID int64) error {
	if !x.Enabled() {
		return nil
	}
	body, _ := json.Marshal(map[string]any{
		"query": map[string]any{"term": map[string]any{"userId": userID}},
	})
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := x.ES.DeleteByQuery(
		[]string{x.Index},
		bytes.NewReader(body),
		x.ES.DeleteByQuery.WithContext(c),
		x.ES.DeleteByQuery.WithConflicts("proceed"),
	)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es delete by query: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over validated recipes.
func (x *RecipeIndex) Search(ctx context.Context, q string, size int) ([]entity.Recipe, error) {
	if size <= 0 || size > 50 {
		size = 20
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^3", "category^2", "tips", "ingredients"},
					},
				},
				"filter": map[string]any{"term": map[string]any{"is_validate": true}},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(c), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.Recipe `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Recipe, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

func (x *RecipeIndex) warn(err error, msg string, fields logrus.Fields) {
	if err == nil || x == nil || x.Logger == nil {
		return
	}
	x.Logger.WithError(err).WithFields(fields).Warn(msg)
}
