package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/cornucopia-api/internal/application"
	"github.com/oksasatya/cornucopia-api/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// RecipeIndex keeps a searchable copy of recipes in Elasticsearch.
type RecipeIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewRecipeIndex(es *elasticsearch.Client, index string) *RecipeIndex {
	return &RecipeIndex{es: es, index: index}
}

func (x *RecipeIndex) Index(ctx context.Context, r *entity.Recipe) error {
	doc := map[string]any{
		"id":           r.ID,
		"profile_id":   r.ProfileID,
		"recipe_name":  r.RecipeName,
		"description":  r.Description,
		"ingredients":  r.Ingredients,
		"instructions": r.Instructions,
		"categories":   r.Categories,
		"created":      r.Created.Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: r.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", r.ID, res.Status())
	}
	return nil
}

// Remove ignores documents that were never indexed.
func (x *RecipeIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete %s: %s", id, res.Status())
	}
	return nil
}

const recipeMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "profile_id":   {"type": "keyword"},
      "recipe_name":  {"type": "text"},
      "description":  {"type": "text"},
      "ingredients":  {"type": "text"},
      "instructions": {"type": "text"},
      "categories":   {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "created":      {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (x *RecipeIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	exists, err := esapi.IndicesExistsRequest{Index: []string{x.index}}.Do(c, x.es)
	if err != nil {
		return err
	}
	_ = exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{Index: x.index, Body: strings.NewReader(recipeMapping)}.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	// 400 here is resource_already_exists from a concurrent create
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("es create index %s: %s", x.index, res.Status())
	}
	return nil
}

// searchBody is a multi_match over name, ingredients, categories and text,
// returning ids only.
func searchBody(q string, size int) ([]byte, error) {
	return json.Marshal(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"recipe_name^3", "ingredients^2", "categories^2", "description", "instructions"},
			},
		},
		"size":    size,
		"_source": false,
	})
}

func (x *RecipeIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	b, err := searchBody(q, size)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
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
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

var _ application.RecipeIndex = (*RecipeIndex)(nil)
