package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/nmoreau/daylist/internal/config"
	"github.com/nmoreau/daylist/internal/models"
)

const DefaultIndex = "daylist"

// Document is the flattened form of a task or note kept in the index.
// UserID travels with every document so queries can be filtered to the
// owner.
type Document struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"user_id"`
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
}

// Client wraps the Elasticsearch client for owner-scoped full-text search.
// A nil *Client turns indexing into a no-op.
type Client struct {
	ES    *elasticsearch.Client
	Index string
}

func NewClient(cfg *config.Config) (*Client, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return &Client{ES: es, Index: DefaultIndex}, nil
}

func (c *Client) IndexTask(ctx context.Context, t *models.Task) error {
	if c == nil {
		return nil
	}
	return c.index(ctx, Document{
		ID:     t.ID,
		UserID: t.UserID,
		Kind:   "task",
		Title:  t.Title,
	})
}

func (c *Client) IndexNote(ctx context.Context, n *models.Note) error {
	if c == nil {
		return nil
	}
	return c.index(ctx, Document{
		ID:      n.ID,
		UserID:  n.UserID,
		Kind:    "note",
		Title:   n.Title,
		Content: n.Content,
	})
}

func (c *Client) Remove(ctx context.Context, id uuid.UUID) error {
	if c == nil {
		return nil
	}
	res, err := c.ES.Delete(c.Index, id.String(), c.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("search delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("search delete: %s", res.Status())
	}
	return nil
}

func (c *Client) index(ctx context.Context, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}

	res, err := c.ES.Index(
		c.Index,
		bytes.NewReader(data),
		c.ES.Index.WithDocumentID(doc.ID.String()),
		c.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("search index: %s", res.Status())
	}
	return nil
}

// Search matches title and content, always filtered to the owner's
// documents.
func (c *Client) Search(ctx context.Context, ownerID uuid.UUID, query string, from, size int) (int64, []Document, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": map[string]interface{}{
					"multi_match": map[string]interface{}{
						"query":     query,
						"fields":    []string{"title^2", "content"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]interface{}{
					"term": map[string]interface{}{
						"user_id": ownerID.String(),
					},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	res, err := c.ES.Search(
		c.ES.Search.WithContext(ctx),
		c.ES.Search.WithIndex(c.Index),
		c.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	docs := make([]Document, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		docs[i] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}
