package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/course-marketplace/internal/application"
	"github.com/oksasatya/course-marketplace/internal/domain/entity"
	"github.com/oksasatya/course-marketplace/pkg/helpers"
)

const requestTimeout = 3 * time.Second

// CourseIndex keeps a title/category document per course in Elasticsearch.
type CourseIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewCourseIndex(es *elasticsearch.Client, index string) *CourseIndex {
	return &CourseIndex{es: es, index: index}
}

// Mapping indexes title and category as analyzed text; the rest is kept
// for filtering only.
const Mapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "title":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "category":    {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "author":      {"type": "text"},
      "author_id":   {"type": "keyword"},
      "price":       {"type": "long"},
      "is_featured": {"type": "boolean"},
      "updated_at":  {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index on first start.
func (i *CourseIndex) EnsureIndex(ctx context.Context) error {
	return helpers.EnsureESIndex(ctx, i.es, i.index, Mapping)
}

type courseDoc struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Author     string `json:"author"`
	AuthorID   string `json:"author_id"`
	Price      int64  `json:"price"`
	IsFeatured bool   `json:"is_featured"`
	UpdatedAt  string `json:"updated_at"`
}

func (i *CourseIndex) Index(ctx context.Context, c *entity.Course) error {
	b, err := json.Marshal(courseDoc{
		ID:         c.ID,
		Title:      c.Title,
		Category:   c.Category,
		Author:     c.Author,
		AuthorID:   c.AuthorID,
		Price:      c.Price,
		IsFeatured: c.IsFeatured,
		UpdatedAt:  c.UpdatedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: i.index, DocumentID: c.ID, Body: bytes.NewReader(b), Refresh: "false"}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(ctx, i.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", c.ID, res.Status())
	}
	return nil
}

func (i *CourseIndex) Remove(ctx context.Context, courseID string) error {
	req := esapi.DeleteRequest{Index: i.index, DocumentID: courseID}
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(ctx, i.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete %s: %s", courseID, res.Status())
	}
	return nil
}

// Search runs a multi_match over title and category and returns course ids
// ordered by score.
func (i *CourseIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"title^2", "category"},
				"fuzziness": "AUTO",
			},
		},
		"size":    size,
		"_source": false,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(b)),
	)
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

var _ application.CourseIndex = (*CourseIndex)(nil)
