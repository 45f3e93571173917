package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/logging"
)

const DefaultIndex = "products"

type Config struct {
	URL      string
	Username string
	Password string
	Index    string
}

// Service keeps a local full-text index of the catalog so storefront search
// does not round-trip the commerce API on every keystroke.
type Service struct {
	es    *elasticsearch.Client
	index string
}

func New(cfg Config) (*Service, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	index := cfg.Index
	if index == "" {
		index = DefaultIndex
	}
	return &Service{es: client, index: index}, nil
}

// IndexProducts upserts the given products into the index. Individual
// document failures are logged and skipped, a refresh pass should not die on
// one bad document.
func (s *Service) IndexProducts(ctx context.Context, products []api.Product) error {
	l := logging.FromContext(ctx)
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal product %s: %w", p.ID, err)
		}

		res, err := s.es.Index(
			s.index,
			bytes.NewReader(data),
			s.es.Index.WithContext(ctx),
			s.es.Index.WithDocumentID(p.ID),
		)
		if err != nil {
			return fmt.Errorf("index product %s: %w", p.ID, err)
		}
		if res.IsError() {
			l.Warn("index_product_failed", "product_id", p.ID, "status", res.Status())
		}
		res.Body.Close()
	}
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.es.Delete(s.index, id, s.es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	defer res.Body.Close()
	return nil
}

// Search runs a fuzzy multi_match over name and description, name boosted.
func (s *Service) Search(ctx context.Context, query string, from, size int) (int64, []api.Product, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(&buf),
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
				Source api.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("decode search response: %w", err)
	}

	products := make([]api.Product, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		products[i] = hit.Source
	}
	return r.Hits.Total.Value, products, nil
}
