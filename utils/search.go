package utils

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

var ErrSearchUnavailable = errors.New("search engine unavailable")

// ProductDocument is what gets indexed for full-text search.
type ProductDocument struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Brand       string  `json:"brand"`
	Material    string  `json:"material"`
	Gender      string  `json:"gender"`
	CategoryID  uint    `json:"categoryId"`
	SellerID    uint    `json:"sellerId"`
	Price       float64 `json:"discountedPrice"`
	Status      string  `json:"status"`
}

func NewProductDocument(p *models.Product) ProductDocument {
	return ProductDocument{
		Name:        p.Name,
		Description: p.Description,
		Brand:       p.Brand,
		Material:    p.Material,
		Gender:      p.Gender,
		CategoryID:  p.CategoryID,
		SellerID:    p.SellerID,
		Price:       p.DiscountedPrice,
		Status:      p.Status,
	}
}

// ElasticSearch talks to the Elasticsearch REST API. A zero-value URL disables it and every
// call reports ErrSearchUnavailable so callers fall back to the database.
type ElasticSearch struct {
	index  string
	client *resty.Client
}

func NewElasticSearch(baseURL, index string) *ElasticSearch {
	if baseURL == "" {
		return &ElasticSearch{index: index}
	}
	return &ElasticSearch{
		index: index,
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(5*time.Second).
			SetHeader("Content-Type", "application/json"),
	}
}

func (e *ElasticSearch) Enabled() bool { return e.client != nil }

func (e *ElasticSearch) Index(ctx context.Context, p *models.Product) error {
	if !e.Enabled() {
		return ErrSearchUnavailable
	}
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(NewProductDocument(p)).
		Put(fmt.Sprintf("/%s/_doc/%d", e.index, p.ID))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("index product %d: status %d", p.ID, resp.StatusCode())
	}
	return nil
}

func (e *ElasticSearch) Remove(ctx context.Context, productID uint) error {
	if !e.Enabled() {
		return ErrSearchUnavailable
	}
	resp, err := e.client.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/%s/_doc/%d", e.index, productID))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		return fmt.Errorf("remove product %d: status %d", productID, resp.StatusCode())
	}
	return nil
}

// Search returns matching product ids ordered by relevance.
func (e *ElasticSearch) Search(ctx context.Context, query string, limit int) ([]uint, error) {
	if !e.Enabled() {
		return nil, ErrSearchUnavailable
	}
	body := map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"name^3", "brand^2", "description", "material"},
				"fuzziness": "AUTO",
			},
		},
		"_source": false,
	}
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/%s/_search", e.index))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", ErrSearchUnavailable, resp.StatusCode())
	}

	var ids []uint
	gjson.GetBytes(resp.Body(), "hits.hits").ForEach(func(_, hit gjson.Result) bool {
		id, err := strconv.ParseUint(hit.Get("_id").String(), 10, 64)
		if err == nil {
			ids = append(ids, uint(id))
		}
		return true
	})
	return ids, nil
}
