package search

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/motormart/services/showroom/config"
	"example.com/motormart/services/showroom/internal/models"
)

// Client indexes completed sales and serves the report/search pages.
type Client interface {
	IndexSale(ctx context.Context, sale *models.Sale) error
	SearchSales(ctx context.Context, query map[string]interface{}) ([]map[string]interface{}, error)
}

// ElasticClient implements Client against Elasticsearch 7.
type ElasticClient struct {
	client *elasticsearch.Client
	config config.ElasticConfig
}

// NewElasticClient creates a new Elasticsearch client.
func NewElasticClient(cfg config.ElasticConfig) (*ElasticClient, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Elasticsearch client")
	}

	return &ElasticClient{client: client, config: cfg}, nil
}

// IndexSale indexes one completed sale. Indexing is a read-model concern:
// the caller treats failures as non-fatal and the database row stays the
// source of truth.
func (c *ElasticClient) IndexSale(ctx context.Context, sale *models.Sale) error {
	doc := map[string]interface{}{
		"id":             sale.ID.String(),
		"vehicle_id":     sale.VehicleID.String(),
		"vehicle_type":   string(sale.VehicleType),
		"vehicle_name":   sale.Brand + " " + sale.Model,
		"brand":          sale.Brand,
		"model":          sale.Model,
		"color":          sale.Color,
		"engine_number":  sale.EngineNumber,
		"chassis_number": sale.ChassisNumber,
		"payment_type":   string(sale.PaymentType),
		"total_amount":   sale.TotalAmount,
		"paid_amount":    sale.PaidAmount,
		"due_amount":     sale.DueAmount,
		"customer_name":  sale.CustomerName,
		"showroom":       sale.Showroom,
		"showroom_id":    sale.ShowroomID.String(),
		"sale_date":      sale.SaleDate,
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal sale document")
	}

	req := esapi.IndexRequest{
		Index:      config.FormatIndex(c.config, c.config.Index),
		DocumentID: sale.ID.String(),
		Body:       bytes.NewReader(docJSON),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return errors.Wrap(err, "failed to execute Elasticsearch index request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return errors.Errorf("Elasticsearch index error: %v", e)
	}

	log.Debug().Str("sale_id", sale.ID.String()).Msg("sale indexed")
	return nil
}

// SearchSales runs a raw query against the sales index and returns the
// matching documents.
func (c *ElasticClient) SearchSales(ctx context.Context, query map[string]interface{}) ([]map[string]interface{}, error) {
	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal search query")
	}

	req := esapi.SearchRequest{
		Index: []string{config.FormatIndex(c.config, c.config.Index)},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute Elasticsearch search request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return nil, errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return nil, errors.Errorf("Elasticsearch search error: %v", e)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to parse Elasticsearch search response")
	}

	hits, ok := result["hits"].(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected search result format")
	}
	hitsArray, ok := hits["hits"].([]interface{})
	if !ok {
		return nil, errors.New("unexpected hits format")
	}

	var docs []map[string]interface{}
	for _, hit := range hitsArray {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}
		docs = append(docs, source)
	}
	return docs, nil
}
