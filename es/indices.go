package es

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

// Acknowledged is the reply of the index management endpoints.
type Acknowledged struct {
	Acknowledged       bool   `json:"acknowledged"`
	ShardsAcknowledged bool   `json:"shards_acknowledged,omitempty"`
	Index              string `json:"index,omitempty"`
}

func (c *Client) CreateIndex(ctx context.Context, index string, body map[string]any) (*Acknowledged, error) {
	opts := []func(*esapi.IndicesCreateRequest){
		c.es.Indices.Create.WithContext(ctx),
	}
	if len(body) > 0 {
		b, err := c.ser.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal index body: %w", err)
		}
		opts = append(opts, c.es.Indices.Create.WithBody(bytes.NewReader(b)))
	}

	res, err := c.es.Indices.Create(index, opts...)
	if err != nil {
		return nil, err
	}

	var out Acknowledged
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	c.log.Info("created index", zap.String("index", index))
	return &out, nil
}

func (c *Client) DeleteIndex(ctx context.Context, index string) (*Acknowledged, error) {
	res, err := c.es.Indices.Delete([]string{index}, c.es.Indices.Delete.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	var out Acknowledged
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	c.log.Info("deleted index", zap.String("index", index))
	return &out, nil
}

func (c *Client) PutMapping(ctx context.Context, index string, mapping map[string]any) (*Acknowledged, error) {
	b, err := c.ser.Marshal(mapping)
	if err != nil {
		return nil, fmt.Errorf("marshal mapping: %w", err)
	}

	res, err := c.es.Indices.PutMapping([]string{index}, bytes.NewReader(b), c.es.Indices.PutMapping.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	var out Acknowledged
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	c.log.Info("put mapping", zap.String("index", index))
	return &out, nil
}

func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, responseError(res)
	}
}
