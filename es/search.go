package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

type SearchResponse struct {
	Took     int64 `json:"took"`
	TimedOut bool  `json:"timed_out"`
	Hits     Hits  `json:"hits"`
}

type Hits struct {
	Total    Total    `json:"total"`
	MaxScore *float64 `json:"max_score"`
	Hits     []Hit    `json:"hits"`
}

type Hit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  *float64        `json:"_score"`
	Source json.RawMessage `json:"_source"`
	Sort   []any           `json:"sort,omitempty"`
}

// Total is the hit count. It decodes both the 7.x+ object form
// {"value": N, "relation": "eq"} and the older bare number.
type Total struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

func (t *Total) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = Total{}
		return nil
	}

	if b[0] != '{' {
		var n int64
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("hits.total: %w", err)
		}
		*t = Total{Value: n, Relation: "eq"}
		return nil
	}

	type plain Total
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("hits.total: %w", err)
	}
	*t = Total(p)
	return nil
}

// Search runs body against index. The body is sent as is.
func (c *Client) Search(ctx context.Context, index string, body map[string]any) (*SearchResponse, error) {
	b, err := c.ser.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}

	var out SearchResponse
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
