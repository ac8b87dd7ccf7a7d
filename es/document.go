package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

type WriteResult struct {
	Index   string `json:"_index"`
	ID      string `json:"_id"`
	Version int64  `json:"_version"`
	Result  string `json:"result"`
}

type GetResult struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source,omitempty"`
}

func (c *Client) Index(ctx context.Context, index, docID string, doc any) (*WriteResult, error) {
	body, err := c.ser.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	opts := []func(*esapi.IndexRequest){
		c.es.Index.WithDocumentID(docID),
		c.es.Index.WithContext(ctx),
	}
	if c.refresh != "" {
		opts = append(opts, c.es.Index.WithRefresh(c.refresh))
	}

	res, err := c.es.Index(index, bytes.NewReader(body), opts...)
	if err != nil {
		return nil, err
	}

	var out WriteResult
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	c.log.Debug("indexed document", zap.String("index", index), zap.String("id", docID), zap.String("result", out.Result))
	return &out, nil
}

// Get fetches a document. A missing document is reported through
// GetResult.Found; a missing index is an error.
func (c *Client) Get(ctx context.Context, index, docID string) (*GetResult, error) {
	res, err := c.es.Get(index, docID, c.es.Get.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusNotFound {
		defer res.Body.Close()
		b, _ := io.ReadAll(res.Body)

		var missing struct {
			GetResult
			Error json.RawMessage `json:"error"`
		}
		if err := json.Unmarshal(b, &missing); err == nil && missing.Error == nil {
			return &missing.GetResult, nil
		}
		return nil, &ResponseError{StatusCode: res.StatusCode, Status: res.Status(), Body: b}
	}

	var out GetResult
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Delete(ctx context.Context, index, docID string) (*WriteResult, error) {
	opts := []func(*esapi.DeleteRequest){
		c.es.Delete.WithContext(ctx),
	}
	if c.refresh != "" {
		opts = append(opts, c.es.Delete.WithRefresh(c.refresh))
	}

	res, err := c.es.Delete(index, docID, opts...)
	if err != nil {
		return nil, err
	}

	var out WriteResult
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	c.log.Debug("deleted document", zap.String("index", index), zap.String("id", docID))
	return &out, nil
}

const (
	OpIndex  = "index"
	OpDelete = "delete"
)

// BulkAction is one entry of a bulk request. Doc is only sent for OpIndex.
type BulkAction struct {
	Op    string
	Index string
	ID    string
	Doc   any
}

type BulkResult struct {
	Took   int64                       `json:"took"`
	Errors bool                        `json:"errors"`
	Items  []map[string]BulkItemResult `json:"items"`
}

type BulkItemResult struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Status int             `json:"status"`
	Result string          `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// Item results reported by the engine.
const (
	ResultCreated  = "created"
	ResultUpdated  = "updated"
	ResultDeleted  = "deleted"
	ResultNotFound = "not_found"
)

// Count returns how many items finished with the given result.
func (r *BulkResult) Count(result string) int {
	n := 0
	for _, item := range r.Items {
		for _, res := range item {
			if res.Result == result {
				n++
			}
		}
	}
	return n
}

// Failed returns the items the engine rejected.
func (r *BulkResult) Failed() []BulkItemResult {
	var out []BulkItemResult
	for _, item := range r.Items {
		for _, res := range item {
			if res.Error != nil {
				out = append(out, res)
			}
		}
	}
	return out
}

func (c *Client) encodeBulk(actions []BulkAction) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, a := range actions {
		if a.Op != OpIndex && a.Op != OpDelete {
			return nil, fmt.Errorf("unsupported bulk op %q", a.Op)
		}

		meta := map[string]any{a.Op: map[string]any{"_index": a.Index, "_id": a.ID}}
		if err := enc.Encode(meta); err != nil {
			return nil, err
		}
		if a.Op != OpIndex {
			continue
		}

		doc, err := c.ser.Marshal(a.Doc)
		if err != nil {
			return nil, fmt.Errorf("marshal document %s/%s: %w", a.Index, a.ID, err)
		}
		// NDJSON needs the document on one line.
		if err := json.Compact(&buf, doc); err != nil {
			return nil, fmt.Errorf("document %s/%s is not valid JSON: %w", a.Index, a.ID, err)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Bulk sends all actions in one request. An empty slice sends nothing and
// returns nil.
func (c *Client) Bulk(ctx context.Context, actions []BulkAction) (*BulkResult, error) {
	if len(actions) == 0 {
		return nil, nil
	}

	body, err := c.encodeBulk(actions)
	if err != nil {
		return nil, err
	}

	opts := []func(*esapi.BulkRequest){
		c.es.Bulk.WithContext(ctx),
	}
	if c.refresh != "" {
		opts = append(opts, c.es.Bulk.WithRefresh(c.refresh))
	}

	res, err := c.es.Bulk(bytes.NewReader(body), opts...)
	if err != nil {
		return nil, err
	}

	var out BulkResult
	if err := decode(res, &out); err != nil {
		return nil, err
	}
	if out.Errors {
		c.log.Warn("bulk request had item errors", zap.Int("actions", len(actions)), zap.Int("failed", len(out.Failed())))
	} else {
		c.log.Debug("bulk request", zap.Int("actions", len(actions)))
	}
	return &out, nil
}
