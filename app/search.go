package app

import (
	"context"
	"encoding/json"
	"fmt"

	"docsync/model"
)

const (
	DefaultPage  = 1
	DefaultLimit = 15
)

// SearchRequest pages through an index. Zero Page and Limit use the defaults.
type SearchRequest struct {
	Query        map[string]any
	Page         int
	Limit        int
	SourceFields []string
	Sort         []any
	MinScore     float64
}

// SearchResult holds the _source of every hit of the requested page. Total
// counts all matches.
type SearchResult struct {
	Data     []json.RawMessage
	Total    int64
	Relation string
}

func (r SearchRequest) body() (map[string]any, error) {
	page, limit := r.Page, r.Limit
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if page < 0 {
		return nil, &InvalidArgumentError{Msg: fmt.Sprintf("page must be positive, got %d", page)}
	}
	if limit < 0 {
		return nil, &InvalidArgumentError{Msg: fmt.Sprintf("limit must be positive, got %d", limit)}
	}

	body := map[string]any{
		"size": limit,
		"from": (page - 1) * limit,
	}
	if r.MinScore != 0 {
		body["min_score"] = r.MinScore
	}
	if len(r.Query) > 0 {
		body["query"] = r.Query
	}
	if len(r.SourceFields) > 0 {
		body["_source"] = map[string]any{"includes": r.SourceFields}
	}
	if len(r.Sort) > 0 {
		body["sort"] = r.Sort
	}
	return body, nil
}

// Search queries the index of x.
func (a *App) Search(ctx context.Context, x model.Indexed, req SearchRequest) (*SearchResult, error) {
	body, err := req.body()
	if err != nil {
		return nil, err
	}

	res, err := a.es.Search(ctx, x.EsIndexName(), body)
	if err != nil {
		return nil, err
	}

	out := &SearchResult{
		Data:     make([]json.RawMessage, 0, len(res.Hits.Hits)),
		Total:    res.Hits.Total.Value,
		Relation: res.Hits.Total.Relation,
	}
	for _, h := range res.Hits.Hits {
		out.Data = append(out.Data, h.Source)
	}
	return out, nil
}

// DecodeData decodes every document of res into T.
func DecodeData[T any](res *SearchResult) ([]T, error) {
	out := make([]T, 0, len(res.Data))
	for i, raw := range res.Data {
		var v T
		if len(raw) == 0 {
			out = append(out, v)
			continue
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
