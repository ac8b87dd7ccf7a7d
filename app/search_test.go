package app

import (
	"encoding/json"
	"net/http"
	"testing"

	"docsync/es/estest"

	"github.com/stretchr/testify/require"
)

const twoHits = `{"took":1,"hits":{"total":{"value":42,"relation":"eq"},"hits":[
	{"_index":"users","_id":"doc_1","_score":1.0,"_source":{"id":1,"name":"ann"}},
	{"_index":"users","_id":"doc_2","_score":0.9,"_source":{"id":2,"name":"bob"}}
]}}`

func TestSearchRequest_Paging(t *testing.T) {
	for page := 1; page <= 5; page++ {
		for _, limit := range []int{1, 7, 10, 15, 100} {
			body, err := SearchRequest{Page: page, Limit: limit}.body()
			require.NoError(t, err)
			require.Equal(t, limit, body["size"])
			require.Equal(t, (page-1)*limit, body["from"])
		}
	}
}

func TestSearchRequest_Defaults(t *testing.T) {
	body, err := SearchRequest{}.body()
	require.NoError(t, err)
	require.Equal(t, map[string]any{"size": 15, "from": 0}, body)
}

func TestSearchRequest_EmptyQueryOmitted(t *testing.T) {
	body, err := SearchRequest{Query: map[string]any{}, Page: 2, Limit: 10}.body()
	require.NoError(t, err)
	require.Equal(t, 10, body["from"])
	require.Equal(t, 10, body["size"])
	require.NotContains(t, body, "query")
	require.NotContains(t, body, "_source")
	require.NotContains(t, body, "sort")
	require.NotContains(t, body, "min_score")
}

func TestSearchRequest_OptionalParts(t *testing.T) {
	body, err := SearchRequest{
		Query:        map[string]any{"match": map[string]any{"name": "ann"}},
		SourceFields: []string{"name"},
		Sort:         []any{map[string]any{"id": "desc"}},
		MinScore:     0.5,
	}.body()
	require.NoError(t, err)

	b, err := json.Marshal(body)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"size": 15,
		"from": 0,
		"min_score": 0.5,
		"query": {"match": {"name": "ann"}},
		"_source": {"includes": ["name"]},
		"sort": [{"id": "desc"}]
	}`, string(b))
}

func TestSearchRequest_Invalid(t *testing.T) {
	var iae *InvalidArgumentError

	_, err := SearchRequest{Page: -1}.body()
	require.ErrorAs(t, err, &iae)
	require.Equal(t, "page must be positive, got -1", iae.Msg)

	_, err = SearchRequest{Limit: -5}.body()
	require.ErrorAs(t, err, &iae)
}

func TestSearch(t *testing.T) {
	a, tr := newTestApp(t, func(req estest.Request) estest.Response {
		return estest.Response{Body: twoHits}
	})

	res, err := a.Search(t.Context(), user{}, SearchRequest{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.EqualValues(t, 42, res.Total)
	require.Equal(t, "eq", res.Relation)
	require.Len(t, res.Data, 2)
	require.JSONEq(t, `{"id":2,"name":"bob"}`, string(res.Data[1]))

	req := tr.Requests()[0]
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "/users/_search", req.Path)
	require.JSONEq(t, `{"size":2,"from":4}`, string(req.Body))

	got, err := DecodeData[user](res)
	require.NoError(t, err)
	require.Equal(t, []user{{ID: 1, Name: "ann"}, {ID: 2, Name: "bob"}}, got)
}

func TestSearch_Idempotent(t *testing.T) {
	a, tr := newTestApp(t, func(req estest.Request) estest.Response {
		return estest.Response{Body: twoHits}
	})

	req := SearchRequest{Query: map[string]any{"match_all": map[string]any{}}, Page: 2, Limit: 5}
	first, err := a.Search(t.Context(), user{}, req)
	require.NoError(t, err)
	second, err := a.Search(t.Context(), user{}, req)
	require.NoError(t, err)

	require.Equal(t, first, second)
	reqs := tr.Requests()
	require.Equal(t, reqs[0].Body, reqs[1].Body)
}

func TestSearch_LegacyTotal(t *testing.T) {
	a, _ := newTestApp(t, func(req estest.Request) estest.Response {
		return estest.Response{Body: `{"hits":{"total":3,"hits":[{"_id":"1","_source":{"id":1}}]}}`}
	})

	res, err := a.Search(t.Context(), user{}, SearchRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 3, res.Total)
	require.Len(t, res.Data, 1)
}

func TestSearch_InvalidSendsNothing(t *testing.T) {
	a, tr := newTestApp(t, nil)

	_, err := a.Search(t.Context(), user{}, SearchRequest{Page: -2})
	require.Error(t, err)
	require.Empty(t, tr.Requests())
}

func TestDecodeData_MissingSource(t *testing.T) {
	got, err := DecodeData[user](&SearchResult{Data: []json.RawMessage{nil, json.RawMessage(`{"id":3}`)}})
	require.NoError(t, err)
	require.Equal(t, []user{{}, {ID: 3}}, got)

	_, err = DecodeData[user](&SearchResult{Data: []json.RawMessage{json.RawMessage(`[1]`)}})
	require.ErrorContains(t, err, "document 0")
}
