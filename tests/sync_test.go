package tests

import (
	"encoding/json"

	"docsync/app"
	"docsync/es"
	"docsync/model"
)

type articleDoc struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Author string `json:"author"`
}

func (t *TestSuite) seed() {
	t.insertArticles(
		article{Title: "Go in production", Body: "Channels and goroutines", Author: "ann"},
		article{Title: "Search basics", Body: "Inverted indices explained", Author: "bob"},
		article{Title: "Go generics", Body: "Type parameters in practice", Author: "ann"},
	)
}

func (t *TestSuite) Test_ResetAndReindex() {
	ctx := t.T().Context()
	x := model.NewRecord(t.articles, nil)

	t.Require().NoError(t.app.ResetIndex(ctx, x))

	exists, err := t.client.IndexExists(ctx, "articles")
	t.Require().NoError(err)
	t.Require().True(exists)

	t.seed()

	sum, err := t.app.ReindexFrom(ctx, t.store, t.articles)
	t.Require().NoError(err)
	t.Require().Equal(app.ReindexSummary{Batches: 2, Documents: 3}, sum)

	t.Run("search all", func() {
		res, err := t.app.Search(ctx, x, app.SearchRequest{Sort: []any{map[string]any{"id": "asc"}}})
		t.Require().NoError(err)
		t.Require().EqualValues(3, res.Total)

		docs, err := app.DecodeData[articleDoc](res)
		t.Require().NoError(err)
		t.Require().Equal([]articleDoc{
			{ID: 1, Title: "Go in production", Body: "Channels and goroutines", Author: "ann"},
			{ID: 2, Title: "Search basics", Body: "Inverted indices explained", Author: "bob"},
			{ID: 3, Title: "Go generics", Body: "Type parameters in practice", Author: "ann"},
		}, docs)
	})

	t.Run("unconfigured columns are not indexed", func() {
		res, err := t.app.Search(ctx, x, app.SearchRequest{Limit: 1})
		t.Require().NoError(err)
		t.Require().Len(res.Data, 1)

		var doc map[string]any
		t.Require().NoError(json.Unmarshal(res.Data[0], &doc))
		t.Require().NotContains(doc, "secret")
	})

	t.Run("query and paging", func() {
		req := app.SearchRequest{
			Query: map[string]any{"term": map[string]any{"author": "ann"}},
			Sort:  []any{map[string]any{"id": "desc"}},
			Page:  2,
			Limit: 1,
		}
		res, err := t.app.Search(ctx, x, req)
		t.Require().NoError(err)
		t.Require().EqualValues(2, res.Total)

		docs, err := app.DecodeData[articleDoc](res)
		t.Require().NoError(err)
		t.Require().Len(docs, 1)
		t.Require().Equal(1, docs[0].ID)
	})

	t.Run("source fields", func() {
		res, err := t.app.Search(ctx, x, app.SearchRequest{
			Query:        map[string]any{"match": map[string]any{"title": "search"}},
			SourceFields: []string{"title"},
		})
		t.Require().NoError(err)
		t.Require().Len(res.Data, 1)
		t.Require().JSONEq(`{"title":"Search basics"}`, string(res.Data[0]))
	})
}

func (t *TestSuite) Test_SyncAndRemoveKeys() {
	ctx := t.T().Context()
	x := model.NewRecord(t.articles, nil)

	_, err := t.app.CreateIndex(ctx, x, 0, 0)
	t.Require().NoError(err)
	t.seed()

	sum, err := t.app.SyncKeys(ctx, t.store, t.articles, []any{"2"})
	t.Require().NoError(err)
	t.Require().Equal(1, sum.Documents)

	found, err := t.app.Find(ctx, model.NewRecord(t.articles, map[string]any{"id": 2}))
	t.Require().NoError(err)
	t.Require().True(found.Found)
	t.Require().Equal("article_2", found.ID)

	missing, err := t.app.Find(ctx, model.NewRecord(t.articles, map[string]any{"id": 1}))
	t.Require().NoError(err)
	t.Require().False(missing.Found)

	_, err = t.pool.Exec(ctx, `UPDATE articles SET title = 'Search, revisited' WHERE id = 2`)
	t.Require().NoError(err)
	_, err = t.app.SyncKeys(ctx, t.store, t.articles, []any{2})
	t.Require().NoError(err)

	found, err = t.app.Find(ctx, model.NewRecord(t.articles, map[string]any{"id": 2}))
	t.Require().NoError(err)
	var doc articleDoc
	t.Require().NoError(json.Unmarshal(found.Source, &doc))
	t.Require().Equal("Search, revisited", doc.Title)

	res, err := t.app.RemoveKeys(ctx, t.articles, []any{2})
	t.Require().NoError(err)
	t.Require().Empty(res.Failed())

	found, err = t.app.Find(ctx, model.NewRecord(t.articles, map[string]any{"id": 2}))
	t.Require().NoError(err)
	t.Require().False(found.Found)
}

func (t *TestSuite) Test_SingleDocument() {
	ctx := t.T().Context()
	rec := model.NewRecord(t.articles, map[string]any{"id": 9, "title": "Standalone", "body": "b", "author": "cy", "secret": "s"})

	res, err := t.app.Index(ctx, rec)
	t.Require().NoError(err)
	t.Require().Equal("created", res.Result)

	got, err := t.app.Find(ctx, rec)
	t.Require().NoError(err)
	t.Require().JSONEq(`{"id":9,"title":"Standalone","body":"b","author":"cy"}`, string(got.Source))

	_, err = t.app.Delete(ctx, rec)
	t.Require().NoError(err)

	_, err = t.app.Delete(ctx, rec)
	t.Require().True(es.IsNotFound(err))
}

func (t *TestSuite) Test_PutMapping() {
	ctx := t.T().Context()
	x := model.NewRecord(t.articles, nil)

	_, err := t.client.CreateIndex(ctx, "articles", nil)
	t.Require().NoError(err)

	ok, err := t.app.PutMapping(ctx, x)
	t.Require().NoError(err)
	t.Require().True(ok)

	_, err = t.app.Search(ctx, x, app.SearchRequest{Query: map[string]any{"term": map[string]any{"author": "ann"}}})
	t.Require().NoError(err)
}

func (t *TestSuite) Test_UUIDKeys() {
	ctx := t.T().Context()
	const id = "12345678-1234-5678-1234-567812345678"

	_, err := t.pool.Exec(ctx, `INSERT INTO sessions (id, owner) VALUES ($1, 'ann')`, id)
	t.Require().NoError(err)

	sum, err := t.app.ReindexFrom(ctx, t.store, t.sessions)
	t.Require().NoError(err)
	t.Require().Equal(1, sum.Documents)

	found, err := t.app.Find(ctx, model.NewRecord(t.sessions, map[string]any{"id": id}))
	t.Require().NoError(err)
	t.Require().True(found.Found)
	t.Require().Equal("session_"+id, found.ID)
	t.Require().JSONEq(`{"id":"`+id+`","owner":"ann"}`, string(found.Source))

	res, err := t.app.RemoveKeys(ctx, t.sessions, []any{id})
	t.Require().NoError(err)
	t.Require().Equal(1, res.Count(es.ResultDeleted))

	found, err = t.app.Find(ctx, model.NewRecord(t.sessions, map[string]any{"id": id}))
	t.Require().NoError(err)
	t.Require().False(found.Found)
}
