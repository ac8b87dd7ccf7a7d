package app

import (
	"context"
	"fmt"

	"docsync/es"
	"docsync/model"
	"docsync/resource"
	"docsync/store"

	"go.uber.org/zap"
)

// BulkIndex indexes entities in one bulk request, in order. Nothing is sent
// for an empty slice and the result is nil.
func (a *App) BulkIndex(ctx context.Context, entities []model.Entity) (*es.BulkResult, error) {
	if len(entities) == 0 {
		return nil, nil
	}

	actions := make([]es.BulkAction, 0, len(entities))
	for _, e := range entities {
		id := model.IdentityOf(e)
		actions = append(actions, es.BulkAction{
			Op:    es.OpIndex,
			Index: id.Index,
			ID:    id.ID,
			Doc:   e.EsData(),
		})
	}
	return a.es.Bulk(ctx, actions)
}

// BulkDelete deletes the documents of entities in one bulk request.
func (a *App) BulkDelete(ctx context.Context, entities []model.Entity) (*es.BulkResult, error) {
	if len(entities) == 0 {
		return nil, nil
	}

	actions := make([]es.BulkAction, 0, len(entities))
	for _, e := range entities {
		id := model.IdentityOf(e)
		actions = append(actions, es.BulkAction{
			Op:    es.OpDelete,
			Index: id.Index,
			ID:    id.ID,
		})
	}
	return a.es.Bulk(ctx, actions)
}

// Reindex deletes and then indexes entities. It is not atomic: if indexing
// fails after the delete went through, the documents stay absent until the
// call is retried.
func (a *App) Reindex(ctx context.Context, entities []model.Entity) (*es.BulkResult, error) {
	if len(entities) == 0 {
		return nil, nil
	}

	if _, err := a.BulkDelete(ctx, entities); err != nil {
		return nil, err
	}
	return a.BulkIndex(ctx, entities)
}

type ReindexSummary struct {
	Batches   int
	Documents int
	Failed    int
}

// ReindexFrom reindexes every row of rc loaded from src, batchSize rows per
// bulk request. Item level failures are counted, not returned.
func (a *App) ReindexFrom(ctx context.Context, src store.Source, rc *resource.Config) (ReindexSummary, error) {
	records, err := src.All(ctx, rc)
	if err != nil {
		return ReindexSummary{}, fmt.Errorf("load %s: %w", rc.Resource, err)
	}
	return a.reindexBatches(ctx, rc, records)
}

// SyncKeys reindexes the rows of rc with the given primary keys.
func (a *App) SyncKeys(ctx context.Context, src store.Source, rc *resource.Config, keys []any) (ReindexSummary, error) {
	records, err := src.ByKeys(ctx, rc, keys)
	if err != nil {
		return ReindexSummary{}, fmt.Errorf("load %s: %w", rc.Resource, err)
	}
	return a.reindexBatches(ctx, rc, records)
}

// RemoveKeys deletes the documents of rc with the given primary keys without
// loading the rows.
func (a *App) RemoveKeys(ctx context.Context, rc *resource.Config, keys []any) (*es.BulkResult, error) {
	entities := make([]model.Entity, 0, len(keys))
	for _, k := range keys {
		entities = append(entities, model.NewRecord(rc, map[string]any{rc.PrimaryKey: k}))
	}
	return a.BulkDelete(ctx, entities)
}

func (a *App) reindexBatches(ctx context.Context, rc *resource.Config, records []*model.Record) (ReindexSummary, error) {
	var sum ReindexSummary

	entities := model.Entities(records)
	for start := 0; start < len(entities); start += a.batchSize {
		end := min(start+a.batchSize, len(entities))

		res, err := a.Reindex(ctx, entities[start:end])
		if err != nil {
			return sum, err
		}

		sum.Batches++
		sum.Documents += end - start
		if res != nil {
			sum.Failed += len(res.Failed())
		}

		a.log.Info("reindexed batch",
			zap.String("resource", rc.Resource),
			zap.Int("batch", sum.Batches),
			zap.Int("documents", end-start),
		)
	}

	if sum.Failed > 0 {
		a.log.Warn("reindex finished with failed documents", zap.String("resource", rc.Resource), zap.Int("failed", sum.Failed))
	}
	return sum, nil
}
