package store

import (
	"context"
	"fmt"

	"docsync/model"
	"docsync/resource"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Source = (*PostgresStore)(nil)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) All(ctx context.Context, rc *resource.Config) ([]*model.Record, error) {
	sql := fmt.Sprintf(`SELECT * FROM %s ORDER BY %s`,
		pgx.Identifier{rc.Table}.Sanitize(),
		pgx.Identifier{rc.PrimaryKey}.Sanitize(),
	)
	return s.records(ctx, s.pool, rc, sql)
}

// ByKeys compares keys as text so callers can pass ids from the command line
// regardless of the column type.
func (s *PostgresStore) ByKeys(ctx context.Context, rc *resource.Config, keys []any) ([]*model.Record, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	textKeys := make([]string, 0, len(keys))
	for _, k := range keys {
		textKeys = append(textKeys, fmt.Sprint(k))
	}

	pk := pgx.Identifier{rc.PrimaryKey}.Sanitize()
	sql := fmt.Sprintf(`SELECT * FROM %s WHERE %s::text = ANY($1) ORDER BY %s`,
		pgx.Identifier{rc.Table}.Sanitize(), pk, pk,
	)
	return s.records(ctx, s.pool, rc, sql, textKeys)
}

func (s *PostgresStore) records(ctx context.Context, q querier, rc *resource.Config, sql string, args ...any) ([]*model.Record, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collect %s rows: %w", rc.Table, err)
	}

	out := make([]*model.Record, 0, len(maps))
	for _, m := range maps {
		out = append(out, model.NewRecord(rc, m))
	}
	return out, nil
}
