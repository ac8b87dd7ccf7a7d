package store

import (
	"context"

	"docsync/model"
	"docsync/resource"
)

// Source loads the rows a resource is built from.
type Source interface {
	// All returns every row of the resource's table.
	All(ctx context.Context, rc *resource.Config) ([]*model.Record, error)
	// ByKeys returns the rows whose primary key is in keys. Unknown keys are skipped.
	ByKeys(ctx context.Context, rc *resource.Config, keys []any) ([]*model.Record, error)
}
