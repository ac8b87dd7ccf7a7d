package app

import (
	"context"

	"docsync/es"
	"docsync/model"
)

// Index upserts the document of e.
func (a *App) Index(ctx context.Context, e model.Entity) (*es.WriteResult, error) {
	id := model.IdentityOf(e)
	return a.es.Index(ctx, id.Index, id.ID, e.EsData())
}

// Delete removes the document of e.
func (a *App) Delete(ctx context.Context, e model.Entity) (*es.WriteResult, error) {
	id := model.IdentityOf(e)
	return a.es.Delete(ctx, id.Index, id.ID)
}

// Find fetches the stored document of e. A document that does not exist is
// returned with Found set to false.
func (a *App) Find(ctx context.Context, e model.Entity) (*es.GetResult, error) {
	id := model.IdentityOf(e)
	return a.es.Get(ctx, id.Index, id.ID)
}
