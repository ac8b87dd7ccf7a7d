package app

import (
	"context"
	"maps"

	"docsync/es"
	"docsync/model"
)

func (a *App) indexSettings(x model.Indexed) map[string]any {
	if s := x.EsIndexSettings(); len(s) > 0 {
		return s
	}
	return a.defaultSettings
}

func mappingBody(x model.Indexed) map[string]any {
	return map[string]any{
		"_source":    map[string]any{"enabled": model.SourceEnabled(x)},
		"properties": x.EsIndexMapping(),
	}
}

// CreateIndex creates the index of x with its settings and mapping. Positive
// shards and replicas override the configured settings.
func (a *App) CreateIndex(ctx context.Context, x model.Indexed, shards, replicas int) (*es.Acknowledged, error) {
	body := map[string]any{}

	settings := maps.Clone(a.indexSettings(x))
	if settings == nil && (shards > 0 || replicas > 0) {
		settings = map[string]any{}
	}
	if shards > 0 {
		settings["number_of_shards"] = shards
	}
	if replicas > 0 {
		settings["number_of_replicas"] = replicas
	}
	if len(settings) > 0 {
		body["settings"] = settings
	}

	if len(x.EsIndexMapping()) > 0 {
		body["mappings"] = mappingBody(x)
	}

	return a.es.CreateIndex(ctx, x.EsIndexName(), body)
}

func (a *App) DeleteIndex(ctx context.Context, x model.Indexed) (*es.Acknowledged, error) {
	return a.es.DeleteIndex(ctx, x.EsIndexName())
}

// PutMapping sends the mapping of x. It reports false without calling the
// engine when x has no mapping.
func (a *App) PutMapping(ctx context.Context, x model.Indexed) (bool, error) {
	if len(x.EsIndexMapping()) == 0 {
		return false, nil
	}

	if _, err := a.es.PutMapping(ctx, x.EsIndexName(), mappingBody(x)); err != nil {
		return false, err
	}
	return true, nil
}

// ResetIndex drops the index of x and creates it again, empty. A missing
// index is not an error.
func (a *App) ResetIndex(ctx context.Context, x model.Indexed) error {
	if _, err := a.DeleteIndex(ctx, x); err != nil && !es.IsNotFound(err) {
		return err
	}
	if _, err := a.CreateIndex(ctx, x, 0, 0); err != nil {
		return err
	}
	if _, err := a.PutMapping(ctx, x); err != nil {
		return err
	}
	return nil
}
