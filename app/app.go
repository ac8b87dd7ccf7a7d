package app

import (
	"errors"

	"docsync/es"
	"docsync/resource"

	"go.uber.org/zap"
)

var (
	ErrUnknownResource = errors.New("unknown resource")
)

type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return e.Msg
}

const defaultBatchSize = 500

type App struct {
	es *es.Client

	resources       resource.Configs
	defaultSettings map[string]any
	batchSize       int

	log *zap.Logger
}

type Option func(*App)

// WithDefaultIndexSettings sets the settings used for entities that define none.
func WithDefaultIndexSettings(settings map[string]any) Option {
	return func(a *App) { a.defaultSettings = settings }
}

func WithResources(resources resource.Configs) Option {
	return func(a *App) { a.resources = resources }
}

// WithBatchSize bounds the number of documents per bulk request when
// reindexing a whole resource.
func WithBatchSize(n int) Option {
	return func(a *App) {
		if n > 0 {
			a.batchSize = n
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(a *App) {
		if log != nil {
			a.log = log
		}
	}
}

func New(esClient *es.Client, opts ...Option) *App {
	a := &App{
		es:        esClient,
		batchSize: defaultBatchSize,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) Resource(name string) (*resource.Config, error) {
	rc := a.resources.Get(name)
	if rc == nil {
		return nil, ErrUnknownResource
	}
	return rc, nil
}
