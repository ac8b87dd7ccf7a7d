package model

import "docsync/resource"

var (
	_ Entity        = (*Record)(nil)
	_ SourceToggler = (*Record)(nil)
)

// Record is a table row described by a resource config.
type Record struct {
	Resource   *resource.Config
	Attributes map[string]any
}

func NewRecord(rc *resource.Config, attrs map[string]any) *Record {
	return &Record{Resource: rc, Attributes: attrs}
}

func (r *Record) Key() any {
	return r.Attributes[r.Resource.PrimaryKey]
}

func (r *Record) EsID() string {
	return DocumentID(r.Resource.IDPrefix, r.Key())
}

func (r *Record) EsIndexName() string {
	return r.Resource.GetIndexName()
}

func (r *Record) EsTypeName() string {
	return r.Resource.GetTypeName()
}

// EsData returns the configured fields, or every attribute when none are configured.
func (r *Record) EsData() any {
	if len(r.Resource.Fields) == 0 {
		data := make(map[string]any, len(r.Attributes))
		for name, v := range r.Attributes {
			data[name] = documentValue(v)
		}
		return data
	}
	data := make(map[string]any, len(r.Resource.Fields))
	for _, name := range r.Resource.FieldNames() {
		if v, ok := r.Attributes[name]; ok {
			data[name] = documentValue(v)
		}
	}
	return data
}

func (r *Record) EsIndexMapping() map[string]any {
	return r.Resource.Mapping
}

func (r *Record) EsIndexSettings() map[string]any {
	return r.Resource.Settings
}

func (r *Record) EsSourceEnabled() bool {
	return r.Resource.SourceEnabled()
}
