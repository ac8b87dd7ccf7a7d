package model

// Indexed is what index management needs to know about an entity type.
type Indexed interface {
	EsIndexName() string
	EsTypeName() string
	EsIndexMapping() map[string]any
	EsIndexSettings() map[string]any
}

// Entity is anything that can be stored as a search document.
type Entity interface {
	Indexed
	EsID() string
	EsData() any
}

// SourceToggler is implemented by entities that disable the _source field.
type SourceToggler interface {
	EsSourceEnabled() bool
}

// SourceEnabled reports whether x keeps _source. Entities that do not
// implement SourceToggler keep it.
func SourceEnabled(x Indexed) bool {
	if st, ok := x.(SourceToggler); ok {
		return st.EsSourceEnabled()
	}
	return true
}

// Identity addresses one document.
type Identity struct {
	Index string
	Type  string
	ID    string
}

func IdentityOf(e Entity) Identity {
	return Identity{
		Index: e.EsIndexName(),
		Type:  e.EsTypeName(),
		ID:    e.EsID(),
	}
}

func (id Identity) String() string {
	return id.Index + "/" + id.Type + "/" + id.ID
}

// DocumentID joins a prefix and a primary key.
func DocumentID(prefix string, key any) string {
	return prefix + KeyString(key)
}

// Entities converts a typed slice for the bulk operations.
func Entities[T Entity](xs []T) []Entity {
	out := make([]Entity, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
