package model

import (
	"fmt"

	"github.com/google/uuid"
)

// KeyString renders a primary key the way it appears in document ids.
// pgx scans uuid columns into [16]byte; those become the canonical
// 8-4-4-4-12 form so ids built from rows match ids built from strings.
func KeyString(key any) string {
	switch k := key.(type) {
	case nil:
		return ""
	case string:
		return k
	case [16]byte:
		return uuid.UUID(k).String()
	case []byte:
		return string(k)
	case fmt.Stringer:
		return k.String()
	}
	return fmt.Sprint(key)
}

// documentValue converts column values that have no useful JSON form.
func documentValue(v any) any {
	if b, ok := v.([16]byte); ok {
		return uuid.UUID(b).String()
	}
	return v
}
