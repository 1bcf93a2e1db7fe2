package layout

import (
	"fmt"
	"strings"

	"mica/internal/types"
)

// ErrorKind enumerates layout computation failures.
type ErrorKind uint8

const (
	// ErrUnknownType: the type never got past Unknown, so it has no
	// concrete size.
	ErrUnknownType ErrorKind = iota + 1

	// ErrRecursive: a value type contains itself without indirection.
	ErrRecursive
)

// Error reports why a layout could not be computed.
type Error struct {
	Kind  ErrorKind
	Type  types.TypeID
	Cycle []types.TypeID
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnknownType:
		return fmt.Sprintf("cannot lay out unknown type (type#%d)", e.Type)
	case ErrRecursive:
		parts := make([]string, 0, len(e.Cycle))
		for _, id := range e.Cycle {
			parts = append(parts, fmt.Sprintf("type#%d", id))
		}
		return "recursive value type has infinite size: " + strings.Join(parts, " -> ")
	}
	return "layout error"
}
