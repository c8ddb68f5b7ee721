package layout

import (
	"fmt"
	"strings"

	"toyc/internal/types"
)

// LayoutErrorKind enumerates types of layout calculation errors.
type LayoutErrorKind uint8

const (
	// LayoutErrCyclicValue indicates a struct that contains itself by value,
	// directly or through a cycle of value containment.
	LayoutErrCyclicValue LayoutErrorKind = iota + 1
	// LayoutErrUnknownType indicates a TypeID without a registered descriptor
	// or struct shape; an analyzer defect, never a user error.
	LayoutErrUnknownType
)

// LayoutError represents an error during memory layout calculation.
type LayoutError struct {
	Kind  LayoutErrorKind
	Type  types.TypeID
	Cycle []types.TypeID // for LayoutErrCyclicValue
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrCyclicValue:
		if len(e.Cycle) == 0 {
			return fmt.Sprintf("cyclic value layout (type#%d)", e.Type)
		}
		parts := make([]string, 0, len(e.Cycle))
		for _, id := range e.Cycle {
			parts = append(parts, fmt.Sprintf("type#%d", id))
		}
		return fmt.Sprintf("cyclic value layout (cycle: %s)", strings.Join(parts, " -> "))
	case LayoutErrUnknownType:
		return fmt.Sprintf("layout requested for unknown type#%d", e.Type)
	default:
		return fmt.Sprintf("layout error kind=%d type#%d", e.Kind, e.Type)
	}
}
