package core

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine.
var (
	ErrUnknownBlockType = errors.New("unknown block type")
	ErrUnknownProperty  = errors.New("unknown special property")
	ErrInvalidConfig    = errors.New("invalid engine config")
)

// InvariantError reports a corrupted lattice. It is raised with panic and
// recovered only at the level boundary, which stops the level.
type InvariantError struct {
	Op     string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("hexfall invariant violated in %s: %s", e.Op, e.Detail)
}

// invariant panics with an *InvariantError.
func invariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Detail: fmt.Sprintf(format, args...)})
}
