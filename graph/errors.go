package graph

import (
	"errors"
	"fmt"
)

// Structural and lookup errors returned by the graph model.
var (
	ErrDuplicatePort      = errors.New("port name already exists")
	ErrDuplicateParameter = errors.New("parameter name already exists")
	ErrDuplicateNode      = errors.New("node id already exists in scene")
	ErrSelfConnection     = errors.New("ports belong to the same node")
	ErrDirection          = errors.New("connection must run from an output to an input")
	ErrUnknownConnection  = errors.New("connection not found")
	ErrNodeNotFound       = errors.New("node not found")
	ErrPortNotFound       = errors.New("port not found")
	ErrParameterNotFound  = errors.New("parameter not found")
	ErrBackdropNotFound   = errors.New("backdrop not found")
	ErrNodeInScene        = errors.New("node already belongs to a scene")
	ErrNodeHasConnections = errors.New("node still has connections")
	ErrNotGroup           = errors.New("node is not a group")
	ErrBoundaryNode       = errors.New("node is a group boundary, change the group port instead")
)

// GraphError provides structured error information for model operations.
type GraphError struct {
	Op     string // Operation that failed (e.g., "AddInput", "Load")
	Entity string // Entity type (e.g., "node", "port", "connection")
	ID     string // Entity identifier, if any
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func newError(op, entity, id string, cause error) error {
	return &GraphError{Op: op, Entity: entity, ID: id, Cause: cause}
}

// IsNotFound returns true for any of the lookup failures.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound) ||
		errors.Is(err, ErrPortNotFound) ||
		errors.Is(err, ErrParameterNotFound) ||
		errors.Is(err, ErrBackdropNotFound) ||
		errors.Is(err, ErrUnknownConnection)
}

// ErrUnknownNodeType is reported by a NodeFactory for types it does not
// know. Scene.Load falls back to a generic node on this error only.
var ErrUnknownNodeType = errors.New("unknown node type")

// ErrConnectionLimit is returned when a document attaches more connections
// to a port than it accepts.
var ErrConnectionLimit = errors.New("port connection limit exceeded")
