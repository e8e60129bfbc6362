package gild

import (
	"fmt"
	"strings"
)

// StructureError reports a malformed task description. It is raised before
// normalization and aborts the whole compile call.
type StructureError struct {
	Task   string
	Reason string
}

func (e *StructureError) Error() string {
	name := e.Task
	if name == "" {
		name = anonymousName
	}
	return fmt.Sprintf("invalid task %s: %s", name, e.Reason)
}

func structureErrorf(task, format string, args ...interface{}) error {
	return &StructureError{Task: task, Reason: fmt.Sprintf(format, args...)}
}

// UndefinedTaskError reports an alias whose target is not in the task table.
type UndefinedTaskError struct {
	Name string
}

func (e *UndefinedTaskError) Error() string {
	return fmt.Sprintf("task %q is not defined", e.Name)
}

// CircularAliasError reports an alias chain that revisits a task name.
type CircularAliasError struct {
	Chain []string
}

func (e *CircularAliasError) Error() string {
	return fmt.Sprintf("circular alias: %s", strings.Join(e.Chain, " -> "))
}

// TransformContractError reports a transform returning something that is
// neither a file record, raw bytes, nor a string.
type TransformContractError struct {
	Task  string
	Path  string
	Value interface{}
}

func (e *TransformContractError) Error() string {
	return fmt.Sprintf("task %s: transform returned unsupported %T for %s; want *fsx.File, []byte or string",
		e.Task, e.Value, e.Path)
}

// InvalidTaskShapeError guards the composer against tasks that slipped past
// validation with no recognizable shape. Seeing one is a bug.
type InvalidTaskShapeError struct {
	Task string
	Kind Kind
}

func (e *InvalidTaskShapeError) Error() string {
	return fmt.Sprintf("task %s has unrecognized shape %d", e.Task, e.Kind)
}
