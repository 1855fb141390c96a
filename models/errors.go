package models

import (
	"fmt"
	"strings"
)

// ValidationError rejects malformed or out-of-range input before any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError marks an unknown project or item id.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// CycleError rejects a dependency edit that would break acyclicity. Members
// holds the ids on the offending cycle; the stored graph is left untouched.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Members, " -> "))
}

// UnknownDependencyError rejects a dependency on an id that does not resolve
// to an item in the same project.
type UnknownDependencyError struct {
	Missing []string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("unknown dependency: %s", strings.Join(e.Missing, ", "))
}

// TransitionError rejects a lifecycle transition that violates the state
// machine rules.
type TransitionError struct {
	ItemID string
	From   ItemStatus
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s item %s in status %q", e.Action, e.ItemID, e.From)
}

// ConflictError signals a stale version on a concurrent write; the caller
// must re-read and retry.
type ConflictError struct {
	ItemID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("concurrent modification of item %s", e.ItemID)
}
