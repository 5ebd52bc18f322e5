package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by write operations that reference an entity
	// which does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTopicLocked is returned when a post is created on a locked topic.
	ErrTopicLocked = errors.New("topic is locked")
)

// ValidationError reports a missing or invalid required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a unique-constraint violation.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s is already taken", e.Field)
}

// EffectPolicy controls how side effects of a compound operation, such as
// notification creation, are treated when they fail. Core writes and counter
// updates are always part of the operation's transaction and are never
// subject to this policy.
type EffectPolicy int

const (
	// EffectBestEffort logs a failed side effect and lets the operation
	// succeed anyway.
	EffectBestEffort EffectPolicy = iota
	// EffectRequired surfaces a failed side effect as the operation's error.
	EffectRequired
)
