package view

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrSchemaMismatch is returned when a Go type does not describe the stored data.
	ErrSchemaMismatch = errors.New("view: schema mismatch")
	// ErrAttributeNotFound is returned when the buffer has no matching attribute.
	ErrAttributeNotFound = errors.New("view: attribute not found")
	// ErrUnalignedMemory is returned by reference views over memory that is
	// not aligned for the view's type.
	ErrUnalignedMemory = errors.New("view: memory not aligned for type")
)

// SchemaMismatchError describes why a Go type cannot view a buffer.
type SchemaMismatchError struct {
	Type     reflect.Type
	Expected string // what the buffer stores
	Actual   string // what the type describes
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("view: %s does not match the buffer: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }
