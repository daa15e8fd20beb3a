package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAttribute is returned when a layout already has an attribute with the same name.
	ErrDuplicateAttribute = errors.New("layout: duplicate attribute")
	// ErrInvalidAttribute is returned for definitions with an empty name.
	ErrInvalidAttribute = errors.New("layout: invalid attribute")
	// ErrInvalidDatatype is returned for zero-size or malformed datatypes.
	ErrInvalidDatatype = errors.New("layout: invalid datatype")
	// ErrOverlap is returned when two members would share bytes.
	ErrOverlap = errors.New("layout: overlapping members")
	// ErrOutOfRange is returned when a member extends past the layout size.
	ErrOutOfRange = errors.New("layout: member out of range")
	// ErrInvalidConversion is returned for datatype pairs that cannot be converted.
	ErrInvalidConversion = errors.New("layout: invalid conversion")
	// ErrUnsupportedType is returned for Go types that have no datatype.
	ErrUnsupportedType = errors.New("layout: unsupported Go type")
	// ErrNotRecord is returned when a record type is not a struct.
	ErrNotRecord = errors.New("layout: record type must be a struct")
	// ErrInvalidSchema is returned when a schema cannot be turned into a layout.
	ErrInvalidSchema = errors.New("layout: invalid schema")
)

// ConversionError reports an unsupported datatype conversion.
//
// It matches ErrInvalidConversion with errors.Is.
type ConversionError struct {
	From Datatype
	To   Datatype
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("layout: cannot convert %s to %s", e.From, e.To)
}

func (e *ConversionError) Unwrap() error { return ErrInvalidConversion }
