package keysetpager

import "fmt"

// ConfigurationError indicates an invalid keyset specification: zero sort
// keys, a duplicate or malformed column, a missing accessor. It is a
// programming defect, surfaced synchronously at build/compile time.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid keyset configuration: %s", e.Reason)
}

// MissingReferenceValueError indicates that the reference object supplied no
// value for a configured sort column.
type MissingReferenceValueError struct {
	Column string
}

func (e *MissingReferenceValueError) Error() string {
	return fmt.Sprintf("reference has no value for column '%s'", e.Column)
}

// TypeConversionError indicates that a reference value cannot be coerced to
// the column's declared type. Cross-type comparisons are never performed
// silently.
type TypeConversionError struct {
	Column string
	Value  any
	Type   TypeTag
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("cannot convert value %v (%T) of column '%s' to type '%s'", e.Value, e.Value, e.Column, e.Type)
}

// UnsupportedTypeError indicates a declared type that has neither a native
// relational comparison nor a registered three-way comparator.
type UnsupportedTypeError struct {
	Type TypeTag
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported sort key type '%s'", e.Type)
}
