package keysetpager

import (
	"bytes"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TypeTag declares the comparison domain of a sort key. Reference values are
// coerced to the tag's canonical Go type before any comparison.
type TypeTag string

const (
	// TypeInt covers signed and unsigned integers; canonical type int64.
	TypeInt TypeTag = "int"
	// TypeFloat covers floating point numbers; canonical type float64.
	TypeFloat TypeTag = "float"
	// TypeTime covers timestamps; canonical type time.Time.
	TypeTime TypeTag = "time"
	// TypeString covers text; canonical type string.
	TypeString TypeTag = "string"
	// TypeBool covers booleans, ordered false < true; canonical type bool.
	TypeBool TypeTag = "bool"
	// TypeUUID covers unique identifiers, ordered bytewise; canonical type uuid.UUID.
	TypeUUID TypeTag = "uuid"
	// TypeBytes covers opaque byte strings, ordered bytewise; canonical type []byte.
	TypeBytes TypeTag = "bytes"
)

// _comparators is the read-only dispatch table of three-way comparison
// functions for types without a native relational comparison. Fixed at
// process start; never mutated concurrently with in-flight requests.
var _comparators = map[TypeTag]func(a, b any) int{
	TypeString: func(a, b any) int { return strings.Compare(a.(string), b.(string)) },
	TypeBool: func(a, b any) int {
		av, bv := a.(bool), b.(bool)
		switch {
		case av == bv:
			return 0
		case bv: // false < true
			return -1
		default:
			return 1
		}
	},
	TypeUUID: func(a, b any) int {
		av, bv := a.(uuid.UUID), b.(uuid.UUID)
		return bytes.Compare(av[:], bv[:])
	},
	TypeBytes: func(a, b any) int { return bytes.Compare(a.([]byte), b.([]byte)) },
}

func (t TypeTag) Valid() bool {
	switch t {
	case TypeInt, TypeFloat, TypeTime:
		return true
	default:
		_, ok := _comparators[t]
		return ok
	}
}

// compareValues performs a three-way comparison of two values already coerced
// to the tag's canonical type. Numeric and temporal tags compare with native
// relational operators; opaque tags dispatch to the comparator table.
func compareValues(t TypeTag, a, b any) (int, error) {
	switch t {
	case TypeInt:
		return compareOrdered(a.(int64), b.(int64)), nil
	case TypeFloat:
		return compareOrdered(a.(float64), b.(float64)), nil
	case TypeTime:
		av, bv := a.(time.Time), b.(time.Time)
		switch {
		case av.Before(bv):
			return -1, nil
		case av.After(bv):
			return 1, nil
		default:
			return 0, nil
		}
	default:
		cmpFn, ok := _comparators[t]
		if !ok {
			return 0, &UnsupportedTypeError{Type: t}
		}

		return cmpFn(a, b), nil
	}
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
