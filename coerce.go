package keysetpager

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// coerceValue converts a value to the canonical Go type of a TypeTag.
// Reference values arrive from heterogeneous sources (struct fields, decoded
// JSON tokens, raw maps), so every comparison domain accepts the lossless
// conversions below and nothing else. A failed conversion is a
// TypeConversionError; it never silently truncates or compares cross-type.
func coerceValue(column string, t TypeTag, v any) (any, error) {
	fail := func() (any, error) {
		return nil, &TypeConversionError{Column: column, Value: v, Type: t}
	}

	switch t {
	case TypeInt:
		switch vt := v.(type) {
		case int:
			return int64(vt), nil
		case int8:
			return int64(vt), nil
		case int16:
			return int64(vt), nil
		case int32:
			return int64(vt), nil
		case int64:
			return vt, nil
		case uint:
			return coerceUint64(column, t, v, uint64(vt))
		case uint8:
			return int64(vt), nil
		case uint16:
			return int64(vt), nil
		case uint32:
			return int64(vt), nil
		case uint64:
			return coerceUint64(column, t, v, vt)
		case float64:
			// JSON decodes numbers as float64. Accept only integral values.
			if vt == math.Trunc(vt) && !math.IsInf(vt, 0) {
				return int64(vt), nil
			}

			return fail()
		default:
			return fail()
		}

	case TypeFloat:
		switch vt := v.(type) {
		case float32:
			return float64(vt), nil
		case float64:
			return vt, nil
		case int:
			return float64(vt), nil
		case int32:
			return float64(vt), nil
		case int64:
			return float64(vt), nil
		default:
			return fail()
		}

	case TypeTime:
		switch vt := v.(type) {
		case time.Time:
			return vt, nil
		case string:
			return coerceTimeText(column, t, v, []byte(vt))
		case []byte:
			return coerceTimeText(column, t, v, vt)
		default:
			return fail()
		}

	case TypeString:
		switch vt := v.(type) {
		case string:
			return vt, nil
		case []byte:
			return string(vt), nil
		case fmt.Stringer:
			return vt.String(), nil
		default:
			return fail()
		}

	case TypeBool:
		if vt, ok := v.(bool); ok {
			return vt, nil
		}

		return fail()

	case TypeUUID:
		switch vt := v.(type) {
		case uuid.UUID:
			return vt, nil
		case [16]byte:
			return uuid.UUID(vt), nil
		case string:
			parsed, err := uuid.Parse(vt)
			if err != nil {
				return fail()
			}

			return parsed, nil
		case []byte:
			parsed, err := uuid.ParseBytes(vt)
			if err != nil {
				return fail()
			}

			return parsed, nil
		default:
			return fail()
		}

	case TypeBytes:
		switch vt := v.(type) {
		case []byte:
			return vt, nil
		case string:
			return []byte(vt), nil
		default:
			return fail()
		}

	default:
		return nil, &UnsupportedTypeError{Type: t}
	}
}

func coerceUint64(column string, t TypeTag, original any, v uint64) (any, error) {
	if v > math.MaxInt64 {
		return nil, &TypeConversionError{Column: column, Value: original, Type: t}
	}

	return int64(v), nil
}

func coerceTimeText(column string, t TypeTag, original any, text []byte) (any, error) {
	dst := time.Time{}
	if err := dst.UnmarshalText(text); err != nil {
		return nil, &TypeConversionError{Column: column, Value: original, Type: t}
	}

	return dst, nil
}
