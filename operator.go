package keysetpager

import "fmt"

// Operator defines a comparison operator for filtering by column.
// Used in pagination boundary conditions.
type Operator string

const (
	OperatorGT  Operator = ">"
	OperatorLT  Operator = "<"
	OperatorGTE Operator = ">="
	OperatorLTE Operator = "<="

	// operatorEq is the equality operator. It is private because we use it
	// ONLY while building boundary conditions.
	operatorEq Operator = "="
)

func (o Operator) Valid() bool {
	switch o {
	case OperatorGT, OperatorLT, OperatorGTE, OperatorLTE:
		return true
	default:
		return false
	}
}

// orEqual returns the non-strict variant of a strict operator. Used for the
// access predicate on the leading sort column.
func (o Operator) orEqual() Operator {
	switch o {
	case OperatorGT:
		return OperatorGTE
	case OperatorLT:
		return OperatorLTE
	default:
		return o
	}
}

// holds reports whether the operator is satisfied by a three-way comparison
// result (negative/zero/positive for lhs </=/> rhs).
func (o Operator) holds(cmp int) bool {
	switch o {
	case OperatorGT:
		return cmp > 0
	case OperatorLT:
		return cmp < 0
	case OperatorGTE:
		return cmp >= 0
	case OperatorLTE:
		return cmp <= 0
	case operatorEq:
		return cmp == 0
	default:
		panic(fmt.Errorf("cannot evaluate operator '%s'", o))
	}
}

// operatorFor selects the strict boundary operator for one sort key:
//
//	| page direction | column direction | operator |
//	|----------------|------------------|----------|
//	| Forward        | ASC              | >        |
//	| Forward        | DESC             | <        |
//	| Backward       | ASC              | <        |
//	| Backward       | DESC             | >        |
func operatorFor(page PageDirection, column Direction) Operator {
	greater := (page == PageForward) != (column == DirectionDESC)
	if greater {
		return OperatorGT
	}

	return OperatorLT
}
