package keysetpager

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	tConjunct struct {
		Column   string
		Value    any
		Operator Operator
	}

	tDisjunct []tConjunct
)

// Boundary is the compiled condition selecting rows strictly after/before the
// reference row in the effective total order. It is the disjunctive normal
// form (DNF) of the row-value comparison, emulated per column:
//
//	(C1 O1 V1) OR (C1 = V1 AND C2 O2 V2) ... OR (C1 = V1 AND ... AND Cn On Vn)
//
// where Oi is the strict operator selected by operatorFor. For specs with
// more than one column, the whole disjunction may additionally be ANDed with
// an access predicate: the or-equal variant of O1 applied to C1 alone. The
// access predicate is logically implied by the disjunction and never changes
// the result set; it only gives a query engine a simple, index-friendly
// condition on the leading column.
//
// A nil Boundary is the identity filter (first/last page, unfiltered).
// Boundaries are produced fresh per compilation and never mutated afterwards.
type Boundary struct {
	access    *tConjunct
	disjuncts []tDisjunct
}

// toGORMExpression converts a conjunct of the form Operator(Column, Value)
// into an SQL condition "Column Operator Value" represented as a clause.Expression.
//
// IMPORTANT: The method uses the SQL placeholder "?".
//
// Example:
//
//	tConjunct = { Column: "id", Operator: ">", Value: "123"}
//
// Result:
//
//	"id > 123"
func (c tConjunct) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a conjunct of the form Operator(Column, Value) to
// an SQL condition of the form "Column Operator ?" with a corresponding value.
// Returns the SQL string and the value for the placeholder.
//
// Example:
//
//	tConjunct = { Column: "id", Operator: ">", Value: 123}
//
// Result:
//
//	("id > ?", 123)
func (c tConjunct) toSQLClause() (string, driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), c.Value
}

// withEquality returns the conjunct with its operator replaced by equality.
// Used for the prefix part of each disjunct.
func (c tConjunct) withEquality() tConjunct {
	c.Operator = operatorEq
	return c
}

// toGORMExpression converts a disjunct (K1, K2, K3) into a gorm expression
// "K1 AND K2 AND K3" where each Ki is expanded via tConjunct.toGORMExpression.
func (d tDisjunct) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(d))
	for _, conjunct := range d {
		andExpressions = append(andExpressions, conjunct.toGORMExpression())
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts a disjunct (K1, K2, K3) into an SQL condition
// "(K1 AND K2 AND K3)" with corresponding values. Returns the SQL string and
// the list of values for placeholders.
//
// Example:
//
//	tDisjunct = {
//		{Column: "id", Operator: ">", Value: 5},
//		{Column: "name", Operator: "<", Value: "abc"}
//	}
//
// Result:
//
//	("(id > ? AND name < ?)", [5, "abc"])
func (d tDisjunct) toSQLClause() (string, []driver.Value) {
	andClauses := make([]string, 0, len(d))
	andValues := make([]driver.Value, 0, len(d))

	for _, conjunct := range d {
		andClause, andValue := conjunct.toSQLClause()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "", nil
}

// Apply applies the boundary condition to a gorm query. A nil boundary
// leaves the query unfiltered.
func (b *Boundary) Apply(db *gorm.DB) *gorm.DB {
	exp := b.toGORMExpression()
	if exp == nil {
		return db
	}

	return db.Clauses(exp)
}

// toGORMExpression converts the boundary into a clause.Expression: disjuncts
// are joined with OR, and the access predicate, when present, is ANDed with
// the whole disjunction.
func (b *Boundary) toGORMExpression() clause.Expression {
	if b == nil {
		return nil
	}

	orExpressions := make([]clause.Expression, 0, len(b.disjuncts))
	for _, disjunct := range b.disjuncts {
		andExpressions := disjunct.toGORMExpression()
		if andExpressions == nil {
			continue
		}

		orExpressions = append(orExpressions, andExpressions)
	}

	var dnfExpression clause.Expression
	if len(orExpressions) == 1 {
		dnfExpression = orExpressions[0]
	} else if len(orExpressions) > 1 {
		dnfExpression = clause.Or(orExpressions...)
	}

	if dnfExpression == nil {
		return nil
	}
	if b.access == nil {
		return dnfExpression
	}

	return clause.And(b.access.toGORMExpression(), dnfExpression)
}

// ToSQL converts the boundary into an SQL condition string with placeholder
// values.
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table WHERE %s", boundary.ToSQL())
//
// Example, for keys (created_at DESC, id ASC) paginating forward:
//
//	("(created_at <= ? AND ((created_at < ?) OR (created_at = ? AND id > ?)))",
//	 [t0, t0, t0, 5])
func (b *Boundary) ToSQL() (string, []driver.Value) {
	if b == nil {
		return "TRUE", nil
	}

	orClauses := make([]string, 0, len(b.disjuncts))
	values := make([]driver.Value, 0, len(b.disjuncts))

	for _, disjunct := range b.disjuncts {
		orClause, orValues := disjunct.toSQLClause()
		if orClause == "" {
			continue
		}

		orClauses = append(orClauses, orClause)
		values = append(values, orValues...)
	}

	if len(orClauses) == 0 {
		return "TRUE", nil
	}

	dnfClause := fmt.Sprintf("(%s)", strings.Join(orClauses, " OR "))
	if b.access == nil {
		return dnfClause, values
	}

	accessClause, accessValue := b.access.toSQLClause()

	return fmt.Sprintf("(%s AND %s)", accessClause, dnfClause),
		append([]driver.Value{accessValue}, values...)
}

// matches evaluates the boundary in memory against a single row, resolving
// row-side values through the spec's accessors and coercing them to each
// key's declared type before comparison.
func boundaryMatches[T any](spec *Spec[T], b *Boundary, row T) (bool, error) {
	if b == nil {
		return true, nil
	}

	if b.access != nil {
		ok, err := conjunctMatches(spec, *b.access, row)
		if err != nil || !ok {
			return false, err
		}
	}

	for _, disjunct := range b.disjuncts {
		matched := true
		for _, conjunct := range disjunct {
			ok, err := conjunctMatches(spec, conjunct, row)
			if err != nil {
				return false, err
			}
			if !ok {
				matched = false
				break
			}
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}

func conjunctMatches[T any](spec *Spec[T], c tConjunct, row T) (bool, error) {
	key, ok := spec.keyByColumn(c.Column)
	if !ok {
		return false, &MissingReferenceValueError{Column: c.Column}
	}

	rowValue, err := coerceValue(c.Column, key.Type, key.Accessor(row))
	if err != nil {
		return false, err
	}

	cmp, err := compareValues(key.Type, rowValue, c.Value)
	if err != nil {
		return false, err
	}

	return c.Operator.holds(cmp), nil
}
