// Package filter is a small predicate algebra used to describe which price
// records a query or a conflict check selects.
//
// Expressions are plain values: the store adapters render them into their own
// query language (bson for MongoDB, SQL for Postgres) and Eval runs them
// directly against in-memory records.
package filter

// Field names a filterable attribute of a record.
type Field string

// Op is a comparison operator used by Cmp.
type Op string

const (
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpGt  Op = "gt"
	OpGte Op = "gte"
)

// Expr is a node of the predicate tree.
type Expr interface {
	isExpr()
}

// Const is a literal true/false predicate.
type Const struct {
	Value bool
}

// Eq matches records whose field equals Value.
type Eq struct {
	Field Field
	Value any
}

// Ne matches records whose field differs from Value. A null field counts as
// different.
type Ne struct {
	Field Field
	Value any
}

// IsNull matches records where the field is absent.
type IsNull struct {
	Field Field
}

// Cmp compares the field against Value. A null field never matches.
type Cmp struct {
	Field Field
	Op    Op
	Value any
}

// Contains matches records whose array field holds Value as an element.
type Contains struct {
	Field Field
	Value any
}

// And matches when every term matches.
type And struct {
	Terms []Expr
}

// Or matches when at least one term matches.
type Or struct {
	Terms []Expr
}

func (Const) isExpr()    {}
func (Eq) isExpr()       {}
func (Ne) isExpr()       {}
func (IsNull) isExpr()   {}
func (Cmp) isExpr()      {}
func (Contains) isExpr() {}
func (And) isExpr()      {}
func (Or) isExpr()       {}

// True returns the always-matching predicate.
func True() Expr { return Const{Value: true} }

// False returns the never-matching predicate.
func False() Expr { return Const{Value: false} }

// Equal builds an equality test. A nil value is treated as a null check so
// that "no region" stays a distinct scope value rather than a wildcard.
func Equal(f Field, v any) Expr {
	if v == nil {
		return IsNull{Field: f}
	}
	return Eq{Field: f, Value: v}
}

// NotEqual builds an inequality test.
func NotEqual(f Field, v any) Expr { return Ne{Field: f, Value: v} }

// Null builds an IsNull test.
func Null(f Field) Expr { return IsNull{Field: f} }

func Lt(f Field, v any) Expr  { return Cmp{Field: f, Op: OpLt, Value: v} }
func Lte(f Field, v any) Expr { return Cmp{Field: f, Op: OpLte, Value: v} }
func Gt(f Field, v any) Expr  { return Cmp{Field: f, Op: OpGt, Value: v} }
func Gte(f Field, v any) Expr { return Cmp{Field: f, Op: OpGte, Value: v} }

// Has builds an array membership test.
func Has(f Field, v any) Expr { return Contains{Field: f, Value: v} }

// AllOf conjoins terms, folding constants and flattening nested And nodes.
func AllOf(terms ...Expr) Expr {
	out := make([]Expr, 0, len(terms))
	for _, t := range terms {
		switch n := t.(type) {
		case nil:
			continue
		case Const:
			if !n.Value {
				return False()
			}
		case And:
			for _, inner := range n.Terms {
				if c, ok := inner.(Const); ok && !c.Value {
					return False()
				}
			}
			out = append(out, n.Terms...)
		default:
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return True()
	case 1:
		return out[0]
	}
	return And{Terms: out}
}

// AnyOf disjoins terms, folding constants and flattening nested Or nodes.
func AnyOf(terms ...Expr) Expr {
	out := make([]Expr, 0, len(terms))
	for _, t := range terms {
		switch n := t.(type) {
		case nil:
			continue
		case Const:
			if n.Value {
				return True()
			}
		case Or:
			for _, inner := range n.Terms {
				if c, ok := inner.(Const); ok && c.Value {
					return True()
				}
			}
			out = append(out, n.Terms...)
		default:
			out = append(out, t)
		}
	}
	switch len(out) {
	case 0:
		return False()
	case 1:
		return out[0]
	}
	return Or{Terms: out}
}

// IsNever reports whether e folded to the constant false predicate.
func IsNever(e Expr) bool {
	c, ok := e.(Const)
	return ok && !c.Value
}

// IsAlways reports whether e folded to the constant true predicate.
func IsAlways(e Expr) bool {
	c, ok := e.(Const)
	return ok && c.Value
}
