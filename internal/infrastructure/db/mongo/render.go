package mongo

import (
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
)

var cmpOps = map[filter.Op]string{
	filter.OpLt:  "$lt",
	filter.OpLte: "$lte",
	filter.OpGt:  "$gt",
	filter.OpGte: "$gte",
}

// matchNone is a filter no document satisfies; every document has an _id.
var matchNone = bson.M{"_id": bson.M{"$exists": false}}

// Render translates a predicate into a Mongo query document.
func Render(e filter.Expr) bson.M {
	switch n := e.(type) {
	case filter.Const:
		if n.Value {
			return bson.M{}
		}
		return matchNone
	case filter.Eq:
		key, v, ok := operand(n.Field, n.Value)
		if !ok {
			return matchNone
		}
		return bson.M{key: v}
	case filter.Ne:
		key, v, ok := operand(n.Field, n.Value)
		if !ok {
			return bson.M{}
		}
		return bson.M{key: bson.M{"$ne": v}}
	case filter.IsNull:
		return bson.M{column(n.Field): nil}
	case filter.Cmp:
		key, v, ok := operand(n.Field, n.Value)
		if !ok {
			return matchNone
		}
		return bson.M{key: bson.M{cmpOps[n.Op]: v}}
	case filter.Contains:
		key, v, ok := operand(n.Field, n.Value)
		if !ok {
			return matchNone
		}
		return bson.M{key: bson.M{"$in": bson.A{v}}}
	case filter.And:
		return bson.M{"$and": renderAll(n.Terms)}
	case filter.Or:
		return bson.M{"$or": renderAll(n.Terms)}
	}
	return matchNone
}

func renderAll(terms []filter.Expr) bson.A {
	out := make(bson.A, 0, len(terms))
	for _, t := range terms {
		out = append(out, Render(t))
	}
	return out
}

func column(f filter.Field) string {
	if f == domain.FieldID {
		return "_id"
	}
	return string(f)
}

// operand maps a field/value pair to its stored form. ok is false when the
// value can never be stored under that field, such as a malformed id or a
// decimal too precise for Decimal128.
func operand(f filter.Field, v any) (string, any, bool) {
	if f == domain.FieldID {
		s, _ := v.(string)
		oid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return "", nil, false
		}
		return "_id", oid, true
	}
	sv, err := storedValue(v)
	if err != nil {
		return "", nil, false
	}
	return column(f), sv, true
}

func storedValue(v any) (any, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return toDecimal128(x)
	case *decimal.Decimal:
		if x == nil {
			return nil, nil
		}
		return toDecimal128(*x)
	case int:
		return int64(x), nil
	}
	return v, nil
}
