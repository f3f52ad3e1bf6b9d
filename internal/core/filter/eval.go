package filter

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Record exposes field values to Eval. The second return value is false when
// the field is null.
type Record interface {
	FilterValue(f Field) (any, bool)
}

// Eval reports whether r satisfies e.
func Eval(e Expr, r Record) bool {
	switch n := e.(type) {
	case Const:
		return n.Value
	case Eq:
		v, ok := r.FilterValue(n.Field)
		if !ok {
			return false
		}
		c, ok := compare(v, n.Value)
		return ok && c == 0
	case Ne:
		v, ok := r.FilterValue(n.Field)
		if !ok {
			return true
		}
		c, ok := compare(v, n.Value)
		return !ok || c != 0
	case IsNull:
		_, ok := r.FilterValue(n.Field)
		return !ok
	case Cmp:
		v, ok := r.FilterValue(n.Field)
		if !ok {
			return false
		}
		c, ok := compare(v, n.Value)
		if !ok {
			return false
		}
		switch n.Op {
		case OpLt:
			return c < 0
		case OpLte:
			return c <= 0
		case OpGt:
			return c > 0
		case OpGte:
			return c >= 0
		}
		return false
	case Contains:
		v, ok := r.FilterValue(n.Field)
		if !ok {
			return false
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			if c, ok := compare(rv.Index(i).Interface(), n.Value); ok && c == 0 {
				return true
			}
		}
		return false
	case And:
		for _, t := range n.Terms {
			if !Eval(t, r) {
				return false
			}
		}
		return true
	case Or:
		for _, t := range n.Terms {
			if Eval(t, r) {
				return true
			}
		}
		return false
	}
	return false
}

// compare orders two scalar values. ok is false when they are not comparable.
func compare(a, b any) (int, bool) {
	if da, ok := toDecimal(a); ok {
		db, ok := toDecimal(b)
		if !ok {
			return 0, false
		}
		return da.Cmp(db), true
	}
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case bool:
		bv, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case av == bv:
			return 0, true
		case !av:
			return -1, true
		}
		return 1, true
	}
	return 0, false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Decimal{}, false
		}
		return *n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Decimal{}, false
}
