package postgres

import (
	"strings"

	"github.com/google/uuid"

	"github.com/99minutos/freight-pricing/internal/core/domain"
	"github.com/99minutos/freight-pricing/internal/core/filter"
)

var cmpOps = map[filter.Op]string{
	filter.OpLt:  "<",
	filter.OpLte: "<=",
	filter.OpGt:  ">",
	filter.OpGte: ">=",
}

// Render translates a predicate into a SQL condition with ? placeholders,
// ready for gorm's Where. Field names are used as column names.
func Render(e filter.Expr) (string, []any) {
	var b strings.Builder
	var args []any
	render(&b, &args, e)
	return b.String(), args
}

func render(b *strings.Builder, args *[]any, e filter.Expr) {
	switch n := e.(type) {
	case filter.Const:
		if n.Value {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}
	case filter.Eq:
		v, ok := operand(n.Field, n.Value)
		if !ok {
			b.WriteString("FALSE")
			return
		}
		b.WriteString(string(n.Field) + " = ?")
		*args = append(*args, v)
	case filter.Ne:
		v, ok := operand(n.Field, n.Value)
		if !ok {
			b.WriteString("TRUE")
			return
		}
		b.WriteString("(" + string(n.Field) + " <> ? OR " + string(n.Field) + " IS NULL)")
		*args = append(*args, v)
	case filter.IsNull:
		b.WriteString(string(n.Field) + " IS NULL")
	case filter.Cmp:
		v, ok := operand(n.Field, n.Value)
		if !ok {
			b.WriteString("FALSE")
			return
		}
		b.WriteString(string(n.Field) + " " + cmpOps[n.Op] + " ?")
		*args = append(*args, v)
	case filter.Contains:
		b.WriteString("? = ANY(" + string(n.Field) + ")")
		*args = append(*args, n.Value)
	case filter.And:
		join(b, args, n.Terms, " AND ")
	case filter.Or:
		join(b, args, n.Terms, " OR ")
	default:
		b.WriteString("FALSE")
	}
}

func join(b *strings.Builder, args *[]any, terms []filter.Expr, sep string) {
	b.WriteByte('(')
	for i, t := range terms {
		if i > 0 {
			b.WriteString(sep)
		}
		render(b, args, t)
	}
	b.WriteByte(')')
}

// operand converts ids to uuids; ok is false for ids that cannot exist.
func operand(f filter.Field, v any) (any, bool) {
	if f != domain.FieldID {
		return v, true
	}
	s, _ := v.(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, false
	}
	return id, true
}
