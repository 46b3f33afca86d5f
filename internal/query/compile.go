package query

import (
	"reflect"
	"strings"
)

func (b *Builder) check() error {
	if b.err != nil {
		return b.err
	}
	if b.table == "" {
		return ErrTableNotSet
	}
	return nil
}

// ToSQL compiles the bounded SELECT used by Get. Placeholders are "?"; the
// dialect rebinds them at execution time.
func (b *Builder) ToSQL() (string, []any, error) {
	if err := b.check(); err != nil {
		return "", nil, err
	}
	where, args := b.whereClause()

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.fields, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	sb.WriteString(where)
	sb.WriteString(b.orderClause(""))
	sb.WriteString(" LIMIT ?")

	return sb.String(), append(args, b.effectiveLimit()), nil
}

// CountSQL compiles the COUNT(*) statement over the same conditions. Projection,
// ordering and limit do not apply.
func (b *Builder) CountSQL() (string, []any, error) {
	if err := b.check(); err != nil {
		return "", nil, err
	}
	where, args := b.whereClause()
	return "SELECT COUNT(*) FROM " + b.table + where, args, nil
}

// PageSQL compiles the page statement used by Paginate. perPage above MaxLimit is
// clamped; page or perPage below 1 is rejected.
func (b *Builder) PageSQL(page, perPage int) (string, []any, error) {
	if err := b.check(); err != nil {
		return "", nil, err
	}
	if page < 1 || perPage < 1 {
		return "", nil, ErrInvalidPagination
	}
	perPage = min(perPage, MaxLimit)
	where, args := b.whereClause()

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.fields, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	sb.WriteString(where)
	sb.WriteString(b.orderClause(b.dialect.RowIdentity))
	sb.WriteString(" LIMIT ? OFFSET ?")

	return sb.String(), append(args, perPage, (page-1)*perPage), nil
}

func (b *Builder) whereClause() (string, []any) {
	if len(b.conds) == 0 {
		return "", nil
	}
	clauses := make([]string, 0, len(b.conds))
	var args []any
	for _, c := range b.conds {
		switch c.Operator {
		case "IN", "NOT IN":
			values := expandList(c.Value)
			if len(values) == 0 {
				// An empty list matches nothing.
				clauses = append(clauses, "1 = 0")
				continue
			}
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
			clauses = append(clauses, c.Column+" "+c.Operator+" ("+placeholders+")")
			args = append(args, values...)
		case "IS", "IS NOT":
			if c.Value == nil {
				clauses = append(clauses, c.Column+" "+c.Operator+" NULL")
				continue
			}
			clauses = append(clauses, c.Column+" "+c.Operator+" ?")
			args = append(args, c.Value)
		default:
			clauses = append(clauses, c.Column+" "+c.Operator+" ?")
			args = append(args, c.Value)
		}
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (b *Builder) orderClause(fallback string) string {
	if len(b.order) == 0 {
		if fallback == "" {
			return ""
		}
		return " ORDER BY " + fallback
	}
	terms := make([]string, len(b.order))
	for i, o := range b.order {
		terms[i] = o.Column + " " + o.Direction
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func expandList(v any) []any {
	if v == nil {
		return nil
	}
	if _, ok := v.([]byte); ok {
		return []any{v}
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
