package query

import (
	"slices"

	"github.com/jmoiron/sqlx"
)

// MaxLimit bounds every result set the builder produces.
const MaxLimit = 1000

// Condition is one "column operator value" term of the WHERE clause. Terms are
// always joined with AND.
type Condition struct {
	Column   string
	Operator string
	Value    any
}

// OrderClause is one ORDER BY term.
type OrderClause struct {
	Column    string
	Direction string
}

// Builder accumulates a single-table SELECT. The first validation failure is
// recorded and reported when the query is compiled or executed.
type Builder struct {
	db      sqlx.QueryerContext
	dialect Dialect
	table   string
	fields  []string
	conds   []Condition
	order   []OrderClause
	limit   int
	err     error
}

// New returns an empty builder selecting "*" and bound to db.
func New(db sqlx.QueryerContext, dialect Dialect) *Builder {
	return &Builder{db: db, dialect: dialect, fields: []string{"*"}}
}

func (b *Builder) clone() *Builder {
	c := *b
	c.fields = slices.Clone(b.fields)
	c.conds = slices.Clone(b.conds)
	c.order = slices.Clone(b.order)
	return &c
}

func (b *Builder) fail(err error) *Builder {
	c := b.clone()
	if c.err == nil {
		c.err = err
	}
	return c
}

// Err reports the first validation failure, if any.
func (b *Builder) Err() error {
	return b.err
}

// Dialect returns the dialect the builder compiles for.
func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// Table sets the table the query reads from. name must be a valid identifier.
func (b *Builder) Table(name string) *Builder {
	table, err := ValidateIdentifier(name)
	if err != nil {
		return b.fail(err)
	}
	c := b.clone()
	c.table = table
	return c
}

// Select replaces the projection. "*" is accepted; every other field must be a
// bare identifier. No fields at all means "*".
func (b *Builder) Select(fields ...string) *Builder {
	if len(fields) == 0 {
		fields = []string{"*"}
	}
	selected := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "*" {
			selected = append(selected, f)
			continue
		}
		field, err := ValidateIdentifier(f)
		if err != nil {
			return b.fail(err)
		}
		selected = append(selected, field)
	}
	c := b.clone()
	c.fields = selected
	return c
}

// Where adds an equality condition.
func (b *Builder) Where(column string, value any) *Builder {
	return b.WhereOp(column, "=", value)
}

// WhereOp adds a condition with an explicit operator. For IN and NOT IN the value
// may be a slice; a non-slice value is treated as a one-element list. For IS and
// IS NOT a nil value compiles to NULL.
func (b *Builder) WhereOp(column, operator string, value any) *Builder {
	col, err := ValidateIdentifier(column)
	if err != nil {
		return b.fail(err)
	}
	op, err := ValidateOperator(operator)
	if err != nil {
		return b.fail(err)
	}
	c := b.clone()
	c.conds = append(c.conds, Condition{Column: col, Operator: op, Value: value})
	return c
}

// OrderBy appends an ORDER BY term. Direction is DESC only for "desc".
func (b *Builder) OrderBy(column, direction string) *Builder {
	col, err := ValidateIdentifier(column)
	if err != nil {
		return b.fail(err)
	}
	c := b.clone()
	c.order = append(c.order, OrderClause{Column: col, Direction: normalizeDirection(direction)})
	return c
}

// Limit caps the rows returned by Get, clamped to [1, MaxLimit].
func (b *Builder) Limit(n int) *Builder {
	c := b.clone()
	c.limit = clamp(n, 1, MaxLimit)
	return c
}

func (b *Builder) effectiveLimit() int {
	if b.limit == 0 {
		return MaxLimit
	}
	return b.limit
}

func clamp(n, lo, hi int) int {
	return max(lo, min(n, hi))
}
