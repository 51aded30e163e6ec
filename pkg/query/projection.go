// Package query builds the parameterized listing SQL behind the runs and
// prompts search endpoints.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps the field names clients filter and sort by to the
// qualified columns or SQL expressions of one table.
type ProjectionMap struct {
	schema  string
	table   string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjectionMap creates a ProjectionMap for schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps a column of the table to a field name.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	return p.ProjectExpr(p.alias+"."+column, field)
}

// ProjectExpr maps a SQL expression, such as a correlated subquery, to a
// field name. The expression is used verbatim in SELECT, WHERE and ORDER BY.
func (p *ProjectionMap) ProjectExpr(expr, field string) *ProjectionMap {
	p.columns[field] = expr
	p.order = append(p.order, expr)
	return p
}

// Table returns "schema.table alias".
func (p *ProjectionMap) Table() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the mapped column for field, or field itself when it is
// not mapped. Only code supplies these names; client sort input goes
// through Lookup.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.columns[field]; ok {
		return col
	}
	return field
}

// Lookup returns the mapped column for field and whether it exists.
func (p *ProjectionMap) Lookup(field string) (string, bool) {
	col, ok := p.columns[field]
	return col, ok
}

// Columns returns the SELECT list in projection order.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
