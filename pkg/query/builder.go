package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY entry, named by projection field.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields reads the sort query parameter: comma separated field
// names, each optionally prefixed with "-" for descending order.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// condition is a WHERE fragment with one argument between each pair of
// consecutive text parts. Placeholders are numbered when the query is built,
// so conditions can be added in any order.
type condition struct {
	text []string
	args []any
}

// Builder assembles count, page and single-row queries over a projection.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder that orders by defaultSort unless the caller
// supplies a usable sort through OrderByFields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// OrderByFields replaces the default order. Fields the projection does not
// map are dropped, so client sort input never reaches the SQL text.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereEquals adds field = value. Nil values, including typed nil
// pointers, add nothing.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.add(condition{text: []string{b.projection.Column(field) + " = ", ""}, args: []any{value}})
}

// WhereContains adds a case-insensitive substring match. Nil or empty
// values add nothing.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.add(condition{
		text: []string{b.projection.Column(field) + " ILIKE ", ""},
		args: []any{"%" + *value + "%"},
	})
}

// WhereJSONHas matches rows whose JSON array field holds value as a string
// element. Nil or empty values add nothing.
func (b *Builder) WhereJSONHas(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.add(condition{
		text: []string{b.projection.Column(field) + "::jsonb @> to_jsonb(", "::text)"},
		args: []any{*value},
	})
}

// WhereSearch ORs a substring match across fields. A nil or empty search
// adds nothing.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	c := condition{text: []string{"("}}
	for i, field := range fields {
		sep := ""
		if i > 0 {
			sep = " OR "
		}
		c.text[len(c.text)-1] += sep + b.projection.Column(field) + " ILIKE "
		c.text = append(c.text, "")
		c.args = append(c.args, pattern)
	}
	c.text[len(c.text)-1] += ")"
	return b.add(c)
}

func (b *Builder) add(c condition) *Builder {
	b.conditions = append(b.conditions, c)
	return b
}

// BuildCount returns the COUNT(*) query for the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.projection.Table() + where, args
}

// BuildPage returns the ordered SELECT for one 1-based page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.where()
	sql := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(), b.projection.Table(), where, b.orderBy(),
		pageSize, (page-1)*pageSize,
	)
	return sql, args
}

// BuildSingle returns the SELECT for one row by its identifying field.
// Conditions added to the builder are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(), b.projection.Table(), b.projection.Column(idField),
	)
	return sql, []any{id}
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var sb strings.Builder
	var args []any
	sb.WriteString(" WHERE ")
	for i, c := range b.conditions {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		for j, arg := range c.args {
			args = append(args, arg)
			sb.WriteString(c.text[j])
			sb.WriteString("$" + strconv.Itoa(len(args)))
		}
		sb.WriteString(c.text[len(c.text)-1])
	}
	return sb.String(), args
}

func (b *Builder) orderBy() string {
	parts := b.sortColumns(b.sort)
	if len(parts) == 0 {
		parts = b.sortColumns(b.defaultSort)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func (b *Builder) sortColumns(fields []SortField) []string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		parts = append(parts, col+dir)
	}
	return parts
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
