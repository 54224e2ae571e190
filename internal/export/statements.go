package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/terralith/sitepoint-cli/internal/model"
	"github.com/terralith/sitepoint-cli/internal/store"
)

// DefaultTable is the target table when none is configured.
const DefaultTable = "site_points"

// sqlType maps an inferred field type to its SQL column type.
func sqlType(t FieldType) string {
	switch t {
	case TypeInteger:
		return "BIGINT"
	case TypeFloat:
		return "DOUBLE PRECISION"
	case TypeBoolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// CreateStatement renders a CREATE TABLE matching the schema. The id
// column is the primary key; every other column is nullable.
func CreateStatement(table string, schema Schema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdent(table))
	for i, f := range schema.Fields {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "\t%s %s", quoteIdent(f.Name), sqlType(f.Type))
		if f.Name == ColID {
			b.WriteString(" PRIMARY KEY")
		}
	}
	b.WriteString("\n);")
	return b.String()
}

// Rows materializes one value slice per point, aligned with the schema
// field order. Coordinates keep full input precision; attribute values
// pass through unconverted except for widening to the schema type.
func Rows(st *store.Store, schema Schema) [][]any {
	rows := make([][]any, 0, st.Size())
	for p := range st.All() {
		row := make([]any, 0, len(schema.Fields))
		row = append(row, p.ID, p.Lon, p.Lat)
		for _, key := range schema.attrs {
			val, ok := p.Attributes[key]
			if !ok {
				row = append(row, nil)
				continue
			}
			row = append(row, widenValue(val, fieldType(schema, key)))
		}
		row = append(row, regionValue(p), flagsValue(p), clusterValue(p))
		rows = append(rows, row)
	}
	return rows
}

// InsertStatements renders one INSERT per point in insertion order.
func InsertStatements(table string, st *store.Store, schema Schema) []string {
	cols := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = quoteIdent(f.Name)
	}
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES (", quoteIdent(table), strings.Join(cols, ", "))

	rows := Rows(st, schema)
	stmts := make([]string, 0, len(rows))
	for _, row := range rows {
		vals := make([]string, len(row))
		for i, v := range row {
			vals[i] = sqlLiteral(v)
		}
		stmts = append(stmts, prefix+strings.Join(vals, ", ")+");")
	}
	return stmts
}

func fieldType(schema Schema, name string) FieldType {
	for _, f := range schema.Fields {
		if f.Name == name {
			return f.Type
		}
	}
	return TypeText
}

// widenValue converts a stored attribute to the schema's widened type so
// mixed integer/float columns export uniformly.
func widenValue(v any, t FieldType) any {
	switch t {
	case TypeFloat:
		switch n := v.(type) {
		case int:
			return float64(n)
		case int32:
			return float64(n)
		case int64:
			return float64(n)
		case float32:
			return float64(n)
		}
	case TypeText:
		if _, ok := v.(string); !ok {
			return fmt.Sprint(v)
		}
	}
	return v
}

func regionValue(p model.Point) any {
	if p.Region == nil {
		return nil
	}
	return *p.Region
}

// flagsValue joins the point's flags in lexical order as a single text
// cell, or nil when the point is clean.
func flagsValue(p model.Point) any {
	if len(p.Flags) == 0 {
		return nil
	}
	flags := p.Flags.Sorted()
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

func clusterValue(p model.Point) any {
	if p.ClusterID == nil {
		return nil
	}
	return int64(*p.ClusterID)
}

// sqlLiteral renders a Go value as a SQL literal. Floats use the
// shortest round-trip representation so export never loses precision.
func sqlLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(x), "'", "''") + "'"
	}
}

// quoteIdent double-quotes an identifier, escaping embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
