// Package export serializes a point store into database-ready schema and
// data statements and a structured summary report.
package export

import (
	"sort"

	"github.com/terralith/sitepoint-cli/internal/store"
)

// FieldType is the inferred relational type of an exported column.
type FieldType string

// Supported scalar types.
const (
	TypeInteger FieldType = "integer"
	TypeFloat   FieldType = "float"
	TypeText    FieldType = "text"
	TypeBoolean FieldType = "boolean"
)

// Field is one exported column.
type Field struct {
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// Fixed column names. The coordinate pair always exports at full input
// precision; annotation columns are nullable and filled by whichever
// stages ran.
const (
	ColID        = "id"
	ColLongitude = "longitude"
	ColLatitude  = "latitude"
	ColRegion    = "region"
	ColFlags     = "quality_flags"
	ColCluster   = "cluster_id"
)

// Schema is the ordered column list for an export: fixed columns, then
// attribute columns in first-seen order, then annotation columns.
type Schema struct {
	Fields []Field `json:"fields"`
	// attrs is the attribute sub-range of Fields, kept for row building.
	attrs []string
}

// AttributeFields returns the names of the attribute columns in order.
func (s Schema) AttributeFields() []string { return s.attrs }

// Infer derives the schema from the store. Attribute types widen as
// values conflict: integer to float to text; boolean only when every
// value is boolean.
func Infer(st *store.Store) Schema {
	order, types := attributeOrder(st)

	fields := []Field{
		{Name: ColID, Type: TypeText},
		{Name: ColLongitude, Type: TypeFloat},
		{Name: ColLatitude, Type: TypeFloat},
	}
	for _, key := range order {
		fields = append(fields, Field{Name: key, Type: types[key]})
	}
	fields = append(fields,
		Field{Name: ColRegion, Type: TypeText},
		Field{Name: ColFlags, Type: TypeText},
		Field{Name: ColCluster, Type: TypeInteger},
	)
	return Schema{Fields: fields, attrs: order}
}

// attributeOrder walks points in insertion order and each point's keys
// in sorted order, yielding a deterministic column order and widened
// types.
func attributeOrder(st *store.Store) ([]string, map[string]FieldType) {
	var order []string
	types := make(map[string]FieldType)

	for p := range st.All() {
		for _, key := range sortedKeys(p.Attributes) {
			inferred := scalarType(p.Attributes[key])
			if prev, seen := types[key]; seen {
				types[key] = widen(prev, inferred)
			} else {
				order = append(order, key)
				types[key] = inferred
			}
		}
	}
	return order, types
}

func scalarType(v any) FieldType {
	switch v.(type) {
	case bool:
		return TypeBoolean
	case int, int32, int64:
		return TypeInteger
	case float32, float64:
		return TypeFloat
	default:
		return TypeText
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// widen resolves a type conflict between values of one attribute.
func widen(a, b FieldType) FieldType {
	if a == b {
		return a
	}
	numeric := func(t FieldType) bool { return t == TypeInteger || t == TypeFloat }
	if numeric(a) && numeric(b) {
		return TypeFloat
	}
	return TypeText
}
