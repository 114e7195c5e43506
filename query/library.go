package query

import (
	"github.com/snapquery/snapquery/core"
)

// Library is a fixed, ordered registry of example queries. Order and
// identifiers are stable; nothing is sorted, filtered, or deduplicated
// at runtime.
type Library struct {
	examples []core.ExampleQuery
}

// NewLibrary creates a library over the given examples.
func NewLibrary(examples []core.ExampleQuery) *Library {
	return &Library{examples: examples}
}

// DefaultLibrary returns the curated examples shipped with the console.
// They rely only on engine introspection, so they work against any
// snapshot schema.
func DefaultLibrary() *Library {
	return NewLibrary([]core.ExampleQuery{
		{
			ID:          "tables",
			Name:        "List tables",
			Text:        "SELECT table_name, estimated_size AS estimated_rows, column_count\nFROM duckdb_tables()\nORDER BY table_name;",
			Description: "Every table in the snapshot with its estimated row count.",
		},
		{
			ID:          "schema",
			Name:        "Describe schema",
			Text:        "SELECT table_name, column_name, data_type\nFROM information_schema.columns\nORDER BY table_name, ordinal_position;",
			Description: "All columns and their types, grouped by table.",
		},
		{
			ID:          "views",
			Name:        "List views",
			Text:        "SELECT view_name, sql\nFROM duckdb_views()\nWHERE NOT internal\nORDER BY view_name;",
			Description: "User-defined views in the snapshot.",
		},
		{
			ID:          "size",
			Name:        "Database size",
			Text:        "SELECT * FROM pragma_database_size();",
			Description: "Block and memory usage of the loaded snapshot.",
		},
		{
			ID:          "version",
			Name:        "Engine version",
			Text:        "SELECT version();",
			Description: "Version of the embedded SQL engine.",
		},
	})
}

// Examples returns the registry in its fixed order.
func (l *Library) Examples() []core.ExampleQuery {
	out := make([]core.ExampleQuery, len(l.examples))
	copy(out, l.examples)
	return out
}

// Select returns the text registered under id. An unknown id returns
// ok=false and must not disturb the caller's current text.
func (l *Library) Select(id string) (text string, ok bool) {
	for _, example := range l.examples {
		if example.ID == id {
			return example.Text, true
		}
	}
	return "", false
}
