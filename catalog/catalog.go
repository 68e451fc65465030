// Package catalog resolves relation names to their column types and CSV
// file location. It plays the role of the teacher's catalog.Catalog /
// catalog.TableMetadata pair, but without a buffer pool behind it: relations
// here are flat CSV files rather than paged table heaps, so a Catalog is a
// plain immutable value handed to the runtime instead of a singleton
// guarding shared page state.
package catalog

import (
	"github.com/ryogrid/minibase-go/internal/errs"
)

// ColumnType is one of the two column types a relation's schema may use.
type ColumnType int

const (
	Int ColumnType = iota
	Str
)

func (c ColumnType) String() string {
	if c == Str {
		return "string"
	}
	return "int"
}

// RelationalSchema is a relation's name, its positional column types, and
// the path to the CSV file holding its rows.
type RelationalSchema struct {
	Name        string
	ColumnTypes []ColumnType
	CSVPath     string
}

// Arity returns the number of columns in the schema.
func (s *RelationalSchema) Arity() int { return len(s.ColumnTypes) }

// Catalog maps relation names to their resolved schema. It is built once by
// internal/schemaio and is read-only for the remainder of the process, so it
// carries no locking of its own.
type Catalog struct {
	schemas map[string]*RelationalSchema
}

// New wraps a name->schema map in a Catalog.
func New(schemas map[string]*RelationalSchema) *Catalog {
	return &Catalog{schemas: schemas}
}

// Lookup returns the schema for name, or a Catalog-kind error if it is
// unknown.
func (c *Catalog) Lookup(name string) (*RelationalSchema, error) {
	s, ok := c.schemas[name]
	if !ok {
		return nil, errs.Wrapf(errs.Catalog, "unknown relation %q", name)
	}
	return s, nil
}
