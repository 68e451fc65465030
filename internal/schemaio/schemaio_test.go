package schemaio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ryogrid/minibase-go/catalog"
	"github.com/ryogrid/minibase-go/internal/errs"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "schema.txt"), []byte("R int int\nS string int\n"), 0644); err != nil {
		t.Fatalf("writing schema.txt: %v", err)
	}

	cat, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	r, err := cat.Lookup("R")
	if err != nil {
		t.Fatalf("lookup R: %v", err)
	}
	if r.Arity() != 2 || r.ColumnTypes[0] != catalog.Int {
		t.Fatalf("unexpected R schema: %+v", r)
	}
	if want := filepath.Join(dir, "files", "R.csv"); r.CSVPath != want {
		t.Fatalf("want CSVPath %q, got %q", want, r.CSVPath)
	}

	s, err := cat.Lookup("S")
	if err != nil {
		t.Fatalf("lookup S: %v", err)
	}
	if s.ColumnTypes[0] != catalog.Str {
		t.Fatalf("want string column, got %v", s.ColumnTypes[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, errs.Catalog) {
		t.Fatalf("want a catalog error, got %v", err)
	}
}

func TestLoadUnknownType(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "schema.txt"), []byte("R bool\n"), 0644); err != nil {
		t.Fatalf("writing schema.txt: %v", err)
	}
	_, err := Load(dir)
	if !errors.Is(err, errs.Catalog) {
		t.Fatalf("want a catalog error, got %v", err)
	}
}
