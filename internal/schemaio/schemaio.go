// Package schemaio reads a database directory's schema.txt into a Catalog.
// Each line is "<name> <type1> <type2> ...", with types "int" or "string";
// relation data lives at <databaseDir>/files/<name>.csv, per §6.
package schemaio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ryogrid/minibase-go/catalog"
	"github.com/ryogrid/minibase-go/internal/errs"
)

// Load reads databaseDir/schema.txt and builds a Catalog whose CSVPaths point
// into databaseDir/files/.
func Load(databaseDir string) (*catalog.Catalog, error) {
	path := filepath.Join(databaseDir, "schema.txt")
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrapf(errs.Catalog, "opening %s: %v", path, err)
	}
	defer f.Close()

	schemas := make(map[string]*catalog.RelationalSchema)
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, errs.Wrapf(errs.Catalog, "%s:%d: malformed schema line %q", path, lineNo, line)
		}
		name := fields[0]
		types := make([]catalog.ColumnType, len(fields)-1)
		for i, tname := range fields[1:] {
			ct, ok := parseColumnType(tname)
			if !ok {
				return nil, errs.Wrapf(errs.Catalog, "%s:%d: unknown column type %q", path, lineNo, tname)
			}
			types[i] = ct
		}
		schemas[name] = &catalog.RelationalSchema{
			Name:        name,
			ColumnTypes: types,
			CSVPath:     filepath.Join(databaseDir, "files", fmt.Sprintf("%s.csv", name)),
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrapf(errs.Io, "reading %s: %v", path, err)
	}
	return catalog.New(schemas), nil
}

func parseColumnType(s string) (catalog.ColumnType, bool) {
	switch s {
	case "int":
		return catalog.Int, true
	case "string":
		return catalog.Str, true
	default:
		return 0, false
	}
}
