// Package runtime wires the parser, catalog, planner and minimizer together
// into the two operations §6 exposes to a caller: Minimize and Evaluate. It
// plays the role of the teacher's server/main entry points, minus the
// network listener — both operations here are one-shot file-to-file
// transforms.
package runtime

import (
	"os"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/internal/errs"
	"github.com/ryogrid/minibase-go/internal/queryio"
	"github.com/ryogrid/minibase-go/internal/schemaio"
	"github.com/ryogrid/minibase-go/minimize"
	"github.com/ryogrid/minibase-go/planner"
)

// Minimize reads a query from inputPath, computes its core, and writes the
// minimized query to outputPath.
func Minimize(inputPath, outputPath string) error {
	q, err := readQuery(inputPath)
	if err != nil {
		return err
	}

	core := minimize.Minimize(q)

	if err := os.WriteFile(outputPath, []byte(core.String()+"\n"), 0644); err != nil {
		return errs.Wrapf(errs.Io, "writing %s: %v", outputPath, err)
	}
	return nil
}

// Evaluate reads the schema at databaseDir and the query at queryPath, plans
// a left-deep operator tree over it, and writes result tuples to outputPath,
// one per line.
func Evaluate(databaseDir, queryPath, outputPath string) error {
	cat, err := schemaio.Load(databaseDir)
	if err != nil {
		return err
	}

	q, err := readQuery(queryPath)
	if err != nil {
		return err
	}

	root, err := planner.Plan(q, cat)
	if err != nil {
		return err
	}
	if err := root.Open(); err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return errs.Wrapf(errs.Io, "creating %s: %v", outputPath, err)
	}
	defer out.Close()

	return root.Dump(out)
}

func readQuery(path string) (*atom.Query, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrapf(errs.Io, "reading %s: %v", path, err)
	}
	q, err := queryio.Parse(string(raw))
	if err != nil {
		return nil, err
	}
	return q, nil
}
