package operator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/catalog"
	"github.com/ryogrid/minibase-go/internal/errs"
	"github.com/ryogrid/minibase-go/term"
	"github.com/ryogrid/minibase-go/tuple"
)

// Scan reads one relation's CSV file line by line, decoding each row into a
// Tuple according to the relation's RelationalSchema. It is the only
// operator that touches a file handle directly, matching §5's "each Scan
// owns its CSV file handle; reset closes and reopens."
type Scan struct {
	schema *catalog.RelationalSchema
	rel    *atom.RelationalAtom

	f   *os.File
	sc  *bufio.Scanner
	end bool
}

// NewScan builds a Scan labeled with rel over the CSV file named by schema.
// rel's terms must be distinct variables (post-normalization); its arity
// must equal schema's arity.
func NewScan(schema *catalog.RelationalSchema, rel *atom.RelationalAtom) *Scan {
	return &Scan{schema: schema, rel: rel}
}

func (s *Scan) Atoms() []*atom.RelationalAtom { return []*atom.RelationalAtom{s.rel} }

func (s *Scan) Open() error {
	f, err := os.Open(s.schema.CSVPath)
	if err != nil {
		return errs.Wrapf(errs.Io, "opening %s: %v", s.schema.CSVPath, err)
	}
	s.f = f
	s.sc = bufio.NewScanner(f)
	s.end = false
	return nil
}

func (s *Scan) Next() (tuple.Tuple, bool, error) {
	if s.end {
		return nil, true, nil
	}
	for {
		if !s.sc.Scan() {
			if err := s.sc.Err(); err != nil {
				return nil, true, errs.Wrapf(errs.Io, "reading %s: %v", s.schema.CSVPath, err)
			}
			s.end = true
			return nil, true, nil
		}
		line := strings.TrimSpace(s.sc.Text())
		if line == "" {
			continue
		}
		t, err := s.decode(line)
		if err != nil {
			return nil, true, err
		}
		return t, false, nil
	}
}

func (s *Scan) decode(line string) (tuple.Tuple, error) {
	fields := strings.Split(line, ",")
	if len(fields) != len(s.schema.ColumnTypes) {
		return nil, errs.Wrapf(errs.TupleShape, "%s: row %q has %d fields, want %d", s.schema.Name, line, len(fields), len(s.schema.ColumnTypes))
	}

	t := make(tuple.Tuple, len(fields))
	for i, raw := range fields {
		field := strings.TrimSpace(raw)
		switch s.schema.ColumnTypes[i] {
		case catalog.Int:
			n, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				return nil, errs.Wrapf(errs.TupleShape, "%s: field %d %q is not an integer", s.schema.Name, i, field)
			}
			t[i] = term.IntConst{Value: n}
		case catalog.Str:
			t[i] = term.StrConst{Value: unquote(field)}
		default:
			return nil, errs.Wrapf(errs.Catalog, "%s: unknown column type at %d", s.schema.Name, i)
		}
	}
	return t, nil
}

// unquote strips a single pair of surrounding ' characters, if present.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

func (s *Scan) Reset() error {
	if s.f != nil {
		s.f.Close()
	}
	return s.Open()
}

func (s *Scan) Dump(w io.Writer) error {
	return dumpDefault(s, w)
}

// dumpDefault is the default Dump behaviour shared by every non-blocking
// operator: drain Next to end-of-stream, one formatted tuple per line.
func dumpDefault(op Operator, w io.Writer) error {
	for {
		t, done, err := op.Next()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if _, err := fmt.Fprintln(w, t.String()); err != nil {
			return errs.Wrap(errs.Io, err.Error())
		}
	}
}
