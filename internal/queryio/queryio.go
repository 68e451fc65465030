// Package queryio parses the textual query grammar of §6: a head relational
// atom (optionally carrying a SUM aggregate), ":-", a comma-separated body
// of relational and comparison atoms, and a trailing ".". This plays the
// role of the external parser the design explicitly puts out of scope,
// implemented here only so the two cmd/ entry points have something to feed
// the planner and minimizer.
package queryio

import (
	"strconv"
	"strings"

	"github.com/ryogrid/minibase-go/atom"
	"github.com/ryogrid/minibase-go/internal/errs"
	"github.com/ryogrid/minibase-go/term"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokLParen
	tokRParen
	tokComma
	tokDot
	tokColonDash
	tokStar
	tokOp
)

type token struct {
	kind tokenKind
	text string
}

// Parse parses a single query of the form "head :- body.".
func Parse(text string) (*atom.Query, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	head, err := p.parseHeadAtom()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokColonDash); err != nil {
		return nil, err
	}

	var body []atom.Atom
	for {
		a, err := p.parseBodyAtom()
		if err != nil {
			return nil, err
		}
		body = append(body, a)
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(tokDot); err != nil {
		return nil, err
	}
	if p.cur().kind != tokEOF {
		return nil, errs.Wrap(errs.MalformedInput, "unexpected trailing content after query")
	}
	return &atom.Query{Head: head, Body: body}, nil
}

func lex(s string) ([]token, error) {
	var toks []token
	i, n := 0, len(s)

	for i < n {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case c == '.':
			toks = append(toks, token{tokDot, "."})
			i++
		case c == '*':
			toks = append(toks, token{tokStar, "*"})
			i++
		case c == ':' && i+1 < n && s[i+1] == '-':
			toks = append(toks, token{tokColonDash, ":-"})
			i += 2
		case c == '\'':
			j := i + 1
			for j < n && s[j] != '\'' {
				j++
			}
			if j >= n {
				return nil, errs.Wrap(errs.MalformedInput, "unterminated string literal")
			}
			toks = append(toks, token{tokString, s[i+1 : j]})
			i = j + 1
		case c == '=':
			toks = append(toks, token{tokOp, "="})
			i++
		case c == '!' && i+1 < n && s[i+1] == '=':
			toks = append(toks, token{tokOp, "!="})
			i += 2
		case c == '<':
			if i+1 < n && s[i+1] == '=' {
				toks = append(toks, token{tokOp, "<="})
				i += 2
			} else {
				toks = append(toks, token{tokOp, "<"})
				i++
			}
		case c == '>':
			if i+1 < n && s[i+1] == '=' {
				toks = append(toks, token{tokOp, ">="})
				i += 2
			} else {
				toks = append(toks, token{tokOp, ">"})
				i++
			}
		case c == '-' || (c >= '0' && c <= '9'):
			j := i + 1
			if c == '-' && (j >= n || s[j] < '0' || s[j] > '9') {
				return nil, errs.Wrapf(errs.MalformedInput, "unexpected '-' at position %d", i)
			}
			for j < n && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			toks = append(toks, token{tokInt, s[i:j]})
			i = j
		case isIdentStart(c):
			j := i + 1
			for j < n && isIdentPart(s[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, s[i:j]})
			i = j
		default:
			return nil, errs.Wrapf(errs.MalformedInput, "unexpected character %q at position %d", c, i)
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) peekNext() token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return token{tokEOF, ""}
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind) (token, error) {
	if p.cur().kind != k {
		return token{}, errs.Wrapf(errs.MalformedInput, "unexpected token %q", p.cur().text)
	}
	return p.advance(), nil
}

func (p *parser) parseTerm() (term.Term, error) {
	t := p.cur()
	switch t.kind {
	case tokIdent:
		p.advance()
		return term.Variable{Name: t.text}, nil
	case tokInt:
		p.advance()
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			return nil, errs.Wrapf(errs.MalformedInput, "invalid integer %q", t.text)
		}
		return term.IntConst{Value: n}, nil
	case tokString:
		p.advance()
		return term.StrConst{Value: t.text}, nil
	default:
		return nil, errs.Wrapf(errs.MalformedInput, "expected a term, got %q", t.text)
	}
}

func (p *parser) parseRelationalAtom() (*atom.RelationalAtom, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}

	var terms []term.Term
	if p.cur().kind != tokRParen {
		for {
			t, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			terms = append(terms, t)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return &atom.RelationalAtom{Name: name.text, Terms: terms}, nil
}

// parseHeadAtom is parseRelationalAtom plus support for one SUM(...) term
// among the head's arguments.
func (p *parser) parseHeadAtom() (*atom.RelationalAtom, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}

	var terms []term.Term
	var sum *atom.SumAggregate

	if p.cur().kind != tokRParen {
		for {
			if p.cur().kind == tokIdent && p.cur().text == "SUM" {
				p.advance()
				if _, err := p.expect(tokLParen); err != nil {
					return nil, err
				}
				var products []term.Term
				for {
					pt, err := p.parseTerm()
					if err != nil {
						return nil, err
					}
					products = append(products, pt)
					if p.cur().kind == tokStar {
						p.advance()
						continue
					}
					break
				}
				if _, err := p.expect(tokRParen); err != nil {
					return nil, err
				}
				sum = &atom.SumAggregate{ProductTerms: products}
			} else {
				t, err := p.parseTerm()
				if err != nil {
					return nil, err
				}
				terms = append(terms, t)
			}
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return &atom.RelationalAtom{Name: name.text, Terms: terms, Sum: sum}, nil
}

func (p *parser) parseBodyAtom() (atom.Atom, error) {
	if p.cur().kind == tokIdent && p.peekNext().kind == tokLParen {
		return p.parseRelationalAtom()
	}

	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	opTok, err := p.expect(tokOp)
	if err != nil {
		return nil, err
	}
	op, ok := atom.ParseComparisonOperator(opTok.text)
	if !ok {
		return nil, errs.Wrapf(errs.MalformedInput, "unknown comparison operator %q", opTok.text)
	}
	right, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	return &atom.ComparisonAtom{Left: left, Op: op, Right: right}, nil
}

// Format renders q back into the grammar Parse accepts: the text of
// q.String() with surrounding whitespace trimmed.
func Format(q *atom.Query) string {
	return strings.TrimSpace(q.String())
}
