package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tslkit/tslkit/internal/model"
)

// Resolver maps a property name in a constraint expression to its interned
// property. It returns an error for names the specification never defines.
type Resolver func(name string) (*model.Property, error)

// ParseExpr parses a constraint expression into the tagged expression tree,
// resolving property references through resolve.
//
// Grammar (precedence low to high):
//
//	expr   := term { "||" term }
//	term   := factor { "&&" factor }
//	factor := "!" factor | "(" expr ")" | IDENT
func ParseExpr(src string, resolve Resolver) (model.Expr, error) {
	toks, err := lexExpr(src)
	if err != nil {
		return nil, err
	}

	p := &exprParser{toks: toks, resolve: resolve}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q after expression", p.peek().text)
	}
	return e, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
}

// lexExpr tokenizes a constraint expression. Identifiers are runs of
// letters, digits, and underscores.
func lexExpr(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '!':
			toks = append(toks, token{tokNot, "!"})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '&':
			if !strings.HasPrefix(src[i:], "&&") {
				return nil, fmt.Errorf("single '&' (use '&&')")
			}
			toks = append(toks, token{tokAnd, "&&"})
			i += 2
		case c == '|':
			if !strings.HasPrefix(src[i:], "||") {
				return nil, fmt.Errorf("single '|' (use '||')")
			}
			toks = append(toks, token{tokOr, "||"})
			i += 2
		case isIdentRune(rune(c)):
			j := i
			for j < len(src) && isIdentRune(rune(src[j])) {
				j++
			}
			toks = append(toks, token{tokIdent, src[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q in expression", string(c))
		}
	}
	toks = append(toks, token{kind: tokEOF})
	return toks, nil
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

type exprParser struct {
	toks    []token
	pos     int
	resolve Resolver
}

func (p *exprParser) peek() token {
	return p.toks[p.pos]
}

func (p *exprParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *exprParser) parseOr() (model.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &model.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseAnd() (model.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &model.And{Left: left, Right: right}
	}
	return left, nil
}

func (p *exprParser) parseFactor() (model.Expr, error) {
	switch t := p.next(); t.kind {
	case tokNot:
		inner, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		// Fold bare negation into the leaf; keep Not only for groups and
		// stacked negations.
		if leaf, ok := inner.(*model.Leaf); ok && !leaf.Negated {
			return &model.Leaf{Prop: leaf.Prop, Negated: true}, nil
		}
		return &model.Not{Inner: inner}, nil

	case tokLParen:
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, fmt.Errorf("unmatched '(' in expression")
		}
		return e, nil

	case tokIdent:
		prop, err := p.resolve(t.text)
		if err != nil {
			return nil, err
		}
		return &model.Leaf{Prop: prop}, nil

	case tokRParen:
		return nil, fmt.Errorf("unmatched ')' in expression")

	case tokEOF:
		return nil, fmt.Errorf("expression ends where a property was expected")

	default:
		return nil, fmt.Errorf("unexpected %q in expression", t.text)
	}
}
