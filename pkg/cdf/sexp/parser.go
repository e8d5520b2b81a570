package sexp

import (
	"fmt"
)

// Parser builds span-annotated S-expression trees from a lexer.
//
// The reader is lenient about bracket balance: a stray ')' at top level is
// skipped and a list still open at EOF is closed at the end of the input.
// Both cases are recorded as diagnostics instead of failing, since the
// rewrite only ever touches individual tokens.
type Parser struct {
	lexer       *Lexer
	current     Token
	size        int
	done        bool // EOF seen; the lexer is not called again
	diagnostics []Diagnostic
}

// NewParser creates a new parser for text
func NewParser(text string) (*Parser, error) {
	lex, err := NewLexer(text)
	if err != nil {
		return nil, err
	}
	return &Parser{lexer: lex, size: len(text)}, nil
}

// Parse parses all top-level S-expressions from text
func Parse(text string) ([]Node, error) {
	p, err := NewParser(text)
	if err != nil {
		return nil, err
	}
	return p.ParseAll()
}

// Diagnostics returns the irregularities recorded during parsing
func (p *Parser) Diagnostics() []Diagnostic {
	return p.diagnostics
}

// ParseAll parses all top-level S-expressions from the input
func (p *Parser) ParseAll() ([]Node, error) {
	var result []Node

	if err := p.advance(); err != nil {
		return nil, err
	}

	for p.current.Type != TokenEOF {
		if p.current.Type == TokenRightParen {
			p.note(p.current.Offset, "unbalanced ')' at top level")
		} else {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			result = append(result, expr)
		}

		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *Parser) advance() error {
	if p.done {
		return nil
	}
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.current = tok
	p.done = tok.Type == TokenEOF
	return nil
}

func (p *Parser) note(offset int, format string, args ...any) {
	p.diagnostics = append(p.diagnostics, Diagnostic{
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	})
}

// parseExpr parses a single S-expression starting at the current token
func (p *Parser) parseExpr() (Node, error) {
	switch p.current.Type {
	case TokenLeftParen:
		return p.parseList()

	case TokenSymbol:
		return &Atom{Value: p.current.Value, span: p.current.Span()}, nil

	case TokenString:
		raw := p.current.Value
		return &Atom{Value: raw[1 : len(raw)-1], Quoted: true, span: p.current.Span()}, nil

	default:
		return nil, fmt.Errorf("%w: unexpected %v at offset %d", ErrSyntax, p.current.Type, p.current.Offset)
	}
}

// parseList parses a list: ( ... )
func (p *Parser) parseList() (Node, error) {
	start := p.current.Offset
	var elements []Node

	for {
		if err := p.advance(); err != nil {
			return nil, err
		}

		switch p.current.Type {
		case TokenRightParen:
			return &List{elements: elements, span: Span{Start: start, End: p.current.Offset + 1}}, nil

		case TokenEOF:
			p.note(start, "list opened at offset %d is not closed", start)
			return &List{elements: elements, span: Span{Start: start, End: p.size}}, nil
		}

		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
	}
}
