package sexp

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// ErrSyntax is returned when the input cannot be tokenized
var ErrSyntax = errors.New("sexp syntax error")

// PCADLexer defines the lexical structure of PCAD ASCII files.
// Strings have no escape sequences in PCAD exports; a quote always ends
// the string.
var PCADLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Symbol", Pattern: `[^\s()"]+`},
})

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Token represents a lexical token. Value is the raw token text, quotes
// included for strings.
type Token struct {
	Type   TokenType
	Value  string
	Offset int
}

// Span returns the byte range of the token
func (t Token) Span() Span {
	return Span{Start: t.Offset, End: t.Offset + len(t.Value)}
}

// Lexer tokenizes a PCAD document held in memory
type Lexer struct {
	lex   lexer.Lexer
	types map[lexer.TokenType]TokenType
	white lexer.TokenType
}

// NewLexer creates a new lexer over text
func NewLexer(text string) (*Lexer, error) {
	lex, err := PCADLexer.LexString("", text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	symbols := PCADLexer.Symbols()
	return &Lexer{
		lex: lex,
		types: map[lexer.TokenType]TokenType{
			symbols["LParen"]: TokenLeftParen,
			symbols["RParen"]: TokenRightParen,
			symbols["Symbol"]: TokenSymbol,
			symbols["String"]: TokenString,
		},
		white: symbols["Whitespace"],
	}, nil
}

// NextToken reads the next non-whitespace token from the input
func (l *Lexer) NextToken() (Token, error) {
	for {
		tok, err := l.lex.Next()
		if err != nil {
			return Token{}, fmt.Errorf("%w: %v", ErrSyntax, err)
		}

		if tok.EOF() {
			return Token{Type: TokenEOF, Offset: tok.Pos.Offset}, nil
		}

		if tok.Type == l.white {
			continue
		}

		typ, ok := l.types[tok.Type]
		if !ok {
			return Token{}, fmt.Errorf("%w: unexpected token %q at offset %d", ErrSyntax, tok.Value, tok.Pos.Offset)
		}

		return Token{Type: typ, Value: tok.Value, Offset: tok.Pos.Offset}, nil
	}
}
