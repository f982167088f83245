package defold

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Parse parses a text document from bytes.
func Parse(data []byte, opt *ParseOptions) (*Document, error) {
	return Decode(bytes.NewReader(data), opt)
}

// Decode parses a text document from reader.
func Decode(r io.Reader, opt *ParseOptions) (*Document, error) {
	popt := opt.normalize()
	p := newParser(r, popt)
	return p.parseDocument()
}

// DecodeFile parses a text document from a file.
func DecodeFile(path string, opt *ParseOptions) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b, opt)
}

// parser represents a parser for the text format.
type parser struct {
	l   *lexer       // Lexer for the input
	buf token        // Buffered token
	has bool         // Has buffered token
	opt ParseOptions // Options for the parser
}

// newParser creates a new parser.
func newParser(r io.Reader, opt ParseOptions) *parser {
	return &parser{l: newLexer(r, opt), opt: opt}
}

// next returns the next token.
func (p *parser) next() (token, error) {
	if p.has {
		p.has = false
		return p.buf, nil
	}

	return p.l.next()
}

// peek returns the next token without consuming it.
func (p *parser) peek() (token, error) {
	if p.has {
		return p.buf, nil
	}

	tok, err := p.l.next()
	if err != nil {
		return tok, err
	}

	p.buf = tok
	p.has = true
	return tok, nil
}

// expect consumes the next token and checks its type.
func (p *parser) expect(tt tokenType) (token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}
	if tok.Type != tt {
		return tok, p.errorf(tok, "unexpected token %q", tok.Lit)
	}

	return tok, nil
}

// parseDocument parses top-level fields until EOF.
func (p *parser) parseDocument() (*Document, error) {
	body, err := p.parseBody(tokEOF)
	if err != nil {
		return nil, err
	}

	return &Document{nodes: body}, nil
}

// parseBody parses fields until the end token is consumed.
func (p *parser) parseBody(end tokenType) ([]node, error) {
	var body []node
	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		if tok.Type == end {
			_, _ = p.next()
			return body, nil
		}
		if tok.Type == tokEOF {
			return nil, p.errorf(tok, "unexpected end of input")
		}

		n, err := p.parseField()
		if err != nil {
			return nil, err
		}

		body = append(body, n)
	}
}

// parseField parses a scalar field or a nested block.
func (p *parser) parseField() (node, error) {
	nameTok, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}

	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	// Block without colon: name { ... }
	if tok.Type == tokLBrace {
		body, err := p.parseBody(tokRBrace)
		if err != nil {
			return nil, err
		}
		return blockNode{Name: nameTok.Lit, Body: body}, nil
	}

	if tok.Type != tokColon {
		return nil, p.errorf(tok, "expected ':' or '{' after %q", nameTok.Lit)
	}

	tok, err = p.next()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case tokLBrace:
		// Block with colon: name: { ... }
		body, err := p.parseBody(tokRBrace)
		if err != nil {
			return nil, err
		}
		return blockNode{Name: nameTok.Lit, Body: body}, nil

	case tokString:
		s, err := p.parseStringTail(tok.Lit)
		if err != nil {
			return nil, err
		}
		return fieldNode{Name: nameTok.Lit, Value: value{Kind: valueString, Str: s}}, nil

	case tokNumber:
		f, err := strconv.ParseFloat(tok.Lit, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid number %q", tok.Lit)
		}
		return fieldNode{Name: nameTok.Lit, Value: value{Kind: valueNumber, Num: f, Str: tok.Lit}}, nil

	case tokIdent:
		return fieldNode{Name: nameTok.Lit, Value: value{Kind: valueIdent, Str: tok.Lit}}, nil

	default:
		return nil, p.errorf(tok, "unexpected token %q for %q", tok.Lit, nameTok.Lit)
	}
}

// parseStringTail joins adjacent string literals ("a" "b" is "ab").
func (p *parser) parseStringTail(head string) (string, error) {
	s := head
	for {
		tok, err := p.peek()
		if err != nil {
			return "", err
		}
		if tok.Type != tokString {
			return s, nil
		}

		_, _ = p.next()
		s += tok.Lit
	}
}

// errorf formats a parse error at the token position.
func (p *parser) errorf(tok token, format string, args ...any) error {
	return fmt.Errorf("%w at %d:%d: %s", ErrParse, tok.Line, tok.Col, fmt.Sprintf(format, args...))
}
