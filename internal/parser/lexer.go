package parser

import (
	"strings"

	"github.com/danhper/eclair/internal/values"
)

// Lexer tokenizes Eclair source text.
type Lexer struct {
	src    string
	pos    int
	line   int
	column int
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, column: 1}
}

func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return c
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		c := l.peekByte()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.advance()
			continue
		}
		if c == '/' && l.peekByteAt(1) == '/' {
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
			continue
		}
		if c == '/' && l.peekByteAt(1) == '*' {
			l.advance()
			l.advance()
			for l.pos < len(l.src) && !(l.peekByte() == '*' && l.peekByteAt(1) == '/') {
				l.advance()
			}
			if l.pos < len(l.src) {
				l.advance()
				l.advance()
			}
			continue
		}
		break
	}
}

const punctChars = "+-*/%<>=!&|^~.,;:(){}[]"

var multiCharPuncts = []string{
	"<<=", ">>=", "**", "==", "!=", "<=", ">=", "&&", "||", "<<", ">>", "+=", "-=", "*=", "/=", "=>",
}

// Next returns the next token in the stream.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.src) {
		return Token{Kind: TokEOF, Line: l.line, Column: l.column}, nil
	}

	startLine, startCol := l.line, l.column
	c := l.peekByte()

	if isIdentStart(c) {
		start := l.pos
		for l.pos < len(l.src) && isIdentPart(l.peekByte()) {
			l.advance()
		}
		text := l.src[start:l.pos]
		kind := TokIdent
		if keywords[text] {
			kind = TokKeyword
		}
		return Token{Kind: kind, Text: text, Line: startLine, Column: startCol}, nil
	}

	if isDigit(c) {
		return l.lexNumber(startLine, startCol)
	}

	if c == '"' || c == '\'' {
		return l.lexString(startLine, startCol)
	}

	for _, mc := range multiCharPuncts {
		if strings.HasPrefix(l.src[l.pos:], mc) {
			for range mc {
				l.advance()
			}
			return Token{Kind: TokPunct, Text: mc, Line: startLine, Column: startCol}, nil
		}
	}

	if strings.IndexByte(punctChars, c) >= 0 {
		l.advance()
		return Token{Kind: TokPunct, Text: string(c), Line: startLine, Column: startCol}, nil
	}

	return Token{}, values.NewError(values.ErrParse, "unexpected character %q at %d:%d", string(c), startLine, startCol)
}

func (l *Lexer) lexNumber(startLine, startCol int) (Token, error) {
	start := l.pos
	if l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X') {
		l.advance()
		l.advance()
		for l.pos < len(l.src) && isHexDigit(l.peekByte()) {
			l.advance()
		}
		return Token{Kind: TokHexLiteral, Text: l.src[start:l.pos], Line: startLine, Column: startCol}, nil
	}
	for l.pos < len(l.src) && isDigit(l.peekByte()) {
		l.advance()
	}
	if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		l.advance()
		for l.pos < len(l.src) && isDigit(l.peekByte()) {
			l.advance()
		}
	}
	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		l.advance()
		if l.peekByte() == '+' || l.peekByte() == '-' {
			l.advance()
		}
		for l.pos < len(l.src) && isDigit(l.peekByte()) {
			l.advance()
		}
	}
	return Token{Kind: TokNumber, Text: l.src[start:l.pos], Line: startLine, Column: startCol}, nil
}

func (l *Lexer) lexString(startLine, startCol int) (Token, error) {
	quote := l.advance()
	var sb strings.Builder
	for l.pos < len(l.src) && l.peekByte() != quote {
		c := l.advance()
		if c == '\\' && l.pos < len(l.src) {
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '"', '\'':
				sb.WriteByte(esc)
			default:
				sb.WriteByte(esc)
			}
			continue
		}
		sb.WriteByte(c)
	}
	if l.pos >= len(l.src) {
		return Token{}, values.NewError(values.ErrParse, "unterminated string literal at %d:%d", startLine, startCol)
	}
	l.advance() // closing quote
	return Token{Kind: TokString, Text: sb.String(), Line: startLine, Column: startCol}, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
