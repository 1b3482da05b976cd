// Package parser implements the lexer and recursive-descent parser that
// turn Eclair's permissive Solidity-subset surface syntax into the AST the
// Evaluator consumes (spec §1: the real Solidity parser is an external
// collaborator; this is a minimal stand-in used because no such library is
// available in the reference corpus — see DESIGN.md).
package parser

import "fmt"

type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokNumber
	TokHexLiteral
	TokString
	TokPunct
	TokKeyword
)

type Token struct {
	Kind   TokenKind
	Text   string
	Line   int
	Column int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", tokenKindName(t.Kind), t.Text, t.Line, t.Column)
}

func tokenKindName(k TokenKind) string {
	switch k {
	case TokEOF:
		return "EOF"
	case TokIdent:
		return "ident"
	case TokNumber:
		return "number"
	case TokHexLiteral:
		return "hex"
	case TokString:
		return "string"
	case TokPunct:
		return "punct"
	case TokKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

var keywords = map[string]bool{
	"function": true, "return": true, "if": true, "else": true,
	"for": true, "while": true, "true": true, "false": true,
	"var": true,
}
