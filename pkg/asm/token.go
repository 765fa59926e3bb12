package asm

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the assembly tokenizer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// The five classified kinds the assembler consumes
	TokenNumber      // 42, -3, 0x66
	TokenString      // "hello"
	TokenInstruction // ADD, PUSH, JZ
	TokenLabel       // loop:
	TokenLabelRef    // loop
)

var tokenNames = map[TokenType]string{
	TokenEOF:         "EOF",
	TokenError:       "ERROR",
	TokenNumber:      "NUMBER",
	TokenString:      "STRING",
	TokenInstruction: "INSTRUCTION",
	TokenLabel:       "LABEL",
	TokenLabelRef:    "LABEL_REF",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Position is a location in the source text.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one classified unit of source text. Value carries the
// numeric payload for NUMBER and INSTRUCTION tokens; Literal carries
// the raw text (the label name, the string contents, the mnemonic).
type Token struct {
	Type    TokenType
	Literal string
	Value   int
	Pos     Position
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return fmt.Sprintf("ERROR(%s)", t.Literal)
	case TokenNumber:
		return fmt.Sprintf("NUMBER(%d)", t.Value)
	default:
		return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
	}
}
