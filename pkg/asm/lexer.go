package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chazu/minivm/pkg/vm"
)

// ---------------------------------------------------------------------------
// Lexer: tokenizer for assembly source
// ---------------------------------------------------------------------------

// Lexer tokenizes assembly source text. Words are separated by
// whitespace; ';' starts a comment running to end of line. An
// identifier followed by ':' defines a label, an identifier naming a
// mnemonic is an instruction, and any other identifier is a label
// reference.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current character
	line    int  // current line (1-based)
	col     int  // current column (1-based)

	mnemonics map[string]vm.Opcode
}

// NewLexer creates a new lexer for the given input, classifying
// instruction words against the machine's declared mnemonics.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input:     input,
		line:      1,
		col:       0,
		mnemonics: vm.Mnemonics(),
	}
	l.readChar()
	return l
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
		l.pos = l.readPos
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size

	if r == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case unicode.IsSpace(l.ch):
			l.readChar()
		case l.ch == ';':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// NextToken returns the next token. After the input is exhausted it
// keeps returning EOF, so the stream is total and terminated.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	pos := l.position()

	switch {
	case l.ch == 0:
		return Token{Type: TokenEOF, Pos: pos}

	case l.ch == '"':
		return l.readString(pos)

	case isDigit(l.ch) || (l.ch == '-' && isDigit(l.peekChar())):
		return l.readNumber(pos)

	case isIdentStart(l.ch):
		return l.readIdentifier(pos)

	default:
		ch := l.ch
		l.readChar()
		return Token{Type: TokenError, Literal: fmt.Sprintf("unexpected character %q", ch), Pos: pos}
	}
}

// readString reads a double-quoted string literal with the usual
// backslash escapes.
func (l *Lexer) readString(pos Position) Token {
	l.readChar() // consume opening quote

	var out []rune
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return Token{Type: TokenError, Literal: "unterminated string", Pos: pos}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			case '0':
				out = append(out, 0)
			default:
				return Token{Type: TokenError, Literal: fmt.Sprintf("unknown escape \\%c", l.ch), Pos: pos}
			}
			l.readChar()
			continue
		}
		out = append(out, l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote

	return Token{Type: TokenString, Literal: string(out), Pos: pos}
}

// readNumber reads a decimal or 0x-prefixed hexadecimal integer,
// optionally negative.
func (l *Lexer) readNumber(pos Position) Token {
	start := l.pos
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) || isHexBody(l.ch) {
		l.readChar()
	}
	// A word that starts with a digit must be a number in full; "12zz"
	// is not a number followed by a label.
	for isIdentPart(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.pos]

	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return Token{Type: TokenError, Literal: fmt.Sprintf("bad number %q", text), Pos: pos}
	}
	return Token{Type: TokenNumber, Literal: text, Value: int(v), Pos: pos}
}

// readIdentifier reads a word and classifies it as a label definition,
// an instruction mnemonic, or a label reference.
func (l *Lexer) readIdentifier(pos Position) Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	name := l.input[start:l.pos]

	if l.ch == ':' {
		l.readChar()
		return Token{Type: TokenLabel, Literal: name, Pos: pos}
	}

	if op, ok := l.mnemonics[strings.ToUpper(name)]; ok {
		return Token{Type: TokenInstruction, Literal: name, Value: int(op), Pos: pos}
	}

	return Token{Type: TokenLabelRef, Literal: name, Pos: pos}
}

// Tokenize consumes the whole input and returns the token stream,
// excluding the trailing EOF. A tokenizer-level error aborts with a
// position-carrying error and no tokens.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		switch tok.Type {
		case TokenEOF:
			return tokens, nil
		case TokenError:
			return nil, fmt.Errorf("asm: %s at %s", tok.Literal, tok.Pos)
		}
		tokens = append(tokens, tok)
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isHexBody admits the characters that can follow the leading digit of
// a 0x literal; ParseInt rejects anything malformed afterwards.
func isHexBody(r rune) bool {
	return r == 'x' || r == 'X' ||
		(r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
