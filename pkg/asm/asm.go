package asm

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/chazu/minivm/pkg/vm"
)

var log = commonlog.GetLogger("minivm.asm")

// UnknownSymbolError reports a label reference with no matching label
// definition. Compilation aborts with no partial bytecode.
type UnknownSymbolError struct {
	Name string
	Pos  Position // position of the reference in the source, if known
}

func (e *UnknownSymbolError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("asm: unknown symbol %q at %s", e.Name, e.Pos)
	}
	return fmt.Sprintf("asm: unknown symbol %q", e.Name)
}

// codePoint is one element of the intermediate bytecode sequence:
// either a resolved word or a placeholder carrying a label name.
type codePoint struct {
	value      int
	label      string
	pos        Position
	unresolved bool
}

// symbol is one symbol-table entry: a label name and the code position
// it was defined at.
type symbol struct {
	pos  int
	name string
}

// Assemble runs both passes over a token stream and returns the flat
// bytecode, directly usable as a machine's code buffer. The symbol
// table lives only for the duration of the call.
func Assemble(tokens []Token) ([]int, error) {
	points, symbols, err := pass1(tokens)
	if err != nil {
		return nil, err
	}
	return pass2(points, symbols)
}

// AssembleSource tokenizes and assembles source text in one step.
func AssembleSource(source string) ([]int, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Assemble(tokens)
}

// pass1 consumes tokens in order, growing the code-point sequence and
// populating the symbol table. Label definitions emit nothing; they
// record the current length of the sequence. The halt word is appended
// after the last token so every program terminates.
func pass1(tokens []Token) ([]codePoint, []symbol, error) {
	var points []codePoint
	var symbols []symbol

	for _, tok := range tokens {
		switch tok.Type {
		case TokenNumber:
			points = append(points,
				codePoint{value: int(vm.OpPush)},
				codePoint{value: vm.Normalize(tok.Value)})

		case TokenString:
			// Characters are emitted in reverse so that popping them in
			// stack order yields the original left-to-right text.
			runes := []rune(tok.Literal)
			for i := len(runes) - 1; i >= 0; i-- {
				points = append(points,
					codePoint{value: int(vm.OpPush)},
					codePoint{value: int(runes[i])})
			}

		case TokenInstruction:
			points = append(points, codePoint{value: tok.Value})

		case TokenLabel:
			symbols = append(symbols, symbol{pos: len(points), name: tok.Literal})

		case TokenLabelRef:
			points = append(points,
				codePoint{value: int(vm.OpPush)},
				codePoint{label: tok.Literal, pos: tok.Pos, unresolved: true})

		default:
			return nil, nil, fmt.Errorf("asm: unexpected %s token at %s", tok.Type, tok.Pos)
		}
	}

	points = append(points, codePoint{value: int(vm.OpHalt)})
	log.Debugf("pass 1: %d code points, %d symbols", len(points), len(symbols))
	return points, symbols, nil
}

// pass2 replaces every unresolved placeholder with the position of the
// first symbol-table entry whose name matches. Redefined labels resolve
// to their first definition; there is no duplicate check. A name with
// no entry aborts the compilation.
func pass2(points []codePoint, symbols []symbol) ([]int, error) {
	code := make([]int, len(points))
	for i, p := range points {
		if !p.unresolved {
			code[i] = p.value
			continue
		}
		target, ok := resolve(symbols, p.label)
		if !ok {
			return nil, &UnknownSymbolError{Name: p.label, Pos: p.pos}
		}
		code[i] = target
	}
	log.Debugf("pass 2: resolved %d words", len(code))
	return code, nil
}

func resolve(symbols []symbol, name string) (int, bool) {
	for _, s := range symbols {
		if s.name == name {
			return s.pos, true
		}
	}
	return 0, false
}
