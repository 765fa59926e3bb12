package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a flat word stream,
// resolving mnemonics through the default registry.
func Disassemble(code []int) string {
	return DisassembleWithName(code, "")
}

// DisassembleWithName returns a listing with a name header. Opcodes and
// operands share one stream, so the listing is only meaningful from
// offset 0: a PUSH immediate consumes the following word, and a word
// that is neither a registered opcode nor HALT is shown as raw data.
func DisassembleWithName(code []int, name string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; %d words\n", len(code)))

	reg := DefaultRegistry()
	for i := 0; i < len(code); {
		w := code[i]
		op := Opcode(w)

		switch {
		case op == OpHalt:
			sb.WriteString(fmt.Sprintf("%04x  HALT\n", i))
			i++

		case op == OpPush && i+1 < len(code):
			imm := code[i+1]
			sb.WriteString(fmt.Sprintf("%04x  PUSH     0x%X", i, imm))
			if imm >= 0x20 && imm < 0x7F {
				sb.WriteString(fmt.Sprintf("  ; %q", rune(imm)))
			}
			sb.WriteString("\n")
			i += 2

		default:
			if in, ok := reg.Lookup(op); ok {
				sb.WriteString(fmt.Sprintf("%04x  %s\n", i, in.Name))
			} else if nm, known := opcodeNames[op]; known {
				// Declared but not dispatchable.
				sb.WriteString(fmt.Sprintf("%04x  %s     ; no executor\n", i, nm))
			} else {
				sb.WriteString(fmt.Sprintf("%04x  .word 0x%X\n", i, w))
			}
			i++
		}
	}

	return sb.String()
}
