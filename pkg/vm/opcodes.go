package vm

import (
	"fmt"
	"strings"
)

// Opcode identifies a machine instruction. Opcodes live in the same
// integer namespace as data words; they are organized into ranges by
// category for easy identification.
type Opcode int

const (
	// ========================================================================
	// Machine control (0x00)
	// ========================================================================

	OpHalt Opcode = 0x00 // Reserved; terminates the run loop, never dispatched

	// ========================================================================
	// Stack manipulation (0x01-0x0F)
	// ========================================================================

	OpPush Opcode = 0x01 // Push immediate: OpPush <word>
	OpPop  Opcode = 0x02 // Declared, no executor
	OpCopy Opcode = 0x03 // Duplicate top of stack
	OpSwap Opcode = 0x04 // Declared, no executor

	// ========================================================================
	// Arithmetic (0x20-0x2F)
	// ========================================================================

	OpAdd Opcode = 0x20 // Pop two, push sum
	OpSub Opcode = 0x21 // Pop op2 then op1, push op1 - op2

	// ========================================================================
	// Control flow (0x30-0x3F)
	// ========================================================================

	OpJz   Opcode = 0x30 // Pop target then value, jump if value == 0
	OpJg   Opcode = 0x31 // Pop target then value, jump if value > 0
	OpJl   Opcode = 0x32 // Pop target then value, jump if value < 0
	OpCall Opcode = 0x33 // Declared, no executor
	OpRet  Opcode = 0x34 // Declared, no executor

	// ========================================================================
	// I/O (0x50-0x5F)
	// ========================================================================

	OpPutch  Opcode = 0x50 // Pop one value, write it as a character
	OpPutdec Opcode = 0x51 // Pop one value, write its decimal form + newline
	OpPuthex Opcode = 0x52 // Declared, no executor
	OpPuts   Opcode = 0x53 // Declared, no executor
)

// opcodeNames covers every declared opcode, registered or not. A name
// here does not mean the opcode is dispatchable; only the registry
// decides that.
var opcodeNames = map[Opcode]string{
	OpHalt:   "HALT",
	OpPush:   "PUSH",
	OpPop:    "POP",
	OpCopy:   "COPY",
	OpSwap:   "SWAP",
	OpAdd:    "ADD",
	OpSub:    "SUB",
	OpJz:     "JZ",
	OpJg:     "JG",
	OpJl:     "JL",
	OpCall:   "CALL",
	OpRet:    "RET",
	OpPutch:  "PUTCH",
	OpPutdec: "PUTDEC",
	OpPuthex: "PUTHEX",
	OpPuts:   "PUTS",
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(0x%02X)", int(op))
}

// Mnemonics returns a mapping from mnemonic (upper case) to opcode for
// every declared opcode. Tokenizers use it to classify instruction
// words; it deliberately includes opcodes without executors, which fail
// at dispatch time, not at assembly time.
func Mnemonics() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}

// Instruction is an immutable (opcode, name, executor) triple.
type Instruction struct {
	Opcode Opcode
	Name   string
	Exec   func(m *Machine) error
}

// Registry is a fixed, read-only mapping from opcode to instruction.
// It is constructed once and passed by reference wherever dispatch
// occurs; there is no hidden mutable global table.
type Registry struct {
	instructions map[Opcode]Instruction
}

// NewRegistry builds a registry from the given instructions. A
// duplicate opcode is a construction-time programming error and panics.
func NewRegistry(instrs ...Instruction) *Registry {
	r := &Registry{instructions: make(map[Opcode]Instruction, len(instrs))}
	for _, in := range instrs {
		if _, dup := r.instructions[in.Opcode]; dup {
			panic(fmt.Sprintf("vm: duplicate opcode 0x%02X (%s)", int(in.Opcode), in.Name))
		}
		r.instructions[in.Opcode] = in
	}
	return r
}

// Lookup returns the instruction registered for op.
func (r *Registry) Lookup(op Opcode) (Instruction, bool) {
	in, ok := r.instructions[op]
	return in, ok
}

// Len returns the number of registered instructions.
func (r *Registry) Len() int {
	return len(r.instructions)
}

// defaultRegistry holds the executors for every implemented opcode.
// OpHalt is absent on purpose: the run loop recognizes it before
// dispatch. OpPop, OpSwap, OpCall, OpRet, OpPuthex and OpPuts are
// declared constants with no behavior and stay unregistered.
var defaultRegistry = NewRegistry(
	Instruction{OpPush, "PUSH", execPush},
	Instruction{OpCopy, "COPY", execCopy},
	Instruction{OpAdd, "ADD", execAdd},
	Instruction{OpSub, "SUB", execSub},
	Instruction{OpJz, "JZ", jumpIf(func(v int) bool { return v == 0 })},
	Instruction{OpJg, "JG", jumpIf(func(v int) bool { return v > 0 })},
	Instruction{OpJl, "JL", jumpIf(func(v int) bool { return v < 0 })},
	Instruction{OpPutch, "PUTCH", execPutch},
	Instruction{OpPutdec, "PUTDEC", execPutdec},
)

// DefaultRegistry returns the registry of implemented instructions.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// ParseMnemonic resolves a mnemonic (case-insensitive) to its opcode.
func ParseMnemonic(name string) (Opcode, bool) {
	for op, n := range opcodeNames {
		if n == strings.ToUpper(name) {
			return op, true
		}
	}
	return 0, false
}
