package vm

import "fmt"

// ErrorKind describes the reason a machine operation failed.
type ErrorKind int

const (
	StackOverflow ErrorKind = iota + 1
	StackUnderflow
	PointerOutOfRange
	InvalidOpcode
)

var kindNames = map[ErrorKind]string{
	StackOverflow:     "stack overflow",
	StackUnderflow:    "stack underflow",
	PointerOutOfRange: "instruction pointer out of range",
	InvalidOpcode:     "invalid opcode",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Snapshot captures the machine state at the moment of failure, for
// diagnostics. The stack copy is bounded so a deep stack does not bloat
// error values.
type Snapshot struct {
	IP         int   // instruction pointer at failure
	CodeLen    int   // length of the code buffer
	StackDepth int   // main stack depth
	CallDepth  int   // call stack depth
	StackTop   []int // up to the top eight stack values, top last
}

// Error describes the cause and the context of a machine failure.
// All machine errors are fatal: the run or compile call that produced
// one has been aborted with no partial effects.
type Error struct {
	Kind     ErrorKind
	Opcode   Opcode // offending value when Kind is InvalidOpcode
	Snapshot Snapshot
}

func (e *Error) Error() string {
	msg := "vm: " + e.Kind.String()
	if e.Kind == InvalidOpcode {
		msg += fmt.Sprintf(" 0x%02X", int(e.Opcode))
	}
	return fmt.Sprintf("%s at ip=%d (stack depth %d)", msg, e.Snapshot.IP, e.Snapshot.StackDepth)
}

const snapshotTopWords = 8

func (m *Machine) snapshot() Snapshot {
	top := m.stack
	if len(top) > snapshotTopWords {
		top = top[len(top)-snapshotTopWords:]
	}
	return Snapshot{
		IP:         m.ip,
		CodeLen:    len(m.code),
		StackDepth: len(m.stack),
		CallDepth:  len(m.callStack),
		StackTop:   append([]int(nil), top...),
	}
}

func (m *Machine) newError(kind ErrorKind) *Error {
	return &Error{Kind: kind, Snapshot: m.snapshot()}
}

func (m *Machine) newOpcodeError(op Opcode) *Error {
	return &Error{Kind: InvalidOpcode, Opcode: op, Snapshot: m.snapshot()}
}
