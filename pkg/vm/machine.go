package vm

import (
	"io"
	"os"
)

// Stack capacities, in words. The call stack is reserved for OpCall and
// OpRet, neither of which has an executor yet; the capacity is still
// enforced so behavior will not change when they grow one.
const (
	StackCap     = 0x800
	CallStackCap = 0x400
)

// Machine is the mutable runtime record: two bounded stacks, an
// instruction pointer, and an immutable code buffer. A Machine is owned
// by a single goroutine and passed by exclusive pointer through the run
// loop; it needs no locking.
type Machine struct {
	stack     []int
	callStack []int
	ip        int
	code      []int

	reg *Registry

	// Out is the sink for PUTCH and PUTDEC. Defaults to os.Stdout.
	Out io.Writer

	// Trace emits one human-readable line per executed instruction.
	// It is a side channel with no effect on machine state.
	Trace bool
}

// NewMachine creates a machine over the given code buffer, dispatching
// through the default instruction registry. The code slice is treated
// as read-only for the machine's lifetime.
func NewMachine(code []int) *Machine {
	return NewMachineWithRegistry(code, DefaultRegistry())
}

// NewMachineWithRegistry creates a machine dispatching through reg.
func NewMachineWithRegistry(code []int, reg *Registry) *Machine {
	return &Machine{
		stack:     make([]int, 0, StackCap),
		callStack: make([]int, 0, CallStackCap),
		code:      code,
		reg:       reg,
		Out:       os.Stdout,
	}
}

// Push normalizes v and appends it to the main stack. Fails with a
// StackOverflow error when the stack is already at capacity; the stack
// is left untouched on failure.
func (m *Machine) Push(v int) error {
	if len(m.stack) >= StackCap {
		return m.newError(StackOverflow)
	}
	m.stack = append(m.stack, Normalize(v))
	return nil
}

// Pop removes and returns the top of the main stack. Fails with a
// StackUnderflow error when the stack is empty.
func (m *Machine) Pop() (int, error) {
	if len(m.stack) == 0 {
		return 0, m.newError(StackUnderflow)
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

// Depth returns the main stack depth.
func (m *Machine) Depth() int {
	return len(m.stack)
}

// IP returns the current instruction pointer.
func (m *Machine) IP() int {
	return m.ip
}

// Result pops the main stack once, the convention for "the result" of a
// program that ran to halt. An empty stack at this point is the usual
// StackUnderflow, reported to the caller like any other.
func (m *Machine) Result() (int, error) {
	return m.Pop()
}
