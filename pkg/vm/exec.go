package vm

import (
	"fmt"

	"github.com/tliron/commonlog"
)

var traceLog = commonlog.GetLogger("minivm.vm")

// Fetch reads the word at the instruction pointer and advances the
// pointer by one. Fails with PointerOutOfRange when the pointer is
// outside the code buffer.
func (m *Machine) Fetch() (int, error) {
	if m.ip < 0 || m.ip >= len(m.code) {
		return 0, m.newError(PointerOutOfRange)
	}
	w := m.code[m.ip]
	m.ip++
	return w, nil
}

// Peek reads the word at the instruction pointer without consuming it.
func (m *Machine) Peek() (int, error) {
	if m.ip < 0 || m.ip >= len(m.code) {
		return 0, m.newError(PointerOutOfRange)
	}
	return m.code[m.ip], nil
}

// Step performs one fetch/decode/execute cycle: fetch an opcode,
// look it up in the registry, run its executor. The executor may fetch
// further words (immediates) or touch the stack.
func (m *Machine) Step() error {
	at := m.ip
	w, err := m.Fetch()
	if err != nil {
		return err
	}
	op := Opcode(w)
	in, ok := m.reg.Lookup(op)
	if !ok {
		return m.newOpcodeError(op)
	}
	if m.Trace {
		traceLog.Infof("[%04x] %-8s depth=%d", at, in.Name, len(m.stack))
	}
	return in.Exec(m)
}

// Run steps the machine until it reaches the halt word. Before each
// step the word at the pointer is peeked without being consumed; OpHalt
// stops the loop and is never dispatched through the registry. Any
// error from fetch, dispatch or execution aborts the run immediately.
// A program that never reaches halt and never faults runs forever.
func (m *Machine) Run() error {
	for {
		w, err := m.Peek()
		if err != nil {
			return err
		}
		if Opcode(w) == OpHalt {
			if m.Trace {
				traceLog.Infof("[%04x] %-8s depth=%d", m.ip, "HALT", len(m.stack))
			}
			return nil
		}
		if err := m.Step(); err != nil {
			return err
		}
	}
}

// ============================================================================
// Executors
// ============================================================================

// execPush fetches one more code word as the immediate operand,
// advancing the pointer a second time, and pushes it.
func execPush(m *Machine) error {
	v, err := m.Fetch()
	if err != nil {
		return err
	}
	return m.Push(v)
}

func execCopy(m *Machine) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	if err := m.Push(v); err != nil {
		return err
	}
	return m.Push(v)
}

func execAdd(m *Machine) error {
	op2, err := m.Pop()
	if err != nil {
		return err
	}
	op1, err := m.Pop()
	if err != nil {
		return err
	}
	return m.Push(op1 + op2)
}

// execSub pops the top value first (op2), then the next (op1), and
// pushes op1 - op2: ordinary left-minus-right for "a b SUB".
func execSub(m *Machine) error {
	op2, err := m.Pop()
	if err != nil {
		return err
	}
	op1, err := m.Pop()
	if err != nil {
		return err
	}
	return m.Push(op1 - op2)
}

// jumpIf builds a conditional-jump executor. The calling convention is
// "value, target, OP": the target is pushed last, so it pops first,
// then the comparison value. On a satisfied predicate the instruction
// pointer is replaced with the target; otherwise it stays where the
// fetch already advanced it.
func jumpIf(pred func(v int) bool) func(m *Machine) error {
	return func(m *Machine) error {
		target, err := m.Pop()
		if err != nil {
			return err
		}
		value, err := m.Pop()
		if err != nil {
			return err
		}
		if pred(value) {
			m.ip = target
		}
		return nil
	}
}

// execPutch pops one value and writes it to the sink as a single
// character.
func execPutch(m *Machine) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	_, werr := fmt.Fprintf(m.Out, "%c", rune(v))
	return werr
}

// execPutdec pops one value and writes its decimal representation,
// followed by a line terminator.
func execPutdec(m *Machine) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	_, werr := fmt.Fprintf(m.Out, "%d\n", v)
	return werr
}
