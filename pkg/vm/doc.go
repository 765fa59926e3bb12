// Package vm implements a minimal stack-based virtual machine.
//
// A Machine owns a bounded main stack, a bounded call stack, an
// instruction pointer and an immutable code buffer. Opcodes and their
// inline operands share one linear stream of integer words: there is no
// fixed instruction width, an operand is simply the next word, consumed
// by the instruction's executor via an extra fetch.
//
// The machine runs a fetch/decode/execute cycle:
//
//   - Fetch reads the word at the instruction pointer and advances it.
//   - Step fetches one opcode, looks it up in the instruction registry
//     and invokes its executor.
//   - Run peeks at the current word before each step and stops when it
//     sees OpHalt; the halt word itself is never dispatched through the
//     registry.
//
// Every value that enters the main stack is first normalized into the
// machine's representable word range [MinWord, MaxWord]. The range is
// deliberately asymmetric (MaxWord is 0x799F, not 0x7FFF); programs may
// depend on the exact wrap-around points, so Normalize preserves it.
//
// All failures are fatal and surface as *Error values carrying the kind
// of failure and a snapshot of the machine at the point it occurred.
// There is no retry or partial-success mode.
package vm
