package asm

import (
	"errors"
	"reflect"
	"testing"

	"github.com/chazu/minivm/pkg/vm"
)

func TestAssembleNumber(t *testing.T) {
	code, err := AssembleSource("0x66")
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	want := []int{int(vm.OpPush), 0x66, int(vm.OpHalt)}
	if !reflect.DeepEqual(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

func TestAssembleNumberNormalized(t *testing.T) {
	code, err := AssembleSource("0x10005")
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	if code[1] != 5 {
		t.Errorf("immediate = %d, want 5 (normalized at emission)", code[1])
	}
}

func TestAssembleInstruction(t *testing.T) {
	code, err := AssembleSource("2 3 ADD")
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	want := []int{
		int(vm.OpPush), 2,
		int(vm.OpPush), 3,
		int(vm.OpAdd),
		int(vm.OpHalt),
	}
	if !reflect.DeepEqual(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

// String characters are emitted in reverse push order so they pop back
// out left to right.
func TestAssembleStringReversed(t *testing.T) {
	code, err := AssembleSource(`"AB"`)
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	want := []int{
		int(vm.OpPush), 'B',
		int(vm.OpPush), 'A',
		int(vm.OpHalt),
	}
	if !reflect.DeepEqual(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

func TestAssembleForwardReference(t *testing.T) {
	code, err := AssembleSource("0 done JZ 0x100 HALT done: 0x200")
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	want := []int{
		int(vm.OpPush), 0,
		int(vm.OpPush), 8, // "done" resolves to the code position of its definition
		int(vm.OpJz),
		int(vm.OpPush), 0x100,
		int(vm.OpHalt),
		int(vm.OpPush), 0x200, // offset 8
		int(vm.OpHalt),
	}
	if !reflect.DeepEqual(code, want) {
		t.Errorf("code = %v, want %v", code, want)
	}
}

func TestAssembleBackwardReference(t *testing.T) {
	code, err := AssembleSource("top: 1 top JG")
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	// "top" was defined at position 0, before any emission.
	if code[3] != 0 {
		t.Errorf("backward reference resolved to %d, want 0", code[3])
	}
}

func TestAssembleUnknownSymbol(t *testing.T) {
	code, err := AssembleSource("nowhere JZ")
	if code != nil {
		t.Errorf("failed compilation produced bytecode: %v", code)
	}
	var unknown *UnknownSymbolError
	if !errors.As(err, &unknown) {
		t.Fatalf("err = %v, want UnknownSymbolError", err)
	}
	if unknown.Name != "nowhere" {
		t.Errorf("Name = %q, want %q", unknown.Name, "nowhere")
	}
}

// A redefined label resolves to its first definition; redefinition is
// not an error.
func TestAssembleDuplicateLabelFirstWins(t *testing.T) {
	code, err := AssembleSource("x: 1 x: 2 x JZ")
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	// code: PUSH 1 PUSH 2 PUSH <x> JZ HALT; first x recorded at 0.
	if code[5] != 0 {
		t.Errorf("duplicate label resolved to %d, want 0 (first entry)", code[5])
	}
}

func TestAssembleLabelEmitsNothing(t *testing.T) {
	plain, err := AssembleSource("1 2 ADD")
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	labeled, err := AssembleSource("a: 1 b: 2 c: ADD")
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	if !reflect.DeepEqual(plain, labeled) {
		t.Errorf("labels changed emission: %v vs %v", plain, labeled)
	}
}

func TestAssembleAppendsHalt(t *testing.T) {
	code, err := AssembleSource("")
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	if len(code) != 1 || code[0] != int(vm.OpHalt) {
		t.Errorf("empty program = %v, want single halt word", code)
	}
}

func TestAssembleDeterministic(t *testing.T) {
	src := `start: "hi" PUTCH PUTCH 1 2 SUB start JG`
	first, err := AssembleSource(src)
	if err != nil {
		t.Fatalf("AssembleSource: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := AssembleSource(src)
		if err != nil {
			t.Fatalf("AssembleSource #%d: %v", i, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("compilation #%d differs: %v vs %v", i, again, first)
		}
	}
}
