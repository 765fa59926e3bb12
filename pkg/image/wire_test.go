package image

import (
	"bytes"
	"reflect"
	"testing"
)

func TestMarshalProgramRoundTrip(t *testing.T) {
	p := &Program{Version: Version, Name: "demo", Code: []int{0x01, 0x66, 0x00}}
	data, err := MarshalProgram(p)
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}

	got, err := UnmarshalProgram(data)
	if err != nil {
		t.Fatalf("UnmarshalProgram: %v", err)
	}
	if got.Name != p.Name || got.Version != p.Version || !reflect.DeepEqual(got.Code, p.Code) {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
}

// Canonical encoding: identical programs must produce identical bytes.
func TestMarshalProgramDeterministic(t *testing.T) {
	p := &Program{Version: Version, Name: "demo", Code: []int{1, 2, 3}}
	a, err := MarshalProgram(p)
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	b, err := MarshalProgram(&Program{Version: Version, Name: "demo", Code: []int{1, 2, 3}})
	if err != nil {
		t.Fatalf("MarshalProgram: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical programs marshaled to different bytes")
	}
}

func TestUnmarshalProgramGarbage(t *testing.T) {
	if _, err := UnmarshalProgram([]byte{0xFF, 0x00, 0x13}); err == nil {
		t.Error("UnmarshalProgram of garbage succeeded")
	}
}
