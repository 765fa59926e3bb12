package store

import (
	"bytes"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMiss(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Get("1 2 ADD")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get on empty store reported a hit")
	}
}

func TestPutGet(t *testing.T) {
	s := openTestStore(t)
	img := []byte{'M', 'V', 'M', 'I', 0, 1}

	if err := s.Put("1 2 ADD", "sum", img); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get("1 2 ADD")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get after Put reported a miss")
	}
	if !bytes.Equal(got, img) {
		t.Errorf("Get = %v, want %v", got, img)
	}

	// A different source must miss.
	if _, ok, _ := s.Get("1 2 SUB"); ok {
		t.Error("Get of different source reported a hit")
	}
}

func TestPutReplaces(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("src", "a", []byte{1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("src", "a", []byte{2}); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, _, err := s.Get("src")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte{2}) {
		t.Errorf("Get = %v, want replacement", got)
	}

	n, err := s.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}
}
