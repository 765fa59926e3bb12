package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(contents), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "countdown"
version = "0.1.0"

[build]
entry = "countdown.svm"
output = "countdown.img"

[run]
trace = true
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Project.Name != "countdown" {
		t.Errorf("Project.Name = %q", m.Project.Name)
	}
	if m.Build.Entry != "countdown.svm" {
		t.Errorf("Build.Entry = %q", m.Build.Entry)
	}
	if !m.Run.Trace {
		t.Error("Run.Trace = false, want true")
	}
	if m.Dir == "" {
		t.Error("Dir not set at load time")
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[project]
name = "demo"
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Build.Entry != "main.svm" {
		t.Errorf("default entry = %q, want main.svm", m.Build.Entry)
	}
	if m.Build.Output != "main.img" {
		t.Errorf("default output = %q, want main.img", m.Build.Output)
	}
}

func TestValidateRequiresName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `[build]`+"\n"+`entry = "x.svm"`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := m.Validate(); err == nil {
		t.Error("Validate accepted a manifest without project.name")
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[project]\nname = \"up\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if m == nil || m.Project.Name != "up" {
		t.Errorf("FindAndLoad = %+v, want project up", m)
	}
}

func TestFindAndLoadMissing(t *testing.T) {
	m, err := FindAndLoad(t.TempDir())
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if m != nil {
		t.Errorf("FindAndLoad in empty tree = %+v, want nil", m)
	}
}
