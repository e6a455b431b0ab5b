package convert

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"hfc/state"
)

func TestOutputPath(t *testing.T) {
	env := &state.LocalEnv{Extension: ".xaml"}

	got := outputPath(filepath.Join("some", "dir", "page.html"), env)
	if want := filepath.Join("some", "dir", "page.xaml"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	env.OutputDir = "out"
	got = outputPath(filepath.Join("some", "dir", "page.html"), env)
	if want := filepath.Join("out", "page.xaml"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIsMarkupFile(t *testing.T) {
	for _, p := range []string{"a.html", "b.HTM", "c.xhtml"} {
		if !isMarkupFile(p) {
			t.Errorf("%s should be accepted", p)
		}
	}
	for _, p := range []string{"a.txt", "b.zip", "c.css", "plain"} {
		if isMarkupFile(p) {
			t.Errorf("%s should be rejected", p)
		}
	}
}

func TestWriteOutputOverwritePolicy(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.xaml")
	if err := os.WriteFile(target, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	env := &state.LocalEnv{}
	if err := writeOutput("new", target, env, zap.NewNop()); err == nil {
		t.Fatal("existing output must be refused without overwrite")
	}

	env.Overwrite = true
	if err := writeOutput("new", target, env, zap.NewNop()); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new" {
		t.Errorf("got %q, want the rewritten content", data)
	}

	// a fresh destination directory is created on demand
	nested := filepath.Join(dir, "sub", "deep", "out.xaml")
	if err := writeOutput("x", nested, env, zap.NewNop()); err != nil {
		t.Fatalf("nested write failed: %v", err)
	}
}
