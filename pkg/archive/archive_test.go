package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/netskillet/skilletgen/pkg/loadorder"
	"github.com/netskillet/skilletgen/pkg/render"
)

func TestEnsureDirectoriesIdempotent(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "my_configs"))

	first, err := w.EnsureDirectories("sample", "20260831_120000", loadorder.ModePanos)
	if err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	second, err := w.EnsureDirectories("sample", "20260831_120000", loadorder.ModePanos)
	if err != nil {
		t.Fatalf("second EnsureDirectories returned error: %v", err)
	}
	if first != second {
		t.Errorf("paths differ: %q vs %q", first, second)
	}

	for _, sub := range []string{"panos/snippets", "panos/full"} {
		info, err := os.Stat(filepath.Join(first, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("%s missing or not a directory: %v", sub, err)
		}
	}
	if filepath.Base(first) != "sample-20260831_120000" {
		t.Errorf("archive dir = %q, want base-stamp name", first)
	}
}

func TestEnsureDirectoriesPerMode(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "my_configs"))
	archive, err := w.EnsureDirectories("sample", "20260831_120000", loadorder.ModePanos)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.EnsureDirectories("sample", "20260831_120000", loadorder.ModePanorama); err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"panos/snippets", "panorama/full"} {
		if _, err := os.Stat(filepath.Join(archive, sub)); err != nil {
			t.Errorf("%s missing after per-mode calls: %v", sub, err)
		}
	}
}

func TestSave(t *testing.T) {
	w := NewWriter(t.TempDir())
	archive, err := w.EnsureDirectories("sample", "20260831_120000", loadorder.ModePanos)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Save(archive, loadorder.ModePanos, render.CategorySnippets, "x_snippet.xml", "<x>bar</x>"); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(archive, "panos", "snippets", "x_snippet.xml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "<x>bar</x>" {
		t.Errorf("saved content = %q, want %q", raw, "<x>bar</x>")
	}
}

func TestWriteProvenanceOnce(t *testing.T) {
	src := filepath.Join(t.TempDir(), "my_variables.yaml")
	if err := os.WriteFile(src, []byte("MYCONFIG_DIR: sample\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w := NewWriter(t.TempDir())
	archive, err := w.EnsureDirectories("sample", "20260831_120000", loadorder.ModePanos)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteProvenance(archive, src); err != nil {
		t.Fatalf("WriteProvenance returned error: %v", err)
	}

	dst := filepath.Join(archive, "my_variables.yaml")
	if err := os.WriteFile(dst, []byte("tampered\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A second call is a no-op when the copy already exists.
	if err := w.WriteProvenance(archive, src); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "tampered\n" {
		t.Errorf("second WriteProvenance rewrote the copy: %q", raw)
	}
}
