package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/netskillet/skilletgen/pkg/hashes"
	"github.com/netskillet/skilletgen/pkg/loadorder"
)

func writeTemplate(t *testing.T, dir, mode string, category Category, name, content string) string {
	t.Helper()
	full := filepath.Join(dir, mode, string(category))
	if err := os.MkdirAll(full, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRenderSubstitutesVariables(t *testing.T) {
	dir := writeTemplate(t, t.TempDir(), "panos", CategorySnippets, "x_snippet.xml", "{{ FOO }}")
	engine, err := NewEngine(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := engine.Render(loadorder.ModePanos, CategorySnippets, "x_snippet.xml", map[string]any{"FOO": "bar"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if out != "bar" {
		t.Errorf("Render = %q, want %q", out, "bar")
	}
}

func TestRenderNestedVariables(t *testing.T) {
	dir := writeTemplate(t, t.TempDir(), "panos", CategorySnippets, "dns.xml",
		"<dns><primary>{{ DNS.primary }}</primary></dns>")
	engine, err := NewEngine(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := engine.Render(loadorder.ModePanos, CategorySnippets, "dns.xml",
		map[string]any{"DNS": map[string]any{"primary": "8.8.8.8"}})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	want := "<dns><primary>8.8.8.8</primary></dns>"
	if out != want {
		t.Errorf("Render = %q, want %q", out, want)
	}
}

func TestRenderMissingTemplate(t *testing.T) {
	dir := writeTemplate(t, t.TempDir(), "panos", CategorySnippets, "present.xml", "ok")
	engine, err := NewEngine(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = engine.Render(loadorder.ModePanos, CategorySnippets, "absent.xml", nil)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("Render of absent template = %v, want ErrTemplateNotFound", err)
	}
}

func TestRenderIsDeterministicWithoutHashFilters(t *testing.T) {
	dir := writeTemplate(t, t.TempDir(), "panorama", CategoryFull, "full.xml",
		"<config><host>{{ FW_NAME }}</host></config>")
	engine, err := NewEngine(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	vars := map[string]any{"FW_NAME": "edge-fw"}
	first, err := engine.Render(loadorder.ModePanorama, CategoryFull, "full.xml", vars)
	if err != nil {
		t.Fatal(err)
	}
	second, err := engine.Render(loadorder.ModePanorama, CategoryFull, "full.xml", vars)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("renders differ:\n%s\n%s", first, second)
	}
}

func TestRenderHashFilters(t *testing.T) {
	dir := writeTemplate(t, t.TempDir(), "panos", CategoryFull, "admin.xml",
		"<phash>{{ ADMINISTRATOR_PASSWORD | sha512_hash }}</phash>")
	engine, err := NewEngine(dir, hashes.Filters())
	if err != nil {
		t.Fatal(err)
	}
	out, err := engine.Render(loadorder.ModePanos, CategoryFull, "admin.xml",
		map[string]any{"ADMINISTRATOR_PASSWORD": "secret"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	hash := strings.TrimSuffix(strings.TrimPrefix(out, "<phash>"), "</phash>")
	if !strings.HasPrefix(hash, "$6$") {
		t.Fatalf("hash = %q, want sha512-crypt format", hash)
	}
	if err := hashes.Verify(hash, "secret"); err != nil {
		t.Errorf("embedded hash does not verify: %v", err)
	}
}

func TestNewEngineRejectsBadFilterTable(t *testing.T) {
	if _, err := NewEngine(t.TempDir(), map[string]func(string) (string, error){"": nil}); err == nil {
		t.Error("expected error for invalid filter table entry")
	}
}
