package assets_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/netskillet/skilletgen/pkg/assets"
	"github.com/netskillet/skilletgen/pkg/compose"
	"github.com/netskillet/skilletgen/pkg/config"
	"github.com/netskillet/skilletgen/pkg/hashes"
	"github.com/netskillet/skilletgen/pkg/loadorder"
	"github.com/netskillet/skilletgen/pkg/orchestrator"
	"github.com/netskillet/skilletgen/pkg/prompt"
)

func TestScaffold(t *testing.T) {
	dir := t.TempDir()
	if err := assets.Scaffold(dir); err != nil {
		t.Fatalf("Scaffold returned error: %v", err)
	}
	for _, rel := range []string{
		"my_variables.yaml",
		"templates/panos/load_order.yaml",
		"templates/panos/snippets/mgt_config_users.xml",
		"templates/panos/baseline/baseline.xml",
		"templates/panos/full/day1_template.xml",
		"templates/panorama/load_order.yaml",
		"templates/panorama/full/day1_template.xml",
	} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Errorf("%s missing after scaffold: %v", rel, err)
		}
	}
}

func TestScaffoldKeepsLocalEdits(t *testing.T) {
	dir := t.TempDir()
	if err := assets.Scaffold(dir); err != nil {
		t.Fatal(err)
	}
	varsPath := filepath.Join(dir, "my_variables.yaml")
	if err := os.WriteFile(varsPath, []byte("MYCONFIG_DIR: edited\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := assets.Scaffold(dir); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(varsPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "MYCONFIG_DIR: edited\n" {
		t.Error("rerunning Scaffold overwrote a local edit")
	}
}

// The starter tree must build end to end: both modes render, the phash
// lands in the full configs, and the composer can regenerate the full
// templates from the baselines.
func TestStarterTreeBuilds(t *testing.T) {
	dir := t.TempDir()
	if err := assets.Scaffold(dir); err != nil {
		t.Fatal(err)
	}
	templatesDir := filepath.Join(dir, "templates")

	vars, err := config.Load(filepath.Join(dir, "my_variables.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	o, err := orchestrator.New(vars, templatesDir, filepath.Join(dir, "my_configs"),
		orchestrator.WithDriver(&prompt.Scripted{Answers: []string{"admin", "secret", "secret"}}),
		orchestrator.WithClock(func() time.Time {
			return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	archivePath, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run over starter tree returned error: %v", err)
	}

	for _, mode := range []string{"panos", "panorama"} {
		full, err := os.ReadFile(filepath.Join(archivePath, mode, "full", "day1_template.xml"))
		if err != nil {
			t.Fatalf("%s full config missing: %v", mode, err)
		}
		if strings.Contains(string(full), "{{") {
			t.Errorf("%s full config still contains template expressions", mode)
		}
		start := strings.Index(string(full), "<phash>")
		end := strings.Index(string(full), "</phash>")
		if start < 0 || end < 0 {
			t.Fatalf("%s full config has no phash element", mode)
		}
		hash := string(full)[start+len("<phash>") : end]
		if err := hashes.Verify(hash, "secret"); err != nil {
			t.Errorf("%s phash does not verify: %v", mode, err)
		}
	}

	for _, mode := range loadorder.SupportedModes() {
		out, err := compose.NewComposer(templatesDir).Compose(mode)
		if err != nil {
			t.Fatalf("Compose(%s) returned error: %v", mode, err)
		}
		raw, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(raw), "{{ ADMINISTRATOR_USERNAME }}") {
			t.Errorf("composed %s template lost the admin user snippet", mode)
		}
	}
}
