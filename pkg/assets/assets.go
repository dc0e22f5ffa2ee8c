// Package assets ships a working starter tree: a sample variables file plus
// per-mode load orders, snippet templates, baselines and pre-composed full
// configuration templates. skilletgen init materialises it so a new project
// renders out of the box.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed all:tree
var treeFS embed.FS

// FS returns the embedded starter tree rooted at its top level.
func FS() fs.FS {
	sub, err := fs.Sub(treeFS, "tree")
	if err != nil {
		// The subtree is embedded at compile time; failure here is a
		// build defect, not a runtime condition.
		panic(err)
	}
	return sub
}

// Scaffold writes the starter tree beneath dir. Existing files are left
// untouched so rerunning init never clobbers local edits.
func Scaffold(dir string) error {
	tree := FS()
	return fs.WalkDir(tree, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(path))
		if d.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("assets: create %s: %w", target, err)
			}
			return nil
		}
		if _, err := os.Stat(target); err == nil {
			return nil
		}
		raw, err := fs.ReadFile(tree, path)
		if err != nil {
			return fmt.Errorf("assets: read embedded %s: %w", path, err)
		}
		if err := os.WriteFile(target, raw, 0o644); err != nil {
			return fmt.Errorf("assets: write %s: %w", target, err)
		}
		return nil
	})
}
