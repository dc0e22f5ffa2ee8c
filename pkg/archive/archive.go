// Package archive persists rendered artifacts under a timestamped output
// tree: <root>/<base>-<stamp>/<mode>/{snippets,full}/. Each run gets its own
// directory; nothing is ever modified after a run completes. Writes are plain
// file writes with no atomic-rename guarantee; an interrupted run is rerun,
// not repaired.
package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/netskillet/skilletgen/pkg/loadorder"
	"github.com/netskillet/skilletgen/pkg/render"
)

// Writer creates archive directories and saves artifacts beneath root.
type Writer struct {
	root string
}

// NewWriter returns a Writer rooted at root (created on first use).
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// EnsureDirectories creates <root>/<base>-<stamp>/<mode>/{snippets,full} if
// absent, parents included, and returns the archive path <root>/<base>-<stamp>.
// Calling it again with the same arguments is a no-op returning the same path.
func (w *Writer) EnsureDirectories(base, stamp string, mode loadorder.Mode) (string, error) {
	archive := filepath.Join(w.root, fmt.Sprintf("%s-%s", base, stamp))
	for _, category := range []render.Category{render.CategorySnippets, render.CategoryFull} {
		dir := filepath.Join(archive, string(mode), string(category))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("archive: create %s: %w", dir, err)
		}
	}
	return archive, nil
}

// Save writes text to <archive>/<mode>/<category>/<filename>, overwriting any
// existing file. Filenames are unique per load-order entry so overwrites do
// not occur within a single run.
func (w *Writer) Save(archive string, mode loadorder.Mode, category render.Category, filename, text string) error {
	path := filepath.Join(archive, string(mode), string(category), filename)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("archive: save %s: %w", path, err)
	}
	return nil
}

// WriteProvenance copies the variables file used for the run into the archive
// root so the rendered output stays reproducible. It writes at most once per
// archive: if the copy already exists nothing happens.
func (w *Writer) WriteProvenance(archive, srcPath string) error {
	dst := filepath.Join(archive, filepath.Base(srcPath))
	if _, err := os.Stat(dst); err == nil {
		return nil
	}
	raw, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("archive: read variables file: %w", err)
	}
	if err := os.WriteFile(dst, raw, 0o644); err != nil {
		return fmt.Errorf("archive: copy variables file to %s: %w", dst, err)
	}
	return nil
}
