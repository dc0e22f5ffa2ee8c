// Package render evaluates configuration templates with pongo2, the engine
// the original Jinja2 templates port to directly. Templates live under
// <templatesDir>/<mode>/<category>/ and are addressed by file name. Hash
// transformations arrive as a capability table and are exposed to templates
// as named filters, so a template can write
// {{ ADMINISTRATOR_PASSWORD | sha512_hash }}.
package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/netskillet/skilletgen/pkg/loadorder"
)

// Category selects the template subdirectory, mirrored in the archive layout.
type Category string

const (
	CategorySnippets Category = "snippets"
	CategoryFull     Category = "full"
)

// ErrTemplateNotFound is returned when the named template file is absent.
// Snippet lookups treat it as skippable; the full template does not.
var ErrTemplateNotFound = errors.New("render: template not found")

// Engine renders templates from a templates directory tree.
type Engine struct {
	templatesDir string

	mu   sync.Mutex
	sets map[string]*pongo2.TemplateSet
}

// NewEngine creates an Engine rooted at templatesDir and registers the given
// filter capability table. pongo2 keeps one process-wide filter registry, so
// names already registered (by an earlier Engine or by pongo2 itself) are
// left untouched.
func NewEngine(templatesDir string, filters map[string]func(string) (string, error)) (*Engine, error) {
	for name, fn := range filters {
		if name == "" || fn == nil {
			return nil, fmt.Errorf("render: filter table entry %q is invalid", name)
		}
		if pongo2.FilterExists(name) {
			continue
		}
		if err := pongo2.RegisterFilter(name, wrapFilter(name, fn)); err != nil {
			return nil, fmt.Errorf("render: register filter %q: %w", name, err)
		}
	}
	return &Engine{
		templatesDir: templatesDir,
		sets:         make(map[string]*pongo2.TemplateSet),
	}, nil
}

// Render evaluates <templatesDir>/<mode>/<category>/<filename> against vars
// and returns the rendered text. A missing template file yields an error
// wrapping ErrTemplateNotFound; rendering has no side effects.
func (e *Engine) Render(mode loadorder.Mode, category Category, filename string, vars map[string]any) (string, error) {
	dir := filepath.Join(e.templatesDir, string(mode), string(category))
	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return "", fmt.Errorf("render: stat %s: %w", path, err)
	}

	set, err := e.setFor(dir)
	if err != nil {
		return "", err
	}
	tmpl, err := set.FromFile(filename)
	if err != nil {
		return "", fmt.Errorf("render: load template %s: %w", path, err)
	}
	out, err := tmpl.Execute(pongo2.Context(vars))
	if err != nil {
		return "", fmt.Errorf("render: execute template %s: %w", path, err)
	}
	return out, nil
}

func (e *Engine) setFor(dir string) (*pongo2.TemplateSet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if set, ok := e.sets[dir]; ok {
		return set, nil
	}
	loader, err := pongo2.NewLocalFileSystemLoader(dir)
	if err != nil {
		return nil, fmt.Errorf("render: create loader for %s: %w", dir, err)
	}
	set := pongo2.NewSet(dir, loader)
	e.sets[dir] = set
	return set, nil
}

func wrapFilter(name string, fn func(string) (string, error)) pongo2.FilterFunction {
	return func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		out, err := fn(in.String())
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(out), nil
	}
}
