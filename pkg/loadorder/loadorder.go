// Package loadorder resolves, per device mode, the ordered list of snippet
// templates to render and the name of the full configuration template. The
// ordering is external data kept next to the templates
// (templates/<mode>/load_order.yaml) and is preserved exactly: later snippets
// may reference configuration objects introduced by earlier ones.
package loadorder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Mode identifies a device configuration type.
type Mode string

const (
	ModePanos    Mode = "panos"
	ModePanorama Mode = "panorama"
)

// ErrUnsupportedMode is returned for any mode other than panos or panorama.
var ErrUnsupportedMode = errors.New("loadorder: unsupported config type")

// SupportedModes lists the device modes a run can target, in render order.
func SupportedModes() []Mode {
	return []Mode{ModePanos, ModePanorama}
}

// Validate checks that mode is one of the supported device modes.
func Validate(mode Mode) error {
	switch mode {
	case ModePanos, ModePanorama:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}
}

// Entry pairs an xpath-like identifier with the snippet's output base name.
// The rendered artifact is written as <name>.xml; the xpath is where the raw
// snippet attaches when composing the full configuration template.
type Entry struct {
	Xpath string `yaml:"xpath"`
	Name  string `yaml:"name"`
}

// Filename returns the snippet's template and output file name.
func (e Entry) Filename() string {
	return e.Name + ".xml"
}

// Order is the resolved load order for one device mode.
type Order struct {
	FullTemplate string  `yaml:"full_template"`
	Snippets     []Entry `yaml:"snippets"`
}

// Resolver reads load-order definitions from a templates directory.
type Resolver struct {
	templatesDir string
}

// NewResolver returns a Resolver rooted at templatesDir.
func NewResolver(templatesDir string) *Resolver {
	return &Resolver{templatesDir: templatesDir}
}

// Resolve returns the load order for mode. The mode is validated before any
// file is touched so an unsupported mode never causes filesystem side
// effects.
func (r *Resolver) Resolve(mode Mode) (Order, error) {
	if err := Validate(mode); err != nil {
		return Order{}, err
	}

	path := filepath.Join(r.templatesDir, string(mode), "load_order.yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return Order{}, fmt.Errorf("loadorder: read %s: %w", path, err)
	}

	var order Order
	if err := yaml.Unmarshal(raw, &order); err != nil {
		return Order{}, fmt.Errorf("loadorder: parse %s: %w", path, err)
	}
	if order.FullTemplate == "" {
		return Order{}, fmt.Errorf("loadorder: %s does not name a full_template", path)
	}
	if len(order.Snippets) == 0 {
		return Order{}, fmt.Errorf("loadorder: %s lists no snippets", path)
	}
	for i, entry := range order.Snippets {
		if entry.Name == "" {
			return Order{}, fmt.Errorf("loadorder: %s: snippet %d has no name", path, i)
		}
	}
	return order, nil
}
