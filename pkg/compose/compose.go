// Package compose regenerates the full configuration template for a device
// mode by attaching the raw snippet templates to a baseline XML document at
// their load-order xpaths. The snippets keep their template expressions
// intact; the result is itself a template, rendered later like any other.
// This is why the full configuration renders independently of the snippet
// outputs at build time: the composition already happened here.
package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/netskillet/skilletgen/pkg/loadorder"
	"github.com/netskillet/skilletgen/pkg/logging"
)

// Composer builds full configuration templates from baselines and snippets.
type Composer struct {
	templatesDir string
	resolver     *loadorder.Resolver
	log          zerolog.Logger
}

// NewComposer returns a Composer over the given templates directory.
func NewComposer(templatesDir string) *Composer {
	return &Composer{
		templatesDir: templatesDir,
		resolver:     loadorder.NewResolver(templatesDir),
		log:          logging.GetLogger("compose"),
	}
}

// Compose rebuilds templates/<mode>/full/<full_template> from the mode's
// baseline and snippet sources, returning the output path. Snippets without
// an xpath or without a source file are skipped with a warning; an xpath that
// already exists in the baseline is left untouched.
func (c *Composer) Compose(mode loadorder.Mode) (string, error) {
	order, err := c.resolver.Resolve(mode)
	if err != nil {
		return "", err
	}

	baselinePath := filepath.Join(c.templatesDir, string(mode), "baseline", "baseline.xml")
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(baselinePath); err != nil {
		return "", fmt.Errorf("compose: read baseline %s: %w", baselinePath, err)
	}
	root := doc.Root()
	if root == nil {
		return "", fmt.Errorf("compose: baseline %s has no root element", baselinePath)
	}

	for _, entry := range order.Snippets {
		if entry.Xpath == "" {
			c.log.Warn().Str("snippet", entry.Name).Msg("no xpath for snippet, skipping")
			continue
		}
		snippetPath := filepath.Join(c.templatesDir, string(mode), "snippets", entry.Filename())
		raw, err := os.ReadFile(snippetPath)
		if err != nil {
			if os.IsNotExist(err) {
				c.log.Warn().Str("path", snippetPath).Msg("snippet file does not exist, skipping")
				continue
			}
			return "", fmt.Errorf("compose: read snippet %s: %w", snippetPath, err)
		}
		if err := attach(root, entry.Xpath, string(raw)); err != nil {
			return "", fmt.Errorf("compose: attach %s at %s: %w", entry.Name, entry.Xpath, err)
		}
		c.log.Debug().Str("snippet", entry.Name).Str("xpath", entry.Xpath).Msg("attached snippet")
	}

	outPath := filepath.Join(c.templatesDir, string(mode), "full", order.FullTemplate)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("compose: create %s: %w", filepath.Dir(outPath), err)
	}
	if err := doc.WriteToFile(outPath); err != nil {
		return "", fmt.Errorf("compose: write %s: %w", outPath, err)
	}
	c.log.Info().Str("mode", string(mode)).Str("path", outPath).Msg("full configuration template composed")
	return outPath, nil
}

// attach inserts contents at xpath beneath root. The xpath is absolute and
// starts with the root tag (/config/...). Missing intermediate elements are
// created top-down from the deepest ancestor that already exists; the leaf
// segment wraps the contents so a snippet can hold several sibling elements.
// If the full xpath already resolves, the document is left as is.
func attach(root *etree.Element, xpath, contents string) error {
	rel := strings.TrimPrefix(xpath, "/"+root.Tag)
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return fmt.Errorf("xpath names the root element")
	}
	if root.FindElement(rel) != nil {
		return nil
	}

	segments := strings.Split(rel, "/")

	// Walk upwards until an existing ancestor is found, remembering the
	// segments that have to be built on the way back down.
	var toBuild []string
	parent := root
	for {
		tail := segments[len(segments)-1]
		toBuild = append(toBuild, tail)
		ancestorPath := strings.Join(segments[:len(segments)-1], "/")
		if ancestorPath == "" {
			break
		}
		if el := root.FindElement(ancestorPath); el != nil {
			parent = el
			break
		}
		segments = segments[:len(segments)-1]
	}

	// Build the intermediate elements, leaving the leaf for the snippet wrap.
	for len(toBuild) > 1 {
		next := toBuild[len(toBuild)-1]
		toBuild = toBuild[:len(toBuild)-1]
		parent = parent.CreateElement(next)
	}

	leaf := toBuild[0]
	wrapped := fmt.Sprintf("<%s>%s</%s>", leaf, contents, leaf)
	snippetDoc := etree.NewDocument()
	if err := snippetDoc.ReadFromString(wrapped); err != nil {
		return fmt.Errorf("parse snippet: %w", err)
	}
	parent.AddChild(snippetDoc.Root())
	return nil
}
