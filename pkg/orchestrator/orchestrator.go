// Package orchestrator drives one configuration build: collect the
// administrator credentials, then for every device mode resolve the snippet
// load order, render each snippet and the full configuration, and archive the
// artifacts together with the variables file that produced them.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/netskillet/skilletgen/pkg/archive"
	"github.com/netskillet/skilletgen/pkg/config"
	"github.com/netskillet/skilletgen/pkg/hashes"
	"github.com/netskillet/skilletgen/pkg/loadorder"
	"github.com/netskillet/skilletgen/pkg/logging"
	"github.com/netskillet/skilletgen/pkg/prompt"
	"github.com/netskillet/skilletgen/pkg/render"
)

const stampLayout = "20060102_150405"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithModes overrides the device modes to build, in order.
func WithModes(modes ...loadorder.Mode) Option {
	return func(o *Orchestrator) {
		o.modes = modes
	}
}

// WithDriver injects the prompt driver used to collect credentials.
func WithDriver(d prompt.Driver) Option {
	return func(o *Orchestrator) {
		o.driver = d
	}
}

// WithClock injects the time source used for the archive timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// WithFilters replaces the hash capability table handed to the renderer.
func WithFilters(filters map[string]func(string) (string, error)) Option {
	return func(o *Orchestrator) {
		o.filters = filters
	}
}

// Orchestrator coordinates the render pipeline for one run.
type Orchestrator struct {
	vars         *config.Set
	templatesDir string
	outputDir    string
	modes        []loadorder.Mode
	driver       prompt.Driver
	now          func() time.Time
	filters      map[string]func(string) (string, error)

	resolver *loadorder.Resolver
	engine   *render.Engine
	writer   *archive.Writer
	log      zerolog.Logger
}

// New constructs an Orchestrator. Missing dependencies get the interactive
// defaults: a survey prompt driver, the wall clock, both device modes, and
// the md5/des/sha512 hash filters.
func New(vars *config.Set, templatesDir, outputDir string, options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		vars:         vars,
		templatesDir: templatesDir,
		outputDir:    outputDir,
		modes:        loadorder.SupportedModes(),
		driver:       prompt.NewSurveyDriver(),
		now:          time.Now,
		filters:      hashes.Filters(),
		log:          logging.GetLogger("orchestrator"),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}

	engine, err := render.NewEngine(templatesDir, o.filters)
	if err != nil {
		return nil, err
	}
	o.engine = engine
	o.resolver = loadorder.NewResolver(templatesDir)
	o.writer = archive.NewWriter(outputDir)
	return o, nil
}

// Run executes the pipeline and returns the archive path. Every requested
// mode is validated before credentials are collected or any directory is
// created; an unsupported mode therefore aborts with no side effects.
func (o *Orchestrator) Run(ctx context.Context) (string, error) {
	if len(o.modes) == 0 {
		return "", errors.New("orchestrator: no device modes requested")
	}
	for _, mode := range o.modes {
		if err := loadorder.Validate(mode); err != nil {
			return "", err
		}
	}

	folder, err := o.vars.FolderName()
	if err != nil {
		return "", err
	}

	creds, err := prompt.Collect(ctx, o.driver)
	if err != nil {
		return "", err
	}
	o.vars.SetCredentials(creds.Username, creds.Password)

	stamp := o.now().Format(stampLayout)
	o.log.Debug().Str("stamp", stamp).Msg("datetime used for folder creation")

	var archivePath string
	for _, mode := range o.modes {
		archivePath, err = o.buildMode(mode, folder, stamp)
		if err != nil {
			return "", err
		}
	}

	o.log.Info().Str("path", archivePath).Msg("configs have been created")
	return archivePath, nil
}

func (o *Orchestrator) buildMode(mode loadorder.Mode, folder, stamp string) (string, error) {
	order, err := o.resolver.Resolve(mode)
	if err != nil {
		return "", err
	}
	archivePath, err := o.writer.EnsureDirectories(folder, stamp, mode)
	if err != nil {
		return "", err
	}

	for _, entry := range order.Snippets {
		o.log.Info().Str("mode", string(mode)).Str("xpath", entry.Xpath).Msg("working with snippet")
		text, err := o.engine.Render(mode, render.CategorySnippets, entry.Filename(), o.vars.Values())
		if errors.Is(err, render.ErrTemplateNotFound) {
			o.log.Warn().Str("snippet", entry.Filename()).Msg("snippet template does not exist, skipping")
			continue
		}
		if err != nil {
			return "", err
		}
		if err := o.writer.Save(archivePath, mode, render.CategorySnippets, entry.Filename(), text); err != nil {
			return "", err
		}
	}

	o.log.Info().Str("mode", string(mode)).Str("template", order.FullTemplate).Msg("working with full config template")
	text, err := o.engine.Render(mode, render.CategoryFull, order.FullTemplate, o.vars.Values())
	if err != nil {
		// The full configuration has no fallback; a missing template is fatal.
		return "", fmt.Errorf("orchestrator: render full configuration for %s: %w", mode, err)
	}
	if err := o.writer.Save(archivePath, mode, render.CategoryFull, order.FullTemplate, text); err != nil {
		return "", err
	}

	if src := o.vars.SourcePath(); src != "" {
		if err := o.writer.WriteProvenance(archivePath, src); err != nil {
			return "", err
		}
	}
	return archivePath, nil
}
