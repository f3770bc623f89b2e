// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package magpiler compiles a source tree of layouts, pages and static files
// into a site, served live or written to an output directory.
package magpiler

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/open2b/magpiler/content"
	"github.com/open2b/magpiler/doc"
	"github.com/open2b/magpiler/global"
	"github.com/open2b/magpiler/layout"
	"github.com/open2b/magpiler/source"
)

// Run modes.
const (
	ModeServe = "serve"
	ModeBuild = "build"
)

// Context files read from the root of the source tree.
const (
	GlobalFile = "global.yaml"
	ConfigFile = "config.yaml"
)

// NotFoundPage is the page rendered when a requested document does not
// exist.
const NotFoundPage = "404.html"

// Options are the options of Load.
type Options struct {
	Mode   string            // ModeServe or ModeBuild
	Source string            // source directory, only exposed to templates
	Output string            // output directory, only exposed to templates
	Args   map[string]string // arguments exposed to templates

	// Markup converts the pages and layouts with a markup extension. If it
	// is nil, content.Markdown() is used.
	Markup content.Converter

	// Compiler returns the compiler of the given layouts. If it is nil, the
	// layouts are compiled by Scriggo.
	Compiler func(layouts []*content.Record) layout.Compiler

	// Definitions are registered after the compiled layouts and replace
	// those with the same name.
	Definitions []*layout.Definition

	// Base and Override are the context layers. If nil, they are read from
	// GlobalFile and ConfigFile.
	Base, Override global.Producer

	// MaxDepth is the maximum length of a layout chain.
	MaxDepth int

	// Logger logs the served requests and the build. If it is nil, nothing
	// is logged.
	Logger *slog.Logger
}

// Site is a loaded source tree. It is read only and safe for concurrent use.
type Site struct {
	registry *layout.Registry
	engine   *layout.Engine
	context  *global.Context
	static   []string
	isStatic map[string]bool
	staticFS fs.FS
	logger   *slog.Logger
}

// Load loads the source tree rooted at fsys.
func Load(fsys fs.FS, options *Options) (*Site, error) {
	if options == nil {
		options = &Options{}
	}
	markup := options.Markup
	if markup == nil {
		markup = content.Markdown()
	}
	tree, err := source.Load(fsys, &content.ParseOptions{Markup: markup})
	if err != nil {
		return nil, fmt.Errorf("magpiler: %w", err)
	}
	seen := make(map[string]bool, len(tree.Pages))
	for _, page := range tree.Pages {
		if seen[page.Identity] {
			return nil, fmt.Errorf("magpiler: more than one page renders to %q", page.Identity)
		}
		seen[page.Identity] = true
	}
	var compiler layout.Compiler
	if options.Compiler != nil {
		compiler = options.Compiler(tree.Layouts)
	} else {
		compiler = layout.NewScriggo(tree.Layouts, &layout.ScriggoOptions{Markdown: markup})
	}
	registry, err := layout.Load(tree.Layouts, tree.Pages, compiler)
	if err != nil {
		return nil, fmt.Errorf("magpiler: %w", err)
	}
	for _, d := range options.Definitions {
		registry.Add(d)
	}
	engine := layout.NewEngine(registry)
	engine.MaxDepth = options.MaxDepth
	base := options.Base
	if base == nil {
		base = global.YAMLFile(fsys, GlobalFile)
	}
	override := options.Override
	if override == nil {
		override = global.YAMLFile(fsys, ConfigFile)
	}
	ctx, err := global.Build(global.Options{
		Mode:   options.Mode,
		Source: options.Source,
		Output: options.Output,
		Args:   options.Args,
	}, base, override, engine)
	if err != nil {
		return nil, fmt.Errorf("magpiler: %w", err)
	}
	staticFS, err := fs.Sub(fsys, source.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("magpiler: %w", err)
	}
	site := &Site{
		registry: registry,
		engine:   engine,
		context:  ctx,
		static:   tree.Static,
		isStatic: make(map[string]bool, len(tree.Static)),
		staticFS: staticFS,
		logger:   options.Logger,
	}
	for _, name := range tree.Static {
		site.isStatic[name] = true
	}
	if site.logger == nil {
		site.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	site.logger.Debug("site loaded",
		slog.Int("layouts", len(registry.Names())),
		slog.Int("pages", len(tree.Pages)),
		slog.Int("static", len(tree.Static)))
	return site, nil
}

// Context returns the global context of the site.
func (s *Site) Context() *global.Context {
	return s.context
}

// Registry returns the layouts and pages of the site.
func (s *Site) Registry() *layout.Registry {
	return s.registry
}

// Static returns the identities of the static files in load order.
func (s *Site) Static() []string {
	return s.static
}

// Render renders the document with the given identity. If there is no such
// page, its layouts are rendered without content.
func (s *Site) Render(identity string) (doc.Result, error) {
	return s.engine.Render(layout.Request{Target: identity}, s.context)
}
