// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/open2b/magpiler/content"
	"github.com/open2b/magpiler/doc"
	"github.com/open2b/magpiler/global"

	"github.com/open2b/scriggo"
	"github.com/open2b/scriggo/native"
)

// Layout extensions compiled by Scriggo. HTML layouts render to trees that
// are executed when serialized; the others render to text.
var (
	treeExts = map[string]bool{".html": true}
	textExts = map[string]bool{".xml": true, ".txt": true}
)

// ScriggoOptions are the options of a Scriggo compiler.
type ScriggoOptions struct {

	// Globals are declarations added to the builtins. They cannot redeclare
	// "content", "body" and "site".
	Globals native.Declarations

	// Markdown converts Markdown templates imported or rendered by the
	// layouts.
	Markdown content.Converter
}

// Scriggo is a Compiler of Scriggo templates.
//
// A layout sees the variables
//
//	content  *content.Record  content to render, it may be nil
//	body     html             body of content, already rendered
//	site     *global.Context  per-render global context
//
// and the builtin renderLayout(name, content) that renders another layout
// chain and returns it as HTML. Layouts that are not executable templates
// can be imported, rendered and extended by the others.
type Scriggo struct {
	files   scriggo.Files
	options *scriggo.BuildOptions
}

// NewScriggo returns a Scriggo compiler for the given layout records.
func NewScriggo(layouts []*content.Record, options *ScriggoOptions) *Scriggo {
	files := make(scriggo.Files, len(layouts))
	for _, r := range layouts {
		files[r.Identity] = []byte(r.Body.String())
	}
	globals := make(native.Declarations, len(builtins)+3)
	for n, v := range builtins {
		globals[n] = v
	}
	buildOptions := &scriggo.BuildOptions{Globals: globals}
	if options != nil {
		for n, v := range options.Globals {
			globals[n] = v
		}
		if options.Markdown != nil {
			buildOptions.MarkdownConverter = scriggo.Converter(options.Markdown)
		}
	}
	globals["content"] = (**content.Record)(nil)
	globals["body"] = (*native.HTML)(nil)
	globals["site"] = (**global.Context)(nil)
	return &Scriggo{files: files, options: buildOptions}
}

// Accepts reports whether identity has the extension of a Scriggo layout.
func (s *Scriggo) Accepts(identity string) bool {
	ext := strings.ToLower(path.Ext(identity))
	return treeExts[ext] || textExts[ext]
}

// Compile compiles the layout r.
func (s *Scriggo) Compile(r *content.Record) (Template, error) {
	t, err := scriggo.BuildTemplate(s.files, r.Identity, s.options)
	if err != nil {
		return nil, err
	}
	if treeExts[strings.ToLower(path.Ext(r.Identity))] {
		return treeTemplate{t}, nil
	}
	return textTemplate{t}, nil
}

// treeTemplate is a template whose result is a tree. The template is
// executed each time the tree is serialized.
type treeTemplate struct {
	t *scriggo.Template
}

func (tt treeTemplate) Render(c *content.Record, ctx *global.Context) (doc.Result, error) {
	return doc.Tree(doc.NodeFunc(func(w io.Writer) error {
		return run(tt.t, w, c, ctx)
	})), nil
}

// textTemplate is a template whose result is text.
type textTemplate struct {
	t *scriggo.Template
}

func (tt textTemplate) Render(c *content.Record, ctx *global.Context) (doc.Result, error) {
	var b strings.Builder
	if err := run(tt.t, &b, c, ctx); err != nil {
		return doc.Result{}, err
	}
	return doc.Text(b.String()), nil
}

type contextKey struct{}

// fatal is the value passed to native.Env.Fatal by the builtins.
type fatal struct {
	err error
}

// run runs t writing to w.
func run(t *scriggo.Template, w io.Writer, c *content.Record, ctx *global.Context) (err error) {
	var body native.HTML
	if c != nil {
		s, err := c.Body.Render()
		if err != nil {
			return err
		}
		body = native.HTML(s)
	}
	vars := map[string]interface{}{
		"content": c,
		"body":    body,
		"site":    ctx,
	}
	defer func() {
		if v := recover(); v != nil {
			f, ok := v.(fatal)
			if !ok {
				panic(v)
			}
			err = f.err
		}
	}()
	options := &scriggo.RunOptions{
		Context: context.WithValue(context.Background(), contextKey{}, ctx),
	}
	return t.Run(w, vars, options)
}

// renderLayout implements the renderLayout builtin.
func renderLayout(env native.Env, name string, c *content.Record) native.HTML {
	ctx, _ := env.Context().Value(contextKey{}).(*global.Context)
	if ctx == nil {
		env.Fatal(fatal{errors.New("renderLayout: missing global context")})
	}
	r, err := ctx.RenderLayout(name, c)
	if err != nil {
		env.Fatal(fatal{err})
	}
	s, err := r.Render()
	if err != nil {
		env.Fatal(fatal{err})
	}
	return native.HTML(s)
}
