// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"errors"
	"fmt"

	"github.com/open2b/magpiler/content"
	"github.com/open2b/magpiler/doc"
	"github.com/open2b/magpiler/global"
)

// DefaultLayout is the layout of a content without a "layout" field.
const DefaultLayout = "default"

// DefaultMaxDepth is the default maximum length of a layout chain.
const DefaultMaxDepth = 32

var (
	// ErrUnknownLayout is returned when a layout chain references a layout
	// that is not registered.
	ErrUnknownLayout = errors.New("unknown layout")

	// ErrLayoutCycle is returned when a layout chain references a layout
	// already invoked in the same chain.
	ErrLayoutCycle = errors.New("layout cycle")

	// ErrLayoutDepth is returned when a layout chain is longer than the
	// maximum depth.
	ErrLayoutDepth = errors.New("layout chain too long")
)

// Request is a render request.
type Request struct {
	Target string          // identity of the document to render
	Record *content.Record // resolved content, may be nil
	Layout string          // initial layout; if empty it is read from Record
}

// Engine resolves layout chains. An Engine implements global.Resolver.
type Engine struct {
	Registry *Registry

	// MaxDepth is the maximum length of a layout chain. If it is zero,
	// DefaultMaxDepth is used.
	MaxDepth int
}

// NewEngine returns an engine that resolves the layouts of reg.
func NewEngine(reg *Registry) *Engine {
	return &Engine{Registry: reg}
}

// Render renders the request req with a copy of ctx for the target
// document. If req.Record is nil, the target page is looked up in the
// registry; if it does not exist the layouts are rendered without content.
func (e *Engine) Render(req Request, ctx *global.Context) (doc.Result, error) {
	r := req.Record
	if r == nil && req.Target != "" {
		r, _ = e.Registry.Page(req.Target)
	}
	name := req.Layout
	if name == "" {
		name = r.Layout()
	}
	if name == "" {
		name = DefaultLayout
	}
	return e.resolve(name, r, ctx.ForDocument(req.Target))
}

// RenderLayout renders the layout chain starting from the named layout. It
// is called by templates through the global context.
func (e *Engine) RenderLayout(name string, r *content.Record, ctx *global.Context) (doc.Result, error) {
	return e.resolve(name, r, ctx)
}

// resolve invokes the named layout with r and then, while the invoked
// layout has a parent, invokes the parent with a record containing only the
// previous result as body.
func (e *Engine) resolve(name string, r *content.Record, ctx *global.Context) (doc.Result, error) {
	limit := e.MaxDepth
	if limit <= 0 {
		limit = DefaultMaxDepth
	}
	invoked := make(map[string]bool, 4)
	// Layouts rendered by templates share the depth of the renders they
	// are nested in.
	for depth := ctx.Depth(); ; depth++ {
		if depth >= limit {
			return doc.Result{}, fmt.Errorf("%w: more than %d layouts at %q", ErrLayoutDepth, limit, name)
		}
		if invoked[name] {
			return doc.Result{}, fmt.Errorf("%w: %q", ErrLayoutCycle, name)
		}
		invoked[name] = true
		d, ok := e.Registry.Lookup(name)
		if !ok {
			return doc.Result{}, fmt.Errorf("%w %q", ErrUnknownLayout, name)
		}
		result, err := d.Template.Render(r, ctx)
		if err != nil {
			if d.Source != "" {
				return doc.Result{}, fmt.Errorf("layout %q (%s): %w", name, d.Source, err)
			}
			return doc.Result{}, fmt.Errorf("layout %q: %w", name, err)
		}
		if d.Parent == "" {
			return result, nil
		}
		r = content.Wrap(result)
		name = d.Parent
	}
}
