// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/open2b/magpiler/content"
	"github.com/open2b/magpiler/doc"
	"github.com/open2b/magpiler/global"
)

// Template is a loaded template. Render is called with the content to
// render, that may be nil, and the per-render context.
type Template interface {
	Render(c *content.Record, ctx *global.Context) (doc.Result, error)
}

// TemplateFunc adapts a function to the Template interface.
type TemplateFunc func(c *content.Record, ctx *global.Context) (doc.Result, error)

// Render calls f(c, ctx).
func (f TemplateFunc) Render(c *content.Record, ctx *global.Context) (doc.Result, error) {
	return f(c, ctx)
}

// Definition is a named template.
type Definition struct {
	Name     string   // identity without extension
	Parent   string   // parent layout name, empty if none
	Source   string   // identity of the layout file, if any
	Template Template // template
}

// Compiler compiles layout records into templates.
type Compiler interface {

	// Accepts reports whether the layout with the given identity is an
	// executable template.
	Accepts(identity string) bool

	// Compile compiles the layout record r.
	Compile(r *content.Record) (Template, error)
}

// Registry indexes the layout definitions by name and the pages by
// identity. It is not safe to modify a registry while it is used.
type Registry struct {
	layouts map[string]*Definition
	pages   map[string]*content.Record
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		layouts: map[string]*Definition{},
		pages:   map[string]*content.Record{},
	}
}

// Load returns a registry with the given layouts and pages. Every layout
// accepted by c is compiled; its name is its identity without extension and
// its parent is its "layout" field. When two layouts have the same name, the
// last one wins.
func Load(layouts, pages []*content.Record, c Compiler) (*Registry, error) {
	reg := NewRegistry()
	for _, r := range layouts {
		if c == nil || !c.Accepts(r.Identity) {
			continue
		}
		t, err := c.Compile(r)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", r.Identity, err)
		}
		reg.Add(&Definition{
			Name:     Name(r.Identity),
			Parent:   r.Layout(),
			Source:   r.Identity,
			Template: t,
		})
	}
	for _, r := range pages {
		reg.AddPage(r)
	}
	return reg, nil
}

// Name returns the layout name of the given identity.
func Name(identity string) string {
	return strings.TrimSuffix(identity, path.Ext(identity))
}

// Add adds the definition d, replacing a definition with the same name.
func (reg *Registry) Add(d *Definition) {
	reg.layouts[d.Name] = d
}

// Lookup returns the named definition.
func (reg *Registry) Lookup(name string) (*Definition, bool) {
	d, ok := reg.layouts[name]
	return d, ok
}

// Names returns the names of the definitions in sorted order.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.layouts))
	for name := range reg.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddPage adds the page r, replacing a page with the same identity.
func (reg *Registry) AddPage(r *content.Record) {
	if _, ok := reg.pages[r.Identity]; !ok {
		reg.order = append(reg.order, r.Identity)
	}
	reg.pages[r.Identity] = r
}

// Page returns the page with the given identity.
func (reg *Registry) Page(identity string) (*content.Record, bool) {
	r, ok := reg.pages[identity]
	return r, ok
}

// Pages returns the pages in the order they were first added.
func (reg *Registry) Pages() []*content.Record {
	pages := make([]*content.Record, len(reg.order))
	for i, identity := range reg.order {
		pages[i] = reg.pages[identity]
	}
	return pages
}
