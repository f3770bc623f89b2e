// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package global builds the context shared by all the renders of a run.
//
// The context is built once, layering a defaults layer, a base layer and an
// override layer; a later layer overwrites the keys of an earlier one. The
// built context is read only. Each render derives a shallow copy that also
// carries the URL of the document being rendered.
package global

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/open2b/magpiler/content"
	"github.com/open2b/magpiler/doc"

	"gopkg.in/yaml.v3"
)

// DocumentURLKey is the key under which Get returns the URL of the document
// being rendered.
const DocumentURLKey = "documentUrl"

// Options are the run options passed to the producers.
type Options struct {
	Mode   string            // "serve" or "build"
	Source string            // source directory
	Output string            // output directory, if building
	Args   map[string]string // key/value pairs from the command line
}

// Producer produces a layer of the context.
type Producer interface {
	Produce(options Options) (map[string]interface{}, error)
}

// ProducerFunc adapts a function to the Producer interface.
type ProducerFunc func(options Options) (map[string]interface{}, error)

// Produce calls f(options).
func (f ProducerFunc) Produce(options Options) (map[string]interface{}, error) {
	return f(options)
}

// Resolver resolves a layout chain. It lets templates render other layouts.
type Resolver interface {
	RenderLayout(name string, r *content.Record, ctx *Context) (doc.Result, error)
}

// Context is the global context. It is safe for concurrent use.
type Context struct {
	values   map[string]interface{}
	keys     []string
	url      string
	depth    int
	resolver Resolver
}

// Build builds the global context. base and override may be nil. r is used
// by RenderLayout and may be nil.
func Build(options Options, base, override Producer, r Resolver) (*Context, error) {
	values := defaults(options)
	for _, layer := range []struct {
		name string
		p    Producer
	}{{"base", base}, {"override", override}} {
		if layer.p == nil {
			continue
		}
		m, err := layer.p.Produce(options)
		if err != nil {
			return nil, fmt.Errorf("global: %s context: %w", layer.name, err)
		}
		for k, v := range m {
			values[k] = v
		}
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Context{values: values, keys: keys, resolver: r}, nil
}

// defaults returns the defaults layer.
func defaults(options Options) map[string]interface{} {
	values := map[string]interface{}{
		"mode":   options.Mode,
		"source": options.Source,
		"output": options.Output,
	}
	for k, v := range options.Args {
		values[k] = v
	}
	return values
}

// Get returns the value of key, or nil if there is no such key.
func (ctx *Context) Get(key string) interface{} {
	v, _ := ctx.Lookup(key)
	return v
}

// Lookup returns the value of key and reports whether it exists.
func (ctx *Context) Lookup(key string) (interface{}, bool) {
	if key == DocumentURLKey && ctx.url != "" {
		return ctx.url, true
	}
	v, ok := ctx.values[key]
	return v, ok
}

// String returns the value of key if it is a string, otherwise the empty
// string.
func (ctx *Context) String(key string) string {
	s, _ := ctx.Get(key).(string)
	return s
}

// Keys returns the keys of the context in sorted order.
func (ctx *Context) Keys() []string {
	return append([]string(nil), ctx.keys...)
}

// DocumentURL returns the URL of the document being rendered, if any.
func (ctx *Context) DocumentURL() string {
	return ctx.url
}

// ForDocument returns a copy of ctx for rendering the document with the
// given URL.
func (ctx *Context) ForDocument(url string) *Context {
	c := *ctx
	c.url = url
	return &c
}

// Depth returns the number of RenderLayout calls the context is nested in.
func (ctx *Context) Depth() int {
	return ctx.depth
}

// RenderLayout renders the layout chain starting from the named layout,
// passing r as content of the first layout. The resolver receives a copy of
// ctx with the depth increased by one.
func (ctx *Context) RenderLayout(name string, r *content.Record) (doc.Result, error) {
	if ctx.resolver == nil {
		return doc.Result{}, errors.New("global: no layout resolver")
	}
	c := *ctx
	c.depth++
	return ctx.resolver.RenderLayout(name, r, &c)
}

// YAMLFile returns a producer that reads a YAML mapping from the named file
// of fsys. If the file does not exist, the layer is empty.
func YAMLFile(fsys fs.FS, name string) Producer {
	return ProducerFunc(func(Options) (map[string]interface{}, error) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
		var m map[string]interface{}
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return m, nil
	})
}

// ParseArgs parses a list of comma separated key:value pairs. Pairs without
// a colon are ignored.
func ParseArgs(s string) map[string]string {
	args := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		args[k] = strings.TrimSpace(v)
	}
	return args
}
