// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package global

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/open2b/magpiler/content"
	"github.com/open2b/magpiler/doc"

	"github.com/google/go-cmp/cmp"
)

func layer(m map[string]interface{}) Producer {
	return ProducerFunc(func(Options) (map[string]interface{}, error) {
		return m, nil
	})
}

func TestBuildLayering(t *testing.T) {
	options := Options{Mode: "build", Args: map[string]string{"env": "dev", "a": "arg"}}
	base := layer(map[string]interface{}{"a": "base", "b": "base", "siteTitle": "Site"})
	override := layer(map[string]interface{}{"b": "override", "mode": "custom"})
	ctx, err := Build(options, base, override, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"a":         "base",
		"b":         "override",
		"env":       "dev",
		"mode":      "custom",
		"output":    "",
		"siteTitle": "Site",
		"source":    "",
	}
	got := map[string]interface{}{}
	for _, k := range ctx.Keys() {
		got[k] = ctx.Get(k)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected context (-want +got):\n%s", diff)
	}
}

func TestBuildProducerOptions(t *testing.T) {
	var got Options
	base := ProducerFunc(func(o Options) (map[string]interface{}, error) {
		got = o
		return nil, nil
	})
	options := Options{Mode: "serve", Source: "src", Args: map[string]string{"k": "v"}}
	if _, err := Build(options, base, nil, nil); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(options, got); diff != "" {
		t.Fatalf("unexpected options (-want +got):\n%s", diff)
	}
}

func TestBuildError(t *testing.T) {
	boom := errors.New("boom")
	failing := ProducerFunc(func(Options) (map[string]interface{}, error) {
		return nil, boom
	})
	_, err := Build(Options{}, nil, failing, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected error %v, got %v", boom, err)
	}
}

func TestForDocument(t *testing.T) {
	ctx, err := Build(Options{}, layer(map[string]interface{}{"k": "v"}), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := ctx.ForDocument("about.html")
	if c.DocumentURL() != "about.html" || c.Get(DocumentURLKey) != "about.html" {
		t.Fatalf("expected document URL %q, got %q", "about.html", c.DocumentURL())
	}
	if c.String("k") != "v" {
		t.Fatalf("expected k = %q, got %v", "v", c.Get("k"))
	}
	if ctx.DocumentURL() != "" {
		t.Fatalf("base context modified")
	}
	if _, ok := ctx.Lookup(DocumentURLKey); ok {
		t.Fatalf("base context must not have a document URL")
	}
}

type recordingResolver struct {
	name string
	ctx  *Context
}

func (r *recordingResolver) RenderLayout(name string, _ *content.Record, ctx *Context) (doc.Result, error) {
	r.name = name
	r.ctx = ctx
	return doc.Text("partial"), nil
}

func TestRenderLayout(t *testing.T) {
	res := &recordingResolver{}
	ctx, err := Build(Options{}, nil, nil, res)
	if err != nil {
		t.Fatal(err)
	}
	c := ctx.ForDocument("index.html")
	r, err := c.RenderLayout("nav", nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "partial" || res.name != "nav" {
		t.Fatalf("unexpected resolution of %q", res.name)
	}
	if res.ctx.DocumentURL() != "index.html" || res.ctx.Depth() != 1 {
		t.Fatalf("expected document %q at depth 1, got %q at depth %d", "index.html", res.ctx.DocumentURL(), res.ctx.Depth())
	}
	if c.Depth() != 0 {
		t.Fatalf("RenderLayout modified the caller context")
	}
	if _, err := res.ctx.RenderLayout("nav", nil); err != nil || res.ctx.Depth() != 2 {
		t.Fatalf("expected nested depth 2, got %d (%v)", res.ctx.Depth(), err)
	}

	ctx, _ = Build(Options{}, nil, nil, nil)
	if _, err := ctx.RenderLayout("nav", nil); err == nil {
		t.Fatalf("expected error without a resolver")
	}
}

func TestYAMLFile(t *testing.T) {
	fsys := fstest.MapFS{
		"global.yaml": {Data: []byte("siteTitle: My Site\nnav:\n  - home\n  - blog\n")},
		"bad.yaml":    {Data: []byte("a: [")},
	}
	m, err := YAMLFile(fsys, "global.yaml").Produce(Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"siteTitle": "My Site", "nav": []interface{}{"home", "blog"}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}
	m, err = YAMLFile(fsys, "config.yaml").Produce(Options{})
	if err != nil || m != nil {
		t.Fatalf("expected empty layer for missing file, got %v (%v)", m, err)
	}
	if _, err = YAMLFile(fsys, "bad.yaml").Produce(Options{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"k1:v1,k2:v2", map[string]string{"k1": "v1", "k2": "v2"}},
		{"url:http://localhost:8123", map[string]string{"url": "http://localhost:8123"}},
		{"novalue, k : v ,:x", map[string]string{"k": "v"}},
	}
	for _, test := range tests {
		if diff := cmp.Diff(test.want, ParseArgs(test.in)); diff != "" {
			t.Errorf("ParseArgs(%q) (-want +got):\n%s", test.in, diff)
		}
	}
}
