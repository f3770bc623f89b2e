// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package layout

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/open2b/magpiler/content"
	"github.com/open2b/magpiler/doc"
	"github.com/open2b/magpiler/global"
)

// scriggoEngine returns an engine with the given layout sources compiled by
// Scriggo and a global context with siteTitle set.
func scriggoEngine(t *testing.T, layouts map[string]string, pages ...*content.Record) (*Engine, *global.Context) {
	t.Helper()
	var records []*content.Record
	for identity, src := range layouts {
		records = append(records, page(t, identity, src))
	}
	reg, err := Load(records, pages, NewScriggo(records, nil))
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine(reg)
	base := global.ProducerFunc(func(global.Options) (map[string]interface{}, error) {
		return map[string]interface{}{"siteTitle": "Magpie"}, nil
	})
	ctx, err := global.Build(global.Options{Mode: "build"}, base, nil, e)
	if err != nil {
		t.Fatal(err)
	}
	return e, ctx
}

func TestScriggoTreeLayout(t *testing.T) {
	about, err := content.Parse("about.md", []byte("---\ntitle: \"About\"\n---\n# Hi\n"), &content.ParseOptions{Markup: content.Markdown()})
	if err != nil {
		t.Fatal(err)
	}
	e, ctx := scriggoEngine(t, map[string]string{
		"default.html": `<html><head><title>{% if content != nil %}{{ content.Title() }}{% end %} | {{ site.String("siteTitle") }}</title></head><body>{{ body }}</body></html>`,
	}, about)

	r, err := e.Render(Request{Target: "about.html"}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if r.Kind() != doc.KindTree {
		t.Fatalf("expected a tree, got %s", r.Kind())
	}
	full, err := r.Render()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(full, "<body><h1>Hi</h1>") {
		t.Fatalf("missing rendered body in %q", full)
	}
	if !strings.Contains(full, "<title>About | Magpie</title>") {
		t.Fatalf("missing title in %q", full)
	}
	if strings.Contains(full, "title:") {
		t.Fatalf("front matter left in %q", full)
	}
	var streamed bytes.Buffer
	if _, err := r.WriteTo(&streamed); err != nil {
		t.Fatal(err)
	}
	if streamed.String() != full {
		t.Fatalf("streamed %q, rendered %q", streamed.String(), full)
	}
}

func TestScriggoChain(t *testing.T) {
	e, ctx := scriggoEngine(t, map[string]string{
		"default.html": `<html>{{ body }}</html>`,
		"post.html":    "---\nlayout: \"default\"\n---\n<article>{{ body }}</article>",
	}, page(t, "p.html", "---\nlayout: \"post\"\n---\n<p>x</p>"))
	r, err := e.Render(Request{Target: "p.html"}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := "<html><article><p>x</p></article></html>"; r.String() != want {
		t.Fatalf("expected %q, got %q", want, r.String())
	}
}

func TestScriggoNilContent(t *testing.T) {
	e, ctx := scriggoEngine(t, map[string]string{
		"default.html": `{% if content == nil %}not found: {{ site.DocumentURL() }}{% end %}`,
	})
	r, err := e.Render(Request{Target: "404.html"}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := "not found: 404.html"; r.String() != want {
		t.Fatalf("expected %q, got %q", want, r.String())
	}
}

func TestScriggoRenderLayout(t *testing.T) {
	e, ctx := scriggoEngine(t, map[string]string{
		"default.html":      `{{ renderLayout("partials/nav", nil) }}{{ body }}`,
		"partials/nav.html": `<nav>{{ site.DocumentURL() }}</nav>`,
	}, page(t, "index.html", "<p>home</p>"))
	r, err := e.Render(Request{Target: "index.html"}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := "<nav>index.html</nav><p>home</p>"; r.String() != want {
		t.Fatalf("expected %q, got %q", want, r.String())
	}
}

func TestScriggoRenderLayoutUnknown(t *testing.T) {
	e, ctx := scriggoEngine(t, map[string]string{
		"default.html": `a{{ renderLayout("missing", nil) }}b`,
	})
	r, err := e.Render(Request{Target: "index.html"}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = r.Render(); !errors.Is(err, ErrUnknownLayout) {
		t.Fatalf("expected error %v, got %v", ErrUnknownLayout, err)
	}
}

func TestScriggoTextLayout(t *testing.T) {
	e, ctx := scriggoEngine(t, map[string]string{
		"feed.xml": `<rss><title>{{ site.String("siteTitle") }}</title>{{ body }}</rss>`,
	}, page(t, "rss.xml", "---\nlayout: \"feed\"\n---\n<item/>"))
	r, err := e.Render(Request{Target: "rss.xml"}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	text, ok := r.AsText()
	if !ok {
		t.Fatalf("expected text, got %s", r.Kind())
	}
	if want := "<rss><title>Magpie</title><item/></rss>"; text != want {
		t.Fatalf("expected %q, got %q", want, text)
	}
}

func TestScriggoAccepts(t *testing.T) {
	s := NewScriggo(nil, nil)
	tests := map[string]bool{
		"default.html":  true,
		"PAGE.HTML":     true,
		"feed.xml":      true,
		"robots.txt":    true,
		"macros.md":     false,
		"partial":       false,
		"script.js.bak": false,
	}
	for identity, want := range tests {
		if got := s.Accepts(identity); got != want {
			t.Errorf("Accepts(%q) = %t, want %t", identity, got, want)
		}
	}
}

func TestScriggoCompileError(t *testing.T) {
	records := []*content.Record{page(t, "default.html", `{{ undefinedName }}`)}
	_, err := Load(records, nil, NewScriggo(records, nil))
	if err == nil {
		t.Fatalf("expected build error")
	}
	if !strings.Contains(err.Error(), "default.html") {
		t.Fatalf("error %q does not name the layout", err)
	}
}

func TestScriggoRenderMarkdown(t *testing.T) {
	records := []*content.Record{
		page(t, "default.html", `<main>{{ render "partial.md" }}</main>`),
		page(t, "partial.md", "# Part"),
	}
	reg, err := Load(records, nil, NewScriggo(records, &ScriggoOptions{Markdown: content.Markdown()}))
	if err != nil {
		t.Fatal(err)
	}
	if names := reg.Names(); len(names) != 1 || names[0] != "default" {
		t.Fatalf("expected only the default layout, got %v", names)
	}
	e := NewEngine(reg)
	ctx, err := global.Build(global.Options{}, nil, nil, e)
	if err != nil {
		t.Fatal(err)
	}
	r, err := e.Render(Request{Target: "index.html"}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := "<main><h1>Part</h1>\n</main>"; r.String() != want {
		t.Fatalf("expected %q, got %q", want, r.String())
	}
}

func TestScriggoBuiltins(t *testing.T) {
	e, ctx := scriggoEngine(t, map[string]string{
		"default.html": `{{ toUpper(content.Title()) }} {{ formatDate(content.Date, "2 Jan 2006") }}`,
	}, page(t, "post.html", "---\ntitle: \"hello\"\ndate: \"2024-03-05\"\n---\n"))
	r, err := e.Render(Request{Target: "post.html"}, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := "HELLO 5 Mar 2024"; r.String() != want {
		t.Fatalf("expected %q, got %q", want, r.String())
	}
}

func TestScriggoRenderLayoutRecursion(t *testing.T) {
	e, ctx := scriggoEngine(t, map[string]string{
		"default.html":    `x{{ renderLayout("partials/a", nil) }}`,
		"partials/a.html": `a{{ renderLayout("partials/b", nil) }}`,
		"partials/b.html": `b{{ renderLayout("partials/a", nil) }}`,
		"self.html":       `s{{ renderLayout("self", nil) }}`,
	})
	for _, name := range []string{"default", "self"} {
		r, err := e.Render(Request{Target: "index.html", Layout: name}, ctx)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := r.Render(); !errors.Is(err, ErrLayoutDepth) {
			t.Fatalf("%s: expected error %v, got %v", name, ErrLayoutDepth, err)
		}
	}
}
