// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// goldmarkOptions are the options of the Markdown converter. Raw HTML in
// Markdown sources is passed through.
var goldmarkOptions = []goldmark.Option{
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
	goldmark.WithRendererOptions(html.WithUnsafe()),
}

// Markdown returns a converter from Markdown to HTML. options are appended
// to the default goldmark options.
func Markdown(options ...goldmark.Option) Converter {
	opts := make([]goldmark.Option, 0, len(goldmarkOptions)+len(options))
	opts = append(opts, goldmarkOptions...)
	opts = append(opts, options...)
	md := goldmark.New(opts...)
	return func(src []byte, out io.Writer) error {
		return md.Convert(src, out)
	}
}
