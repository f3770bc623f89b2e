// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layout loads layout templates and resolves layout chains.
//
// A layout is a template invoked with a content and the global context. A
// layout may declare a parent in its "layout" front matter field; the
// result of the layout becomes the body of the content passed to the
// parent, and so on until a layout without a parent is reached:
//
//	post.html     ---                 default.html   <html>
//	              layout: "default"                  <body>{{ body }}</body>
//	              ---                                </html>
//	              <article>{{ body }}</article>
//
// The first layout of a chain is the "layout" field of the content or, if
// it has none, the layout named "default".
package layout
