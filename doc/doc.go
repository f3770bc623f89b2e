// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package doc defines the result of a template invocation.
//
// A Result is either literal text or a document tree. A tree is serialized
// lazily, so it can be streamed to a network connection as it is produced or
// fully rendered into a string before being written to a file.
package doc

import (
	"io"
	"strings"
)

// Kind is the kind of a Result.
type Kind int

const (
	KindNone Kind = iota // zero Result
	KindText             // literal text
	KindTree             // document tree
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTree:
		return "tree"
	}
	return "none"
}

// Node is a document tree. WriteTo serializes the tree to w, writing it
// progressively.
type Node interface {
	WriteTo(w io.Writer) (int64, error)
}

// NodeFunc adapts a serialization function to the Node interface.
type NodeFunc func(w io.Writer) error

// WriteTo calls f(w) and returns the number of bytes written to w.
func (f NodeFunc) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	err := f(cw)
	return cw.n, err
}

// Result is the result of a template invocation. The zero value is an empty
// result that serializes to nothing.
type Result struct {
	kind Kind
	text string
	node Node
}

// Text returns a text result.
func Text(s string) Result {
	return Result{kind: KindText, text: s}
}

// Tree returns a tree result. It panics if n is nil.
func Tree(n Node) Result {
	if n == nil {
		panic("doc: nil tree node")
	}
	return Result{kind: KindTree, node: n}
}

// Kind returns the kind of r.
func (r Result) Kind() Kind {
	return r.kind
}

// IsZero reports whether r is the zero Result.
func (r Result) IsZero() bool {
	return r.kind == KindNone
}

// AsText returns the text of r and true if r is a text result.
func (r Result) AsText() (string, bool) {
	return r.text, r.kind == KindText
}

// AsTree returns the node of r and true if r is a tree result.
func (r Result) AsTree() (Node, bool) {
	return r.node, r.kind == KindTree
}

// WriteTo writes r to w. A tree is serialized incrementally.
func (r Result) WriteTo(w io.Writer) (int64, error) {
	switch r.kind {
	case KindText:
		n, err := io.WriteString(w, r.text)
		return int64(n), err
	case KindTree:
		return r.node.WriteTo(w)
	}
	return 0, nil
}

// Render fully serializes r and returns it as a string.
func (r Result) Render() (string, error) {
	if r.kind == KindText {
		return r.text, nil
	}
	var b strings.Builder
	_, err := r.WriteTo(&b)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// String returns the serialized result or, if the serialization fails, the
// empty string.
func (r Result) String() string {
	s, _ := r.Render()
	return s
}

type countWriter struct {
	w io.Writer
	n int64
}

func (cw *countWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
