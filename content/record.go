// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package content parses source files into content records.
//
// A source file may start with a front matter block:
//
//	---
//	title: "About"
//	date: "2020-01-01"
//	layout: "post"
//	---
//	# Hi
//
// Every value in the block is a JSON scalar. The rest of the file is the
// body. Markdown bodies are converted to HTML while parsing.
//
// Only the first closing delimiter ends the block: later lines equal to a
// delimiter are part of the body and are not dropped. A block that is never
// closed is a *ParseError, not a file made only of metadata.
package content

import (
	"fmt"
	"time"

	"github.com/open2b/magpiler/doc"
)

// Record is a parsed source file. Records are not modified after the load
// phase.
type Record struct {

	// Identity is the path of the file relative to its collection. When the
	// body is converted from Markdown the markup extension is removed.
	Identity string

	// Raw contains the bytes of the file as read.
	Raw []byte

	// Meta contains the front matter fields. Values are string, float64,
	// bool or nil; the "date" field is a time.Time.
	Meta map[string]interface{}

	// Date is the value of the "date" field, if present.
	Date time.Time

	// Body is the content after the front matter.
	Body doc.Result
}

// Wrap returns a record with only the given body. It is the record passed to
// a parent layout.
func Wrap(body doc.Result) *Record {
	return &Record{Meta: map[string]interface{}{}, Body: body}
}

// Layout returns the "layout" field, or the empty string if it is not a
// string or r is nil.
func (r *Record) Layout() string {
	return r.str("layout")
}

// Title returns the "title" field, or the empty string if it is not a
// string or r is nil.
func (r *Record) Title() string {
	return r.str("title")
}

// Field returns the named front matter field. It returns nil if the field
// does not exist or r is nil.
func (r *Record) Field(name string) interface{} {
	if r == nil {
		return nil
	}
	return r.Meta[name]
}

// Has reports whether r has the named field.
func (r *Record) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.Meta[name]
	return ok
}

func (r *Record) str(name string) string {
	s, _ := r.Field(name).(string)
	return s
}

// ParseError is returned by Parse when the front matter is malformed.
type ParseError struct {
	File string // file identity
	Line int    // line number, starting from 1
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
