// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strings"
	"time"

	"github.com/open2b/magpiler/doc"

	"github.com/tidwall/gjson"
)

// Converter converts a markup source to HTML.
type Converter func(src []byte, out io.Writer) error

// ParseOptions are the options of Parse.
type ParseOptions struct {

	// Markup converts the body of files with a markup extension. If it is
	// nil, bodies are never converted.
	Markup Converter

	// MarkupExts are the markup extensions. If it is nil, DefaultMarkupExts
	// is used.
	MarkupExts []string
}

// DefaultMarkupExts are the default markup extensions.
var DefaultMarkupExts = []string{".md", ".markdown"}

// openers are the lines that open a front matter block. A block is closed by
// any of the delimiters.
var openers = []string{"---", "/*---"}

var delimiters = []string{"---", "/*---", "---*/"}

// dateLayouts are the layouts tried, in order, to parse a "date" string.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var (
	errNotClosed = errors.New("front matter is not closed")
	errEmpty     = errors.New("missing value")
	errNotScalar = errors.New("value is not a JSON scalar")
)

// Parse parses the source file src with the given identity and returns its
// record. If the front matter is malformed, it returns a *ParseError.
func Parse(identity string, src []byte, options *ParseOptions) (*Record, error) {

	r := &Record{
		Identity: identity,
		Raw:      src,
		Meta:     map[string]interface{}{},
	}

	text := string(src)
	if strings.Contains(text, "\r\n") {
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}

	body := text
	lines := strings.Split(text, "\n")
	if isOneOf(lines[0], openers) {
		end := -1
		for i := 1; i < len(lines); i++ {
			line := lines[i]
			if isOneOf(line, delimiters) {
				end = i
				break
			}
			colon := strings.IndexByte(line, ':')
			if colon <= 0 {
				continue
			}
			key := strings.TrimSpace(line[:colon])
			value, err := decodeValue(strings.TrimSpace(line[colon+1:]))
			if err == nil && key == "date" {
				value, err = parseDate(value)
				if err == nil {
					r.Date = value.(time.Time)
				}
			}
			if err != nil {
				return nil, &ParseError{File: identity, Line: i + 1, Err: fmt.Errorf("field %q: %w", key, err)}
			}
			r.Meta[key] = value
		}
		if end == -1 {
			return nil, &ParseError{File: identity, Line: 1, Err: errNotClosed}
		}
		body = strings.Join(lines[end+1:], "\n")
	}

	if options != nil && options.Markup != nil {
		exts := options.MarkupExts
		if exts == nil {
			exts = DefaultMarkupExts
		}
		if ext := path.Ext(identity); isOneOf(ext, exts) {
			var b bytes.Buffer
			err := options.Markup([]byte(body), &b)
			if err != nil {
				return nil, fmt.Errorf("content: cannot convert %s: %w", identity, err)
			}
			body = b.String()
			r.Identity = stripMarkupExt(identity, ext)
		}
	}

	r.Body = doc.Text(body)

	return r, nil
}

// stripMarkupExt removes ext from identity. If the remaining path has no
// extension, ".html" is appended.
func stripMarkupExt(identity, ext string) string {
	p := strings.TrimSuffix(identity, ext)
	if path.Ext(p) == "" {
		p += ".html"
	}
	return p
}

// decodeValue decodes s as a JSON scalar.
func decodeValue(s string) (interface{}, error) {
	if s == "" {
		return nil, errEmpty
	}
	if !gjson.Valid(s) {
		return nil, fmt.Errorf("invalid JSON value %s", s)
	}
	v := gjson.Parse(s)
	if v.IsObject() || v.IsArray() {
		return nil, errNotScalar
	}
	return v.Value(), nil
}

// parseDate parses a decoded "date" value. Strings are parsed with
// dateLayouts and numbers are milliseconds since the Unix epoch.
func parseDate(v interface{}) (time.Time, error) {
	switch v := v.(type) {
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("cannot parse date %q", v)
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			break
		}
		return time.UnixMilli(int64(v)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %v", v)
}

func isOneOf(s string, list []string) bool {
	for _, e := range list {
		if s == e {
			return true
		}
	}
	return false
}
