// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package source reads a site source tree.
//
// A source tree has three collections, each in its own directory:
//
//	layouts/  layout templates
//	render/   pages, one output file each
//	static/   assets copied verbatim
//
// The identity of a file is its slash separated path relative to the
// collection directory. Files and directories whose name starts with a dot
// are ignored.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/open2b/magpiler/content"
)

// Collection directories.
const (
	LayoutsDir = "layouts"
	PagesDir   = "render"
	StaticDir  = "static"
)

// Tree is a loaded source tree.
type Tree struct {
	Layouts []*content.Record // layout records in load order
	Pages   []*content.Record // page records in load order
	Static  []string          // static file identities in load order
}

// Load loads the source tree rooted at fsys. Pages are parsed with the given
// options; layouts are parsed without markup conversion, as their bodies are
// template sources. Static files are only listed. A missing collection
// directory is an empty collection.
func Load(fsys fs.FS, options *content.ParseOptions) (*Tree, error) {
	tree := &Tree{}
	var err error
	tree.Layouts, err = parseDir(fsys, LayoutsDir, nil)
	if err != nil {
		return nil, err
	}
	tree.Pages, err = parseDir(fsys, PagesDir, options)
	if err != nil {
		return nil, err
	}
	tree.Static, err = List(fsys, StaticDir)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// parseDir parses the files in the directory dir.
func parseDir(fsys fs.FS, dir string, options *content.ParseOptions) ([]*content.Record, error) {
	names, err := List(fsys, dir)
	if err != nil {
		return nil, err
	}
	records := make([]*content.Record, 0, len(names))
	for _, name := range names {
		src, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		r, err := content.Parse(name, src, options)
		if err != nil {
			return nil, fmt.Errorf("source: %s: %w", dir, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// List returns the identities of the regular files in the directory dir of
// fsys, in lexical order, skipping hidden files and directories. If dir does
// not exist, it returns no files.
func List(fsys fs.FS, dir string) ([]string, error) {
	st, err := fs.Stat(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("source: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("source: %s is not a directory", dir)
	}
	var names []string
	err = fs.WalkDir(fsys, dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if name != dir && Hidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			names = append(names, strings.TrimPrefix(name, dir+"/"))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return names, nil
}

// Hidden reports whether the slash separated path name has a segment that
// starts with a dot.
func Hidden(name string) bool {
	for _, s := range strings.Split(name, "/") {
		if strings.HasPrefix(s, ".") {
			return true
		}
	}
	return false
}
