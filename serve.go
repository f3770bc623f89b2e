// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magpiler

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/open2b/magpiler/layout"
	"github.com/open2b/magpiler/sink"
)

// ServeHTTP serves the site. A request path is the identity of a static file
// or of a page; paths ending with a slash refer to the index.html document
// of the directory. Documents that do not exist are rendered as the
// NotFoundPage page with status 404.
func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	name := requestName(r.URL.Path)

	if s.isStatic[name] {
		s.serveStatic(w, r, name)
		return
	}

	status := http.StatusOK
	req := layout.Request{Target: name}
	if page, ok := s.registry.Page(name); ok {
		req.Record = page
	} else {
		status = http.StatusNotFound
		req.Target = NotFoundPage
	}

	result, err := s.engine.Render(req, s.context)
	if err != nil {
		s.logger.Error("render failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	err = sink.Serve(w, req.Target, status, result)
	if err != nil {
		s.logger.Error("serve failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		return
	}

	s.logger.Debug("served",
		slog.String("path", r.URL.Path),
		slog.String("document", req.Target),
		slog.Int("status", status),
		slog.Duration("elapsed", time.Since(start)))
}

// serveStatic serves the static file name.
func (s *Site) serveStatic(w http.ResponseWriter, r *http.Request, name string) {
	fi, err := s.staticFS.Open(name)
	if err == nil {
		defer fi.Close()
		var st fs.FileInfo
		st, err = fi.Stat()
		if err == nil {
			rs, ok := fi.(io.ReadSeeker)
			if !ok {
				var data []byte
				data, err = io.ReadAll(fi)
				rs = bytes.NewReader(data)
			}
			if err == nil {
				http.ServeContent(w, r, name, st.ModTime(), rs)
				return
			}
		}
	}
	s.logger.Error("static file failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// requestName returns the identity of the document requested with the
// given URL path.
func requestName(p string) string {
	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name == "" || strings.HasSuffix(p, "/") {
		name = path.Join(name, "index.html")
	}
	return name
}
