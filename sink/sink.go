// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sink delivers render results to HTTP responses and files.
package sink

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/open2b/magpiler/doc"

	"github.com/natefinch/atomic"
)

// ContentType returns the content type of a document with the given name.
// Names without a known extension are served as HTML.
func ContentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case "", ".html", ".htm":
		return "text/html; charset=utf-8"
	case ".xml":
		return "text/xml; charset=utf-8"
	}
	if typ := mime.TypeByExtension(ext); typ != "" {
		return typ
	}
	return "text/html; charset=utf-8"
}

// Serve writes r to w as the document name with the given status code. A
// status of zero means http.StatusOK.
//
// Trees are streamed to w. If the serialization fails before anything is
// written, Serve replies with an internal server error; otherwise the
// response is left as it is. In both cases the error is returned.
func Serve(w http.ResponseWriter, name string, status int, r doc.Result) error {
	if status == 0 {
		status = http.StatusOK
	}
	rw := &responseWriter{w: w, name: name, status: status}
	switch r.Kind() {
	case doc.KindTree:
		_, err := r.WriteTo(rw)
		if err != nil {
			if !rw.wroteHeader {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return fmt.Errorf("sink: serve %s: %w", name, err)
		}
		rw.writeHeader()
	default:
		text, _ := r.AsText()
		rw.writeHeader()
		if _, err := io.WriteString(w, text); err != nil {
			return fmt.Errorf("sink: serve %s: %w", name, err)
		}
	}
	return nil
}

// responseWriter writes the response header on the first non-empty write.
type responseWriter struct {
	w           http.ResponseWriter
	name        string
	status      int
	wroteHeader bool
}

func (rw *responseWriter) writeHeader() {
	if rw.wroteHeader {
		return
	}
	rw.w.Header().Set("Content-Type", ContentType(rw.name))
	rw.w.WriteHeader(rw.status)
	rw.wroteHeader = true
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	rw.writeHeader()
	return rw.w.Write(p)
}

// WriteFile writes r to the file name, creating its parent directories. The
// file is replaced atomically and a tree is fully serialized before the file
// is touched.
func WriteFile(name string, r doc.Result) error {
	var src io.Reader
	switch r.Kind() {
	case doc.KindTree:
		var b bytes.Buffer
		if _, err := r.WriteTo(&b); err != nil {
			return fmt.Errorf("sink: write %s: %w", name, err)
		}
		src = &b
	default:
		text, _ := r.AsText()
		src = strings.NewReader(text)
	}
	return writeFile(name, src)
}

// CopyFile copies the file name of src to the file dst.
func CopyFile(src fs.FS, name, dst string) error {
	fi, err := src.Open(name)
	if err != nil {
		return fmt.Errorf("sink: copy %s: %w", name, err)
	}
	defer fi.Close()
	return writeFile(dst, fi)
}

func writeFile(name string, src io.Reader) error {
	err := os.MkdirAll(filepath.Dir(name), 0755)
	if err != nil {
		return fmt.Errorf("sink: %w", err)
	}
	err = atomic.WriteFile(name, src)
	if err != nil {
		return fmt.Errorf("sink: write %s: %w", name, err)
	}
	// atomic creates new files with mode 0600.
	return os.Chmod(name, 0644)
}
