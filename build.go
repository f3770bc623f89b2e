// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magpiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/open2b/magpiler/layout"
	"github.com/open2b/magpiler/sink"

	"golang.org/x/sync/errgroup"
)

// BuildOptions are the options of Site.Build.
type BuildOptions struct {

	// Jobs is the maximum number of files written concurrently. If it is
	// zero, there is no limit.
	Jobs int
}

// Build writes the site to the directory out. Static files are copied and
// pages are rendered into a temporary directory that replaces out only when
// every file has been written. If the build fails, out is left as it was.
// options may be nil.
func (s *Site) Build(ctx context.Context, out string, options *BuildOptions) error {

	start := time.Now()

	out, err := filepath.Abs(out)
	if err != nil {
		return err
	}
	exists, err := checkOutDirectory(out)
	if err != nil {
		return err
	}

	// Reject a static file and a page that would write the same file.
	pages := s.registry.Pages()
	for _, page := range pages {
		if s.isStatic[page.Identity] {
			return fmt.Errorf("magpiler: static file and page both write %q", page.Identity)
		}
	}

	err = os.MkdirAll(filepath.Dir(out), 0755)
	if err != nil {
		return fmt.Errorf("magpiler: %w", err)
	}
	dstDir, err := os.MkdirTemp(filepath.Dir(out), filepath.Base(out)+"-temp-*")
	if err != nil {
		return fmt.Errorf("magpiler: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dstDir); err != nil {
			s.logger.Warn("cannot remove temporary directory", slog.String("dir", dstDir), slog.Any("error", err))
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	if options != nil && options.Jobs > 0 {
		g.SetLimit(options.Jobs)
	}
	for _, name := range s.static {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return sink.CopyFile(s.staticFS, name, filepath.Join(dstDir, filepath.FromSlash(name)))
		})
	}
	for _, page := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := s.engine.Render(layout.Request{Target: page.Identity, Record: page}, s.context)
			if err != nil {
				return fmt.Errorf("magpiler: %s: %w", page.Identity, err)
			}
			return sink.WriteFile(filepath.Join(dstDir, filepath.FromSlash(page.Identity)), result)
		})
	}
	err = g.Wait()
	if err != nil {
		return err
	}

	err = os.Chmod(dstDir, 0755)
	if err != nil {
		return fmt.Errorf("magpiler: %w", err)
	}
	err = replaceDir(out, dstDir, exists)
	if err != nil {
		return err
	}

	s.logger.Info("build completed",
		slog.String("output", out),
		slog.Int("pages", len(pages)),
		slog.Int("static", len(s.static)),
		slog.Duration("elapsed", time.Since(start)))

	return nil
}

// replaceDir replaces the directory out with the directory dir. If exists
// is true, the previous out is moved aside first and restored if dir cannot
// be renamed.
func replaceDir(out, dir string, exists bool) error {
	if !exists {
		if err := os.Rename(dir, out); err != nil {
			return fmt.Errorf("magpiler: %w", err)
		}
		return nil
	}
	old := dir + "-old"
	if err := os.Rename(out, old); err != nil {
		return fmt.Errorf("magpiler: %w", err)
	}
	if err := os.Rename(dir, out); err != nil {
		_ = os.Rename(old, out)
		return fmt.Errorf("magpiler: %w", err)
	}
	if err := os.RemoveAll(old); err != nil {
		return fmt.Errorf("magpiler: cannot remove previous output: %w", err)
	}
	return nil
}

// checkOutDirectory checks that path, if it exists, is a directory, and
// reports whether it exists.
func checkOutDirectory(path string) (bool, error) {
	st, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("magpiler: stat %q: %w", path, err)
	}
	if !st.IsDir() {
		return false, fmt.Errorf("magpiler: path %q exists and is not a directory", path)
	}
	return true, nil
}
