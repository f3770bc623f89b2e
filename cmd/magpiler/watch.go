// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/open2b/magpiler/source"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay is the time waited after the last change before reloading.
const reloadDelay = 200 * time.Millisecond

// watcher watches the directories of a tree and calls a function after the
// tree has changed.
type watcher struct {
	fsw     *fsnotify.Watcher
	logger  *slog.Logger
	delay   time.Duration
	changed func()

	mu    sync.Mutex
	timer *time.Timer
}

// watch watches the directory root and its non hidden subdirectories. After
// a change, changed is called once no other change happened for delay.
func watch(root string, delay time.Duration, logger *slog.Logger, changed func()) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{fsw: fsw, logger: logger, delay: delay, changed: changed}
	err = w.addTree(root)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	go w.run()
	return w, nil
}

// addTree adds dir and its non hidden subdirectories to the watched ones.
func (w *watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && source.Hidden(d.Name()) {
			return fs.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *watcher) run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if source.Hidden(filepath.Base(event.Name)) {
				continue
			}
			w.logger.Debug("source changed", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			if event.Op&fsnotify.Create != 0 {
				if st, err := os.Stat(event.Name); err == nil && st.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Error("cannot watch directory", slog.String("dir", event.Name), slog.Any("error", err))
					}
				}
			}
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", slog.Any("error", err))
		}
	}
}

// schedule schedules a call to the changed function, postponing one
// already scheduled.
func (w *watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.changed)
}

// Close stops watching.
func (w *watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}
