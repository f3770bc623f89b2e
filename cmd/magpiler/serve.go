// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/open2b/magpiler"

	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site rendering each document on request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), c)
		},
	}
	flags := cmd.Flags()
	flags.IntP("port", "p", defaultPort, "port of the web server")
	flags.String("addr", "", "address of the web server, in the form host:port")
	flags.Bool("watch", false, "reload the site when the source tree changes")
	return cmd
}

// serve serves the site until ctx is done.
func serve(ctx context.Context, c *config) error {

	addr, err := c.listenAddr()
	if err != nil {
		return err
	}
	logger := c.logger(os.Stderr)

	srv := &server{config: c, logger: logger}
	site, err := c.loadSite(magpiler.ModeServe, logger)
	if err != nil {
		return err
	}
	srv.site.Store(site)

	if c.Watch {
		w, err := watch(c.sourceDir(), reloadDelay, logger, srv.reload)
		if err != nil {
			return err
		}
		defer w.Close()
	}

	s := &http.Server{
		Addr:           addr,
		Handler:        srv,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdown)
	}()

	fmt.Fprintf(os.Stderr, "Web server is available at http://%s/\n", addr)
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

	err = s.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// server serves the current site. The site is replaced when the source tree
// is reloaded.
type server struct {
	config *config
	logger *slog.Logger
	site   atomic.Pointer[magpiler.Site]

	mu sync.Mutex // serializes reloads
}

func (srv *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	srv.site.Load().ServeHTTP(w, r)
}

// reload loads the source tree again and, if there are no errors, replaces
// the served site with the new one.
func (srv *server) reload() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	start := time.Now()
	site, err := srv.config.loadSite(magpiler.ModeServe, srv.logger)
	if err != nil {
		srv.logger.Error("reload failed, serving the previous site", slog.Any("error", err))
		return
	}
	srv.site.Store(site)
	srv.logger.Info("site reloaded", slog.Duration("elapsed", time.Since(start)))
}
