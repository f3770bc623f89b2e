// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/open2b/magpiler"
	"github.com/open2b/magpiler/global"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// defaultPort is the port of the development server.
const defaultPort = 8123

// Directories within the input directory.
const (
	srcDir = "src"
	outDir = "out"
)

// config is the configuration of a run. Values come, in order of
// precedence, from the command line flags, the MAGPILER_* environment
// variables, the configuration file and the defaults.
type config struct {
	Input   string
	Args    string
	Verbose bool
	Port    int
	Addr    string
	Watch   bool
	Output  string
	Jobs    int
}

// loadConfig loads the configuration of cmd.
func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viper.New()
	v.SetDefault("input", ".")
	v.SetDefault("port", defaultPort)
	v.SetEnvPrefix("MAGPILER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	file := v.GetString("config")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(v.GetString("input"))
		v.SetConfigName("magpiler")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}
	c := &config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}
	if c.Output == "" {
		c.Output = filepath.Join(c.Input, outDir)
	}
	return c, nil
}

// sourceDir returns the directory of the source tree.
func (c *config) sourceDir() string {
	return filepath.Join(c.Input, srcDir)
}

// listenAddr returns the address of the development server.
func (c *config) listenAddr() (string, error) {
	if c.Addr != "" {
		return parseAddr(c.Addr)
	}
	return parseAddr(fmt.Sprintf(":%d", c.Port))
}

// logger returns the logger of the run, writing to w.
func (c *config) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadSite loads the site of the source directory in the given mode.
func (c *config) loadSite(mode string, logger *slog.Logger) (*magpiler.Site, error) {
	dir := c.sourceDir()
	st, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("source directory %q is not a directory", dir)
	}
	return magpiler.Load(os.DirFS(dir), &magpiler.Options{
		Mode:   mode,
		Source: dir,
		Output: c.Output,
		Args:   global.ParseArgs(c.Args),
		Logger: logger,
	})
}
