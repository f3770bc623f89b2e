// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command magpiler serves a site compiled from a source tree or writes it to
// an output directory.
//
// Usage:
//
//	magpiler [-i input] [-a k1:v1,k2:v2] serve [-p port] [--addr host:port] [--watch]
//	magpiler [-i input] [-a k1:v1,k2:v2] build [-o output] [--jobs n]
//	magpiler version
//
// The input directory contains the source tree in its src subdirectory and,
// optionally, a magpiler.yaml configuration file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		exitError("%s", err)
	}
}

// TestEnvironment is true when testing the command, false otherwise.
var TestEnvironment = false

// exit causes the current program to exit with the given status code. If
// running in a test environment, every exit call is a no-op.
func exit(status int) {
	if !TestEnvironment {
		os.Exit(status)
	}
}

// exitError prints msg on stderr with a bold red color and exits with status
// code 1.
func exitError(format string, a ...interface{}) {
	msg := fmt.Errorf(format, a...)
	fmt.Fprintln(os.Stderr, "\033[1;31m"+msg.Error()+"\033[0m")
	exit(1)
}

// newRootCommand returns the magpiler command with its subcommands.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "magpiler",
		Short:         "Magpiler compiles layouts and pages into a site",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is <input>/magpiler.yaml)")
	flags.StringP("input", "i", ".", "input directory, containing the src directory")
	flags.StringP("args", "a", "", "comma separated key:value pairs passed to the templates")
	flags.BoolP("verbose", "v", false, "log debug messages")
	root.AddCommand(newServeCommand(), newBuildCommand(), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the magpiler version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version := "(devel)"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				version = info.Main.Version
			}
			fmt.Fprintf(cmd.OutOrStdout(), "magpiler version:            %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version used to build it:  %s\n", runtime.Version())
		},
	}
}
