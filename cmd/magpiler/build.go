// Copyright 2026 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/open2b/magpiler"

	"github.com/spf13/cobra"
)

func newBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the site to the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := c.logger(os.Stderr)
			site, err := c.loadSite(magpiler.ModeBuild, logger)
			if err != nil {
				return err
			}
			return site.Build(cmd.Context(), c.Output, &magpiler.BuildOptions{Jobs: c.Jobs})
		},
	}
	flags := cmd.Flags()
	flags.StringP("output", "o", "", "output directory (default is <input>/out)")
	flags.Int("jobs", 0, "maximum number of files written concurrently, 0 means no limit")
	return cmd
}
