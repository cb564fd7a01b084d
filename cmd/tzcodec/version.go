// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	company           = "Blockwatch Data Inc."
	orgUrl            = "blockwatch.cc"
	orgName           = "Blockwatch"
	appName           = "tzcodec"
	version    string = "v1.0"
	commit     string = "dev"
	envprefix         = "TZCODEC"
)

func UserAgent() string {
	return fmt.Sprintf("%s.%s/%s.%s",
		appName,
		orgUrl,
		version,
		commit,
	)
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of " + appName,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s TzCodec %s -- %s\n", orgName, version, commit)
		fmt.Fprintf(cmd.OutOrStdout(), "(c) Copyright 2020-2024 -- %s\n", company)
		fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
	},
}
