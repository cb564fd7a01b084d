// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/echa/config"
	logpkg "github.com/echa/log"
	"github.com/minio/sha256-simd"
	"github.com/spf13/cobra"

	"blockwatch.cc/tzcodec/base58"
	"blockwatch.cc/tzcodec/tezos"
)

var rootCmd = &cobra.Command{
	Use:           appName + " [OPTIONS] [COMMANDS]",
	Short:         "Encode, decode and inspect Tezos values and Micheline expressions",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// overwrite path from command line
		if dbpath != "" {
			config.Set("db.path", dbpath)
		}
	},
}

var (
	// configuration handling
	conf     string
	testconf bool
	dbpath   string
	nocolor  bool

	// verbosity levels
	verbose bool
	vdebug  bool
	vtrace  bool

	// all text conversions run through the SIMD checksum provider
	codec = tezos.NewCodec(base58.NewChecker(sha256.Sum256))
)

func init() {
	cobra.OnInitialize(initConfig)

	// config
	rootCmd.PersistentFlags().StringVarP(&conf, "config", "c", "", "config file")
	rootCmd.PersistentFlags().BoolVarP(&testconf, "test", "t", false, "test configuration and exit")
	rootCmd.PersistentFlags().StringVarP(&dbpath, "dbpath", "p", "", "expression database `path`")
	rootCmd.PersistentFlags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	// verbosity
	rootCmd.PersistentFlags().BoolVar(&verbose, "v", false, "be verbose")
	rootCmd.PersistentFlags().BoolVar(&vdebug, "vv", false, "debug mode")
	rootCmd.PersistentFlags().BoolVar(&vtrace, "vvv", false, "trace mode")
}

func Run() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func initConfig() {
	// set initial log level
	switch {
	case vtrace:
		setLogLevels(logpkg.LevelTrace)
	case vdebug:
		setLogLevels(logpkg.LevelDebug)
	}

	// load config
	config.SetEnvPrefix(envprefix)
	if conf != "" {
		config.SetConfigName(conf)
	}
	realconf := config.ConfigName()
	if _, err := os.Stat(realconf); err == nil {
		if err := config.ReadConfigFile(); err != nil {
			fmt.Fprintf(os.Stderr, "Could not read config %s: %v\n", realconf, err)
			os.Exit(1)
		}
		log.Debugf("Using configuration file %s", realconf)
	}
	initLogging()

	if testconf {
		if err := writeConfig(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
			os.Exit(1)
		}
		log.Info("Configuration OK.")
		os.Exit(0)
	}
	log.Debugf("%s %s %s %s", orgName, appName, version, commit)
}

// writeConfig dumps the effective configuration as indented JSON.
func writeConfig(w io.Writer) error {
	buf, err := json.MarshalIndent(config.All(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", buf)
	return err
}
