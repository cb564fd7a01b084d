// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"os"

	"github.com/echa/config"
	logpkg "github.com/echa/log"

	"blockwatch.cc/tzcodec/micheline"
	"blockwatch.cc/tzcodec/store"
)

var (
	log     = logpkg.NewLogger("MAIN") // main program
	michLog = logpkg.NewLogger("MICH") // micheline
	storLog = logpkg.NewLogger("STOR") // expression store
)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]logpkg.Logger{
	"MAIN": log,
	"MICH": michLog,
	"STOR": storLog,
}

func initLogging() {
	cfg := logpkg.NewConfig()
	cfg.Level = logpkg.ParseLevel(config.GetString("log.level"))
	cfg.Flags = logpkg.ParseFlags(config.GetString("log.flags"))
	cfg.Backend = config.GetString("log.backend")
	cfg.Filename = config.GetString("log.filename")
	cfg.FileMode = os.FileMode(config.GetInt("log.filemode"))
	logpkg.Init(cfg)

	log = logpkg.NewLogger("MAIN") // command level

	// create loggers with configured backend
	michLog = logpkg.NewLogger("MICH")
	michLog.SetLevel(logpkg.ParseLevel(config.GetString("log.micheline")))
	storLog = logpkg.NewLogger("STOR")
	storLog.SetLevel(logpkg.ParseLevel(config.GetString("log.store")))

	micheline.UseLogger(michLog)
	store.UseLogger(storLog)

	subsystemLoggers = map[string]logpkg.Logger{
		"MAIN": log,
		"MICH": michLog,
		"STOR": storLog,
	}

	// handle cli flags
	switch {
	case vtrace:
		setLogLevels(logpkg.LevelTrace)
	case vdebug:
		setLogLevels(logpkg.LevelDebug)
	case verbose:
		setLogLevels(logpkg.LevelInfo)
	}
}

// setLogLevel sets the logging level for provided subsystem. Invalid
// subsystems are ignored.
func setLogLevel(subsystemID string, level logpkg.Level) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}
	logger.SetLevel(level)
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(level logpkg.Level) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, level)
	}
}
