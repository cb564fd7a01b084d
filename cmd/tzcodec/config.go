// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"github.com/echa/config"

	"blockwatch.cc/tzcodec/store"
)

func init() {
	// database
	config.SetDefault("db.path", "./tzcodec.db")
	config.SetDefault("db.cache_size", store.DefaultCacheSize) // decoded expressions kept in memory
	config.SetDefault("db.nosync", false)                      // skip fsync, dangerous

	// output
	config.SetDefault("cli.color", true) // colorize on terminals

	// logging
	config.SetDefault("log.backend", "stdout")
	config.SetDefault("log.flags", "date,time,micro,utc")
	config.SetDefault("log.level", "warn")
	config.SetDefault("log.micheline", "warn")
	config.SetDefault("log.store", "warn")
	config.SetDefault("log.filemode", 0o600)
}
