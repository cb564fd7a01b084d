// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"os"
)

func main() {
	if err := Run(); err != nil {
		os.Exit(1)
	}
}
