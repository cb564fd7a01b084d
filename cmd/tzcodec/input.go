// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// readInput returns the contents of the file named by the first argument,
// or stdin when no argument or "-" is given.
func readInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}

// extractPath selects a nested JSON value, e.g. `script.code` or
// `contents.0.parameters.value`.
func extractPath(buf []byte, path string) ([]byte, error) {
	if path == "" {
		return buf, nil
	}
	if !gjson.ValidBytes(buf) {
		return nil, fmt.Errorf("input is not valid JSON")
	}
	res := gjson.GetBytes(buf, path)
	if !res.Exists() {
		return nil, fmt.Errorf("path %q not found", path)
	}
	return []byte(res.Raw), nil
}

// parseHex accepts hex with an optional 0x prefix and surrounding space.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return buf, nil
}

// hexArg reads hex from the argument at index i or from stdin if it is
// missing or "-".
func hexArg(stdin io.Reader, args []string, i int) ([]byte, error) {
	if len(args) > i && args[i] != "-" {
		return parseHex(args[i])
	}
	buf, err := io.ReadAll(stdin)
	if err != nil {
		return nil, err
	}
	return parseHex(string(bytes.TrimSpace(buf)))
}
