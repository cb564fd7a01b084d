// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"blockwatch.cc/tzcodec/micheline"
)

var primCategory string

func init() {
	primCmd.Flags().StringVar(&primCategory, "category", "", "only list data, instruction, type or comparable primitives")
	rootCmd.AddCommand(primCmd)
}

var primCmd = &cobra.Command{
	Use:   "prim [name|0xTag]...",
	Short: "List Michelson primitives with their tags and categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := selectPrims(args, primCategory)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		color.NoColor = !useColor(w)
		return printPrimTable(w, ops)
	},
}

func parsePrimArg(s string) (micheline.OpCode, error) {
	if strings.HasPrefix(s, "0x") {
		v, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("invalid tag %q", s)
		}
		return micheline.ParseOpCodeTag(byte(v))
	}
	return micheline.ParseOpCode(s)
}

func selectPrims(args []string, category string) ([]micheline.OpCode, error) {
	var ops []micheline.OpCode
	if len(args) == 0 {
		ops = micheline.OpCodes()
	} else {
		for _, a := range args {
			op, err := parsePrimArg(a)
			if err != nil {
				return nil, err
			}
			ops = append(ops, op)
		}
	}
	if category == "" {
		return ops, nil
	}
	var match func(micheline.OpCode) bool
	switch category {
	case "data":
		match = micheline.OpCode.IsData
	case "instruction":
		match = micheline.OpCode.IsInstruction
	case "type":
		match = micheline.OpCode.IsType
	case "comparable":
		match = micheline.OpCode.IsComparable
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}
	filtered := ops[:0]
	for _, op := range ops {
		if match(op) {
			filtered = append(filtered, op)
		}
	}
	return filtered, nil
}

var (
	tagColor  = color.New(color.FgCyan).SprintFunc()
	nameColor = color.New(color.Bold).SprintFunc()
	catColor  = color.New(color.FgYellow).SprintFunc()
)

func printPrimTable(w io.Writer, ops []micheline.OpCode) error {
	width := len("NAME")
	for _, op := range ops {
		if n := len(op.String()); n > width {
			width = n
		}
	}
	fmt.Fprintf(w, "%s  %s  %s\n", AlignRight("TAG", 4), AlignLeft("NAME", width), "CATEGORY")
	for _, op := range ops {
		_, err := fmt.Fprintf(w, "%s  %s  %s\n",
			AlignRight(tagColor(fmt.Sprintf("0x%02x", byte(op))), 4),
			AlignLeft(nameColor(op.String()), width),
			catColor(op.Categories().String()),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
