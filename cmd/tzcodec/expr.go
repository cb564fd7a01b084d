// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"blockwatch.cc/tzcodec/micheline"
)

var (
	// unpack options
	asText  bool
	compact int
	rawData bool

	// pack and hash options
	jsonPath string
	typeExpr string
	noMark   bool
)

func init() {
	unpackCmd.Flags().BoolVar(&asText, "text", false, "print Michelson text instead of JSON")
	unpackCmd.Flags().IntVar(&compact, "compact", -1, "print text with at most `n` args per node")
	unpackCmd.Flags().BoolVar(&rawData, "raw", false, "input has no pack watermark")
	rootCmd.AddCommand(unpackCmd)

	packCmd.Flags().StringVar(&jsonPath, "path", "", "select a nested JSON value (gjson syntax)")
	packCmd.Flags().StringVar(&typeExpr, "type", "", "Micheline JSON type used to optimize the value")
	packCmd.Flags().BoolVar(&noMark, "raw", false, "omit the pack watermark")
	rootCmd.AddCommand(packCmd)

	hashCmd.Flags().StringVar(&jsonPath, "path", "", "select a nested JSON value (gjson syntax)")
	hashCmd.Flags().StringVar(&typeExpr, "type", "", "Micheline JSON key type, hashes like a big_map key")
	rootCmd.AddCommand(hashCmd)
}

var unpackCmd = &cobra.Command{
	Use:   "unpack [hex|-]",
	Short: "Decode binary Micheline into JSON or Michelson text",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := hexArg(cmd.InOrStdin(), args, 0)
		if err != nil {
			return err
		}
		p, err := unpackExpr(buf, rawData)
		if err != nil {
			return err
		}
		return writeExpr(cmd.OutOrStdout(), p, asText, compact)
	},
}

var packCmd = &cobra.Command{
	Use:   "pack [file|-]",
	Short: "Encode Micheline JSON into packed hex",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readExpr(cmd.Context(), cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		buf, err := packExpr(cmd.Context(), p, typeExpr, !noMark)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf))
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash [file|-]",
	Short: "Compute the script expression hash of Micheline JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readExpr(cmd.Context(), cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		h, err := hashExpr(cmd.Context(), p, typeExpr)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

// readExpr loads and schema-checks a Micheline JSON expression.
func readExpr(ctx context.Context, stdin io.Reader, args []string) (*micheline.Prim, error) {
	buf, err := readInput(stdin, args)
	if err != nil {
		return nil, err
	}
	buf, err = extractPath(buf, jsonPath)
	if err != nil {
		return nil, err
	}
	return micheline.ParseJSON(ctxOrBackground(ctx), buf)
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func parseType(ctx context.Context, typ string) (*micheline.Prim, error) {
	if typ == "" {
		return nil, nil
	}
	t, err := micheline.ParseJSON(ctxOrBackground(ctx), []byte(typ))
	if err != nil {
		return nil, fmt.Errorf("type: %w", err)
	}
	return t, nil
}

func unpackExpr(buf []byte, raw bool) (*micheline.Prim, error) {
	if raw {
		p := &micheline.Prim{}
		if err := p.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return p, nil
	}
	return micheline.Unpack(buf)
}

func packExpr(ctx context.Context, p *micheline.Prim, typ string, watermark bool) ([]byte, error) {
	t, err := parseType(ctx, typ)
	if err != nil {
		return nil, err
	}
	if t != nil {
		if p, err = p.Optimize(t); err != nil {
			return nil, err
		}
	}
	if !watermark {
		return p.MarshalBinary()
	}
	return p.Pack()
}

func hashExpr(ctx context.Context, p *micheline.Prim, typ string) (string, error) {
	t, err := parseType(ctx, typ)
	if err != nil {
		return "", err
	}
	if t != nil {
		h, err := micheline.KeyHash(t, p)
		if err != nil {
			return "", err
		}
		return h.String(), nil
	}
	h, err := p.Hash()
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

func writeExpr(w io.Writer, p *micheline.Prim, text bool, n int) error {
	switch {
	case n >= 0:
		_, err := fmt.Fprintln(w, p.Compact(n))
		return err
	case text:
		_, err := fmt.Fprintln(w, p.Text())
		return err
	default:
		return printValue(w, p)
	}
}
