// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"blockwatch.cc/tzcodec/micheline"
	"blockwatch.cc/tzcodec/tezos"
)

func init() {
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(bytesCmd)
}

var decodeCmd = &cobra.Command{
	Use:   "decode <base58>",
	Short: "Decode a Base58Check string into kind and payload",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := decodeString(codec, args[0])
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), res)
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <kind> <hex>",
	Short: "Encode a hex payload as Base58Check string of kind (name or prefix)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := hexArg(cmd.InOrStdin(), args, 1)
		if err != nil {
			return err
		}
		s, err := encodeString(codec, args[0], payload)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), s)
		return nil
	},
}

var bytesCmd = &cobra.Command{
	Use:   "bytes <family> [hex]",
	Short: "Decode a binary value (" + strings.Join(byteFamilies(), ", ") + ")",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		buf, err := hexArg(cmd.InOrStdin(), args, 1)
		if err != nil {
			return err
		}
		val, err := decodeBytes(codec, args[0], buf)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), val)
	},
}

type decodeResult struct {
	Kind    string `json:"kind"`
	Prefix  string `json:"prefix"`
	Payload string `json:"payload"`
	Family  string `json:"family,omitempty"`
	Binary  string `json:"binary,omitempty"`
}

func decodeString(c *tezos.Codec, s string) (*decodeResult, error) {
	h, err := c.ParseHash(s)
	if err != nil {
		return nil, err
	}
	res := &decodeResult{
		Kind:    h.Type.String(),
		Prefix:  h.Type.Prefix(),
		Payload: h.Hex(),
	}
	// add the binary family form where one exists
	if a, err := c.ParseAddress(s); err == nil {
		if b, err := a.MarshalBinary(); err == nil {
			res.Family, res.Binary = "address", hex.EncodeToString(b)
		}
	} else if k, err := c.ParseKey(s); err == nil {
		if b, err := k.MarshalBinary(); err == nil {
			res.Family, res.Binary = "key", hex.EncodeToString(b)
		}
	} else if sig, err := c.ParseSignature(s); err == nil {
		if b, err := sig.MarshalBinary(); err == nil {
			res.Family, res.Binary = "signature", hex.EncodeToString(b)
		}
	}
	log.Debugf("decoded %s as %s", s, res.Kind)
	return res, nil
}

func encodeString(c *tezos.Codec, kind string, payload []byte) (string, error) {
	typ, err := tezos.ParseHashTypeName(kind)
	if err != nil {
		return "", err
	}
	return c.Encode(typ, payload)
}

type byteDecoder func(c *tezos.Codec, buf []byte) (interface{}, error)

var byteDecoders = map[string]byteDecoder{
	"address": func(c *tezos.Codec, buf []byte) (interface{}, error) {
		var a tezos.Address
		if err := a.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return c.FormatAddress(a)
	},
	"key": func(c *tezos.Codec, buf []byte) (interface{}, error) {
		var k tezos.Key
		if err := k.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return c.FormatKey(k)
	},
	"key_hash": func(c *tezos.Codec, buf []byte) (interface{}, error) {
		var k tezos.KeyHash
		if err := k.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return c.FormatKeyHash(k)
	},
	"signature": func(c *tezos.Codec, buf []byte) (interface{}, error) {
		var s tezos.Signature
		if err := s.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return c.FormatSignature(s)
	},
	"chain_id": func(c *tezos.Codec, buf []byte) (interface{}, error) {
		var h tezos.ChainIdHash
		if err := h.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return c.FormatHash(h.Hash)
	},
	"expr": func(c *tezos.Codec, buf []byte) (interface{}, error) {
		var h tezos.ExprHash
		if err := h.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return c.FormatHash(h.Hash)
	},
	"z": func(_ *tezos.Codec, buf []byte) (interface{}, error) {
		var z tezos.Z
		if err := z.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return z.String(), nil
	},
	"n": func(_ *tezos.Codec, buf []byte) (interface{}, error) {
		var n tezos.N
		if err := n.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return n.String(), nil
	},
	"micheline": func(_ *tezos.Codec, buf []byte) (interface{}, error) {
		p := &micheline.Prim{}
		if err := p.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return p, nil
	},
	"script": func(_ *tezos.Codec, buf []byte) (interface{}, error) {
		s := &micheline.Script{}
		if err := s.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return s, nil
	},
	"parameters": func(_ *tezos.Codec, buf []byte) (interface{}, error) {
		p := &micheline.Parameters{}
		if err := p.UnmarshalBinary(buf); err != nil {
			return nil, err
		}
		return p, nil
	},
}

func byteFamilies() []string {
	l := make([]string, 0, len(byteDecoders))
	for k := range byteDecoders {
		l = append(l, k)
	}
	sort.Strings(l)
	return l
}

func decodeBytes(c *tezos.Codec, family string, buf []byte) (interface{}, error) {
	fn, ok := byteDecoders[family]
	if !ok {
		return nil, fmt.Errorf("unknown family %q, use one of %s", family, strings.Join(byteFamilies(), ", "))
	}
	return fn(c, buf)
}

// printResult writes strings as plain lines and everything else as JSON.
func printResult(w io.Writer, val interface{}) error {
	if s, ok := val.(string); ok {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	return printValue(w, val)
}
