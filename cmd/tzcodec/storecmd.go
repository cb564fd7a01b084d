// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"errors"
	"fmt"

	"github.com/echa/config"
	"github.com/spf13/cobra"

	"blockwatch.cc/tzcodec/micheline"
	"blockwatch.cc/tzcodec/store"
	"blockwatch.cc/tzcodec/tezos"
)

var listLimit int

func init() {
	storePutCmd.Flags().StringVar(&jsonPath, "path", "", "select a nested JSON value (gjson syntax)")
	storeGetCmd.Flags().BoolVar(&asText, "text", false, "print Michelson text instead of JSON")
	storeListCmd.Flags().IntVar(&listLimit, "limit", 0, "stop after `n` entries")
	storeCmd.AddCommand(storePutCmd, storeGetCmd, storeDelCmd, storeListCmd, storeStatsCmd)
	rootCmd.AddCommand(storeCmd)
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Keep Micheline expressions in a local database keyed by expression hash",
}

func openStore(readOnly bool) (*store.Store, error) {
	return store.Open(config.GetString("db.path"), &store.Options{
		CacheSize: config.GetInt("db.cache_size"),
		NoSync:    config.GetBool("db.nosync"),
		ReadOnly:  readOnly,
	})
}

var storePutCmd = &cobra.Command{
	Use:   "put [file|-]",
	Short: "Store a Micheline JSON expression and print its hash",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := readExpr(cmd.Context(), cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		db, err := openStore(false)
		if err != nil {
			return err
		}
		defer db.Close()
		h, err := db.Put(p)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

var storeGetCmd = &cobra.Command{
	Use:   "get <expr-hash>",
	Short: "Print a stored expression",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := tezos.ParseExprHash(args[0])
		if err != nil {
			return err
		}
		db, err := openStore(true)
		if err != nil {
			return err
		}
		defer db.Close()
		p, err := db.Get(h)
		if err != nil {
			return err
		}
		return writeExpr(cmd.OutOrStdout(), p, asText, -1)
	},
}

var storeDelCmd = &cobra.Command{
	Use:   "delete <expr-hash>...",
	Short: "Remove stored expressions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hashes := make([]tezos.ExprHash, 0, len(args))
		for _, a := range args {
			h, err := tezos.ParseExprHash(a)
			if err != nil {
				return err
			}
			hashes = append(hashes, h)
		}
		db, err := openStore(false)
		if err != nil {
			return err
		}
		defer db.Close()
		for _, h := range hashes {
			if err := db.Delete(h); err != nil {
				return err
			}
		}
		return nil
	},
}

var errStopList = errors.New("stop")

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored hashes with a compact preview",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(true)
		if err != nil {
			return err
		}
		defer db.Close()
		w := cmd.OutOrStdout()
		var n int
		err = db.ForEach(func(h tezos.ExprHash, p *micheline.Prim) error {
			if listLimit > 0 && n >= listLimit {
				return errStopList
			}
			n++
			_, err := fmt.Fprintf(w, "%s  %s\n", h, p.Compact(3))
			return err
		})
		if errors.Is(err, errStopList) {
			err = nil
		}
		return err
	},
}

var storeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the number of stored expressions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore(true)
		if err != nil {
			return err
		}
		defer db.Close()
		n, err := db.Len()
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), map[string]interface{}{
			"path":  db.Path(),
			"count": n,
		})
	},
}
