// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/acarl005/stripansi"
	ct "github.com/daviddengcn/go-colortext"
	"github.com/echa/config"
	"golang.org/x/term"
)

// colors are only written to an interactive stdout
func useColor(w io.Writer) bool {
	if nocolor || !config.GetBool("cli.color") {
		return false
	}
	f, ok := w.(*os.File)
	return ok && f == os.Stdout && term.IsTerminal(int(f.Fd()))
}

func printValue(w io.Writer, val interface{}) error {
	body, err := json.MarshalIndent(val, "", "    ")
	if err != nil {
		return err
	}
	if !useColor(w) {
		_, err = fmt.Fprintf(w, "%s\n", body)
		return err
	}
	var raw interface{}
	dec := json.NewDecoder(bytes.NewBuffer(body))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	printJSON(w, 1, raw, false)
	fmt.Fprintln(w)
	return nil
}

func printJSON(w io.Writer, depth int, val interface{}, isKey bool) {
	switch v := val.(type) {
	case nil:
		ct.ChangeColor(ct.Blue, false, ct.None, false)
		fmt.Fprint(w, "null")
		ct.ResetColor()
	case bool:
		ct.ChangeColor(ct.Blue, false, ct.None, false)
		fmt.Fprint(w, strconv.FormatBool(v))
		ct.ResetColor()
	case string:
		if isKey {
			ct.ChangeColor(ct.Blue, true, ct.None, false)
		} else {
			ct.ChangeColor(ct.Yellow, false, ct.None, false)
		}
		fmt.Fprint(w, strconv.Quote(v))
		ct.ResetColor()
	case json.Number:
		ct.ChangeColor(ct.Blue, false, ct.None, false)
		fmt.Fprint(w, v)
		ct.ResetColor()
	case map[string]interface{}:
		if len(v) == 0 {
			fmt.Fprint(w, "{}")
			break
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintln(w, "{")
		for i, key := range keys {
			if i > 0 {
				fmt.Fprint(w, ",\n")
			}
			fmt.Fprint(w, strings.Repeat("    ", depth))
			printJSON(w, depth+1, key, true)
			fmt.Fprint(w, ": ")
			printJSON(w, depth+1, v[key], false)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, strings.Repeat("    ", depth-1))
		fmt.Fprint(w, "}")

	case []interface{}:
		if len(v) == 0 {
			fmt.Fprint(w, "[]")
			break
		}
		fmt.Fprintln(w, "[")
		for i, e := range v {
			if i > 0 {
				fmt.Fprint(w, ",\n")
			}
			fmt.Fprint(w, strings.Repeat("    ", depth))
			printJSON(w, depth+1, e, false)
		}
		fmt.Fprintln(w)
		fmt.Fprint(w, strings.Repeat("    ", depth-1))
		fmt.Fprint(w, "]")
	default:
		fmt.Fprintln(w, "unknown type:", reflect.TypeOf(v))
	}
}

// AlignLeft pads t to n visible runes, ignoring color escapes.
func AlignLeft(t string, n int) string {
	s := stripansi.Strip(t)
	slen := utf8.RuneCountInString(s)
	if n < 0 {
		return s[:0]
	}
	if slen > n {
		return string([]rune(s)[:n])
	}
	return t + strings.Repeat(" ", n-slen)
}

// AlignRight align right
func AlignRight(t string, n int) string {
	s := stripansi.Strip(t)
	slen := utf8.RuneCountInString(s)
	if n < 0 {
		return s[:0]
	}
	if slen > n {
		return string([]rune(s)[:n])
	}
	return strings.Repeat(" ", n-slen) + t
}
