// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"fmt"
	"sort"
	"strings"
)

type Entrypoint struct {
	Id     int    `json:"id"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
	Type   *Prim  `json:"type"`
}

type Entrypoints map[string]Entrypoint

func (e Entrypoints) FindBranch(branch string) (Entrypoint, bool) {
	if branch == "" {
		return Entrypoint{}, false
	}
	for _, v := range e {
		if v.Branch == branch {
			return v, true
		}
	}
	return Entrypoint{}, false
}

func (e Entrypoints) FindId(id int) (Entrypoint, bool) {
	for _, v := range e {
		if v.Id == id {
			return v, true
		}
	}
	return Entrypoint{}, false
}

// Sorted returns entrypoints in id order.
func (e Entrypoints) Sorted() []Entrypoint {
	list := make([]Entrypoint, 0, len(e))
	for _, v := range e {
		list = append(list, v)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Id < list[j].Id })
	return list
}

// Entrypoints lists the script's entrypoints. Every leaf of the parameter
// type's `or` tree is one entrypoint, named after its field annotation.
// Unnamed leaves are called __entry_NN__. A parameter type that is not an
// `or` yields a single entrypoint named default.
func (s *Script) Entrypoints() (Entrypoints, error) {
	return ListEntrypoints(s.ParamType())
}

func ListEntrypoints(param *Prim) (Entrypoints, error) {
	if param == nil {
		return nil, fmt.Errorf("micheline: missing parameter type")
	}
	e := make(Entrypoints)
	if err := listEntrypoints(e, "", param); err != nil {
		return nil, err
	}
	if len(e) == 1 {
		for n, v := range e {
			if strings.HasPrefix(n, "__entry_") {
				delete(e, n)
				v.Name = "default"
				e[v.Name] = v
			}
		}
	}
	return e, nil
}

// returns path to named entrypoint
func (s *Script) SearchEntrypointName(name string) string {
	param := s.ParamType()
	if param == nil {
		return ""
	}
	return searchEntrypointName(name, "", param)
}

func searchEntrypointName(name, branch string, node *Prim) string {
	if node.GetFieldAnno() == name {
		return branch
	}
	if node.OpCode == T_OR && len(node.Args) == 2 && (len(branch) == 0 || !node.HasFieldAnno()) {
		// LEFT
		if b := searchEntrypointName(name, branch+"L", node.Args[0]); b != "" {
			return b
		}
		// RIGHT
		if b := searchEntrypointName(name, branch+"R", node.Args[1]); b != "" {
			return b
		}
	}
	return ""
}

// Explicit list of prefixes for detecting entrypoints.
//
// This is necessary to resolve ambiguities in contract designs that
// use T_OR as call parameter.
var knownEntrypointPrefixes = []string{"_Liq_entry_"}

func isKnownEntrypointPrefix(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, v := range knownEntrypointPrefixes {
		if strings.HasPrefix(s, v) {
			return true
		}
	}
	return false
}

// walks T_OR expressions and stores each non-T_OR branch as entrypoint
func listEntrypoints(e Entrypoints, branch string, node *Prim) error {
	if node.OpCode == T_OR && node.Type.IsApplication() && !isKnownEntrypointPrefix(node.GetFieldAnno()) {
		if l := len(node.Args); l != 2 {
			return fmt.Errorf("micheline: expected 2 arguments for T_OR, got %d", l)
		}
		if err := listEntrypoints(e, branch+"L", node.Args[0]); err != nil {
			return err
		}
		return listEntrypoints(e, branch+"R", node.Args[1])
	}

	ep := Entrypoint{
		Id:     len(e),
		Branch: branch,
		Type:   node.Clone(),
	}
	if name := node.GetFieldAnno(); name != "" {
		ep.Name = name
		// lift type tree when under the same name as entrypoint
		ep.Type.StripAnno(name)
	} else {
		ep.Name = fmt.Sprintf("__entry_%02d__", len(e))
	}
	if _, ok := e[ep.Name]; ok {
		return fmt.Errorf("micheline: duplicate entrypoint %q", ep.Name)
	}
	e[ep.Name] = ep
	return nil
}
