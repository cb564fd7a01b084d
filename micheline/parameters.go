// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"blockwatch.cc/tzcodec/tezos"
)

// longest entrypoint name accepted by the protocol
const MaxEntrypointLen = 31

// well-known entrypoints have a single byte binary form
var entrypointTags = []string{
	"default",
	"root",
	"do",
	"set_delegate",
	"remove_delegate",
	"deposit",
}

const namedEntrypointTag = 0xff

type Parameters struct {
	Entrypoint string `json:"entrypoint"`
	Value      *Prim  `json:"value"`
}

// IsDefault reports a Unit call to the default entrypoint, which is encoded
// as absent parameters.
func (p Parameters) IsDefault() bool {
	return (p.Entrypoint == "" || p.Entrypoint == "default") &&
		(p.Value == nil || (p.Value.Type.IsApplication() && p.Value.OpCode == D_UNIT && len(p.Value.Args) == 0))
}

func (p Parameters) MarshalJSON() ([]byte, error) {
	if p.Entrypoint == "" {
		return json.Marshal(p.Value)
	}
	type alias Parameters
	return json.Marshal(alias(p))
}

func (p *Parameters) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '[' {
		// non-entrypoint calling convention
		p.Entrypoint = "default"
		p.Value = &Prim{}
		return json.Unmarshal(data, p.Value)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if _, ok := m["value"]; ok {
		type alias *Parameters
		return json.Unmarshal(data, alias(p))
	}
	// legacy calling convention for single prim values
	p.Entrypoint = "default"
	p.Value = &Prim{}
	return json.Unmarshal(data, p.Value)
}

// MapEntrypoint resolves the called entrypoint against the script and
// returns it along with the value unwrapped from any Left/Right branches
// that lead to it.
func (p Parameters) MapEntrypoint(script *Script) (Entrypoint, *Prim, error) {
	var (
		ep   Entrypoint
		ok   bool
		prim *Prim
	)

	eps, err := script.Entrypoints()
	if err != nil {
		return ep, nil, err
	}

	switch p.Entrypoint {
	case "default":
		// rebase branch by prepending the path to the named default entrypoint
		prefix := script.SearchEntrypointName("default")
		branch := p.Branch(prefix, eps) // can be [LR]+ or empty when entrypoint is used
		ep, ok = eps.FindBranch(branch)
		if !ok {
			log.Debugf("using fallback default entrypoint 0, '%s' not found", branch)
			ep, _ = eps.FindId(0)
			prim = p.Value
		} else {
			prim = p.Unwrap(strings.TrimPrefix(ep.Branch, prefix))
		}

	case "root", "":
		// search unnamed naked entrypoint
		branch := p.Branch("", eps)
		ep, ok = eps.FindBranch(branch)
		if !ok {
			ep, _ = eps.FindId(0)
		}
		log.Debugf("found unnamed/root entrypoint at %s", ep.Branch)
		prim = p.Unwrap(ep.Branch)

	default:
		// search for named entrypoint
		ep, ok = eps[p.Entrypoint]
		if ok {
			prim = p.Value
			break
		}
		// entrypoint can be a combination of an annotated branch and more T_OR
		// branches inside parameters, so lets find the named branch
		log.Debugf("entrypoint %s in parameters is unknown, recursing", p.Entrypoint)
		prefix := script.SearchEntrypointName(p.Entrypoint)
		if prefix == "" {
			return ep, nil, fmt.Errorf("micheline: missing entrypoint '%s'", p.Entrypoint)
		}
		branch := p.Branch(prefix, eps)
		ep, ok = eps.FindBranch(branch)
		if !ok {
			return ep, nil, fmt.Errorf("micheline: missing entrypoint '%s' + %s", p.Entrypoint, prefix)
		}
		log.Debugf("rebase to real entrypoint '%s' at %s", ep.Name, ep.Branch)
		// unwrap the suffix branch only
		prim = p.Unwrap(strings.TrimPrefix(ep.Branch, prefix))
	}
	return ep, prim, nil
}

// Branch follows the value's Left/Right wrappers starting at prefix until a
// known entrypoint branch is reached.
func (p Parameters) Branch(prefix string, eps Entrypoints) string {
	node := p.Value
	if node == nil {
		return ""
	}
	branch := prefix
done:
	for {
		switch node.OpCode {
		case D_LEFT:
			branch += "L"
		case D_RIGHT:
			branch += "R"
		default:
			break done
		}
		if !node.Type.IsApplication() || len(node.Args) != 1 {
			break done
		}
		node = node.Args[0]
		if _, ok := eps.FindBranch(branch); ok {
			break done
		}
	}
	return branch
}

// Unwrap strips one Left/Right wrapper per branch step.
func (p Parameters) Unwrap(branch string) *Prim {
	node := p.Value
	for range branch {
		if node == nil || len(node.Args) == 0 {
			break
		}
		node = node.Args[0]
	}
	return node
}

// MarshalBinary returns the operation encoding of call parameters: a
// presence flag, the entrypoint and the length-prefixed value.
func (p Parameters) MarshalBinary() ([]byte, error) {
	if p.IsDefault() {
		return []byte{0}, nil
	}
	if p.Value == nil {
		return nil, fmt.Errorf("micheline: missing parameter value")
	}
	buf := bytes.NewBuffer([]byte{0xff})
	name := p.Entrypoint
	if name == "" {
		name = "default"
	}
	tag := -1
	for i, v := range entrypointTags {
		if v == name {
			tag = i
			break
		}
	}
	if tag >= 0 {
		buf.WriteByte(byte(tag))
	} else {
		if len(name) > MaxEntrypointLen {
			return nil, fmt.Errorf("micheline: entrypoint name %q longer than %d bytes", name, MaxEntrypointLen)
		}
		buf.WriteByte(namedEntrypointTag)
		buf.WriteByte(byte(len(name)))
		buf.WriteString(name)
	}

	pos := beginBlock(buf)
	if err := p.Value.EncodeBuffer(buf); err != nil {
		return nil, err
	}
	endBlock(buf, pos)
	return buf.Bytes(), nil
}

func (p *Parameters) UnmarshalBinary(data []byte) error {
	c := tezos.NewCursor(data)
	if err := p.DecodeBuffer(c); err != nil {
		return err
	}
	return c.Done()
}

func (p *Parameters) DecodeBuffer(c *tezos.Cursor) error {
	tmp := *c
	flag, err := tmp.ReadByte()
	if err != nil {
		return err
	}
	if flag == 0 {
		p.Entrypoint = "default"
		p.Value = NewUnit()
		*c = tmp
		return nil
	}
	tag, err := tmp.ReadByte()
	if err != nil {
		return err
	}
	var name string
	switch {
	case int(tag) < len(entrypointTags):
		name = entrypointTags[tag]
	case tag == namedEntrypointTag:
		n, err := tmp.ReadByte()
		if err != nil {
			return err
		}
		if n > MaxEntrypointLen {
			return fmt.Errorf("%w: entrypoint name length %d", tezos.ErrInvalidEncoding, n)
		}
		b, err := tmp.Read(int(n))
		if err != nil {
			return err
		}
		name = string(b)
	default:
		return fmt.Errorf("%w: entrypoint tag 0x%02x", tezos.ErrUnknownTag, tag)
	}

	size, err := tmp.ReadUint32()
	if err != nil {
		return err
	}
	sub, err := tmp.Sub(int(size))
	if err != nil {
		return err
	}
	prim := &Prim{}
	if err := prim.DecodeBuffer(sub); err != nil {
		return err
	}
	if err := sub.Done(); err != nil {
		return err
	}
	p.Entrypoint = name
	p.Value = prim
	*c = tmp
	return nil
}
