// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"blockwatch.cc/tzcodec/bigint"
)

func (p Prim) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case PrimSequence:
		if p.Args == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(p.Args)
	case PrimInt:
		return json.Marshal(map[string]string{"int": p.Int.String()})
	case PrimString:
		return json.Marshal(map[string]string{"string": p.String})
	case PrimBytes:
		return json.Marshal(map[string]string{"bytes": hex.EncodeToString(p.Bytes)})
	}
	if !p.Type.IsApplication() {
		return nil, fmt.Errorf("%w 0x%02x", ErrUnknownPrimType, byte(p.Type))
	}
	if !p.OpCode.IsValid() {
		return nil, fmt.Errorf("%w 0x%02x", ErrUnknownPrimitive, byte(p.OpCode))
	}
	m := make(map[string]interface{}, 3)
	m["prim"] = p.OpCode.String()
	if len(p.Anno) > 0 {
		m["annots"] = p.Anno
	}
	if len(p.Args) > 0 {
		args := make([]json.RawMessage, 0, len(p.Args))
		for _, v := range p.Args {
			if v == nil {
				return nil, fmt.Errorf("micheline: nil argument to %s", p.OpCode)
			}
			arg, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		m["args"] = args
	}
	return json.Marshal(m)
}

func (p *Prim) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var val interface{}
	if err := dec.Decode(&val); err != nil {
		return err
	}
	var x Prim
	if err := x.Unpack(val); err != nil {
		return err
	}
	*p = x
	return nil
}

// Unpack builds a node from a generic JSON value as produced by
// encoding/json.
func (p *Prim) Unpack(val interface{}) error {
	switch t := val.(type) {
	case map[string]interface{}:
		return p.UnpackPrimitive(t)
	case []interface{}:
		return p.UnpackSequence(t)
	default:
		return fmt.Errorf("micheline: unexpected json type %T", val)
	}
}

func (p *Prim) UnpackSequence(val []interface{}) error {
	p.Type = PrimSequence
	p.Args = make([]*Prim, 0, len(val))
	for _, v := range val {
		prim := &Prim{}
		if err := prim.Unpack(v); err != nil {
			return err
		}
		p.Args = append(p.Args, prim)
	}
	return nil
}

func jsonString(key string, v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case json.Number:
		if key == "int" {
			return s.String(), nil
		}
	}
	return "", fmt.Errorf("micheline: invalid %s value type %T %v", key, v, v)
}

func (p *Prim) UnpackPrimitive(val map[string]interface{}) error {
	var set int
	for n, v := range val {
		switch n {
		case "prim":
			str, err := jsonString(n, v)
			if err != nil {
				return err
			}
			oc, err := ParseOpCode(str)
			if err != nil {
				return err
			}
			p.OpCode = oc
			p.Type = PrimNullary
			set++
		case "int":
			str, err := jsonString(n, v)
			if err != nil {
				return err
			}
			i, err := bigint.ParseDecimal(str)
			if err != nil {
				return fmt.Errorf("micheline: invalid int %q: %w", str, err)
			}
			p.Int = i
			p.Type = PrimInt
			set++
		case "string":
			str, err := jsonString(n, v)
			if err != nil {
				return err
			}
			p.String = str
			p.Type = PrimString
			set++
		case "bytes":
			str, err := jsonString(n, v)
			if err != nil {
				return err
			}
			b, err := hex.DecodeString(str)
			if err != nil {
				return fmt.Errorf("micheline: invalid bytes: %w", err)
			}
			p.Bytes = b
			p.Type = PrimBytes
			set++
		case "annots":
			slist, ok := v.([]interface{})
			if !ok {
				return fmt.Errorf("micheline: invalid annots value type %T %v", v, v)
			}
			for _, s := range slist {
				str, ok := s.(string)
				if !ok {
					return fmt.Errorf("micheline: invalid annot value type %T %v", s, s)
				}
				p.Anno = append(p.Anno, str)
			}
		case "args":
		default:
			return fmt.Errorf("micheline: unexpected json key %q", n)
		}
	}
	if set != 1 {
		return fmt.Errorf("micheline: json node must have exactly one of prim, int, string or bytes")
	}
	if p.Type != PrimNullary {
		if _, ok := val["args"]; ok {
			return fmt.Errorf("micheline: args on %s literal", p.Type)
		}
		if _, ok := val["annots"]; ok {
			return fmt.Errorf("micheline: annots on %s literal", p.Type)
		}
		return nil
	}

	// process args separately and detect type based on number of args
	if a, ok := val["args"]; ok {
		args, ok := a.([]interface{})
		if !ok {
			return fmt.Errorf("micheline: invalid args value type %T %v", a, a)
		}
		// every arg is handled as embedded primitive
		for _, v := range args {
			prim := &Prim{}
			if err := prim.Unpack(v); err != nil {
				return err
			}
			p.Args = append(p.Args, prim)
		}
	}
	p.Type = primTypeFor(len(p.Args), len(p.Anno) > 0)
	return nil
}
