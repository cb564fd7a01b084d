// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"blockwatch.cc/tzcodec/tezos"
)

type Script struct {
	Code    *Code `json:"code"`    // code section, i.e. parameter & storage types, code
	Storage *Prim `json:"storage"` // data section, i.e. initial contract storage
}

type Code struct {
	Param   *Prim   // call types
	Storage *Prim   // storage types
	Code    *Prim   // program code
	Views   []*Prim // on-chain views
}

// NewScript returns a script for the given parameter and storage types with
// empty code and storage set to init.
func NewScript(param, storage, init *Prim) *Script {
	return &Script{
		Code: &Code{
			Param:   NewCode(K_PARAMETER, param),
			Storage: NewCode(K_STORAGE, storage),
			Code:    NewCode(K_CODE, NewSeq()),
		},
		Storage: init,
	}
}

func (s *Script) IsValid() bool {
	return s != nil && s.Code != nil && s.Code.Param != nil && s.Code.Storage != nil &&
		s.Code.Code != nil && s.Storage != nil
}

// ParamType returns the parameter type tree.
func (s *Script) ParamType() *Prim {
	if s == nil || s.Code == nil || s.Code.Param == nil || len(s.Code.Param.Args) == 0 {
		return nil
	}
	return s.Code.Param.Args[0]
}

// StorageType returns the storage type tree.
func (s *Script) StorageType() *Prim {
	if s == nil || s.Code == nil || s.Code.Storage == nil || len(s.Code.Storage.Args) == 0 {
		return nil
	}
	return s.Code.Storage.Args[0]
}

func (c Code) root() *Prim {
	args := []*Prim{c.Param, c.Storage, c.Code}
	args = append(args, c.Views...)
	return NewSeq(args...)
}

func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.root())
}

func (c Code) MarshalBinary() ([]byte, error) {
	return c.root().MarshalBinary()
}

func (c *Code) UnmarshalJSON(data []byte) error {
	var prim Prim
	if err := json.Unmarshal(data, &prim); err != nil {
		return err
	}
	return c.unpack(&prim)
}

func (c *Code) UnmarshalBinary(data []byte) error {
	var prim Prim
	if err := prim.UnmarshalBinary(data); err != nil {
		return err
	}
	return c.unpack(&prim)
}

// unpack keyed program parts
func (c *Code) unpack(prim *Prim) error {
	if prim.Type != PrimSequence {
		return fmt.Errorf("micheline: unexpected program tag 0x%x", byte(prim.Type))
	}
	var x Code
	for _, v := range prim.Args {
		switch v.OpCode {
		case K_PARAMETER:
			x.Param = v
		case K_STORAGE:
			x.Storage = v
		case K_CODE:
			x.Code = v
		case K_VIEW:
			x.Views = append(x.Views, v)
		default:
			return fmt.Errorf("micheline: unexpected program key %s", v.OpCode)
		}
	}
	if x.Param == nil || x.Storage == nil || x.Code == nil {
		return fmt.Errorf("micheline: incomplete program")
	}
	*c = x
	return nil
}

func (s Script) MarshalBinary() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("micheline: incomplete script")
	}
	buf := bytes.NewBuffer(nil)

	// code and storage are length-prefixed
	pos := beginBlock(buf)
	if err := s.Code.root().EncodeBuffer(buf); err != nil {
		return nil, err
	}
	endBlock(buf, pos)

	pos = beginBlock(buf)
	if err := s.Storage.EncodeBuffer(buf); err != nil {
		return nil, err
	}
	endBlock(buf, pos)
	return buf.Bytes(), nil
}

func (s *Script) UnmarshalBinary(data []byte) error {
	c := tezos.NewCursor(data)
	if err := s.DecodeBuffer(c); err != nil {
		return err
	}
	return c.Done()
}

func (s *Script) DecodeBuffer(c *tezos.Cursor) error {
	tmp := *c
	section := func() (*Prim, error) {
		size, err := tmp.ReadUint32()
		if err != nil {
			return nil, err
		}
		sub, err := tmp.Sub(int(size))
		if err != nil {
			return nil, err
		}
		p := &Prim{}
		if err := p.DecodeBuffer(sub); err != nil {
			return nil, err
		}
		if err := sub.Done(); err != nil {
			return nil, err
		}
		return p, nil
	}

	root, err := section()
	if err != nil {
		return fmt.Errorf("micheline: script code: %w", err)
	}
	code := &Code{}
	if err := code.unpack(root); err != nil {
		return err
	}
	storage, err := section()
	if err != nil {
		return fmt.Errorf("micheline: script storage: %w", err)
	}
	s.Code = code
	s.Storage = storage
	*c = tmp
	return nil
}
