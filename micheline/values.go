// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"fmt"
	"strings"
	"time"

	"blockwatch.cc/tzcodec/tezos"
)

// Embedded values come in two forms: the optimized binary form stored in a
// bytes (or int) literal and the readable form stored in a string literal.
// Constructors produce the optimized form, accessors accept both.

func NewAddress(a tezos.Address) *Prim {
	b, err := a.MarshalBinary()
	if err != nil {
		// blinded addresses have no binary form
		return NewString(a.String())
	}
	return NewBytes(b)
}

func NewKey(k tezos.Key) *Prim {
	b, err := k.MarshalBinary()
	if err != nil {
		return NewString(k.String())
	}
	return NewBytes(b)
}

func NewKeyHash(k tezos.KeyHash) *Prim {
	b, err := k.MarshalBinary()
	if err != nil {
		return NewString(k.String())
	}
	return NewBytes(b)
}

func NewSignature(s tezos.Signature) *Prim {
	b, err := s.MarshalBinary()
	if err != nil {
		return NewString(s.String())
	}
	return NewBytes(b)
}

func NewChainId(h tezos.ChainIdHash) *Prim {
	return NewBytes(h.Hash.Bytes())
}

func NewTimestamp(t time.Time) *Prim {
	return NewInt64(t.Unix())
}

func (p *Prim) embedded(what string) error {
	return fmt.Errorf("micheline: %s value expected, have %s", what, p.Type)
}

// Address returns the embedded address. A trailing entrypoint name is
// ignored in both forms.
func (p *Prim) Address() (tezos.Address, error) {
	switch p.Type {
	case PrimBytes:
		var a tezos.Address
		if err := a.DecodeBuffer(tezos.NewCursor(p.Bytes)); err != nil {
			return tezos.InvalidAddress, err
		}
		return a, nil
	case PrimString:
		s, _, _ := strings.Cut(p.String, "%")
		return tezos.ParseAddress(s)
	default:
		return tezos.InvalidAddress, p.embedded("address")
	}
}

// Entrypoint returns the entrypoint suffix of a contract value, if any.
func (p *Prim) Entrypoint() string {
	switch p.Type {
	case PrimBytes:
		if len(p.Bytes) > 22 {
			return string(p.Bytes[22:])
		}
	case PrimString:
		if _, ep, ok := strings.Cut(p.String, "%"); ok {
			return ep
		}
	}
	return ""
}

func (p *Prim) Key() (tezos.Key, error) {
	switch p.Type {
	case PrimBytes:
		var k tezos.Key
		if err := k.UnmarshalBinary(p.Bytes); err != nil {
			return tezos.InvalidKey, err
		}
		return k, nil
	case PrimString:
		return tezos.ParseKey(p.String)
	default:
		return tezos.InvalidKey, p.embedded("key")
	}
}

func (p *Prim) KeyHash() (tezos.KeyHash, error) {
	switch p.Type {
	case PrimBytes:
		var k tezos.KeyHash
		if err := k.UnmarshalBinary(p.Bytes); err != nil {
			return k, err
		}
		return k, nil
	case PrimString:
		return tezos.ParseKeyHash(p.String)
	default:
		return tezos.KeyHash{}, p.embedded("key_hash")
	}
}

// Signature returns the embedded signature. The binary form always yields a
// generic signature.
func (p *Prim) Signature() (tezos.Signature, error) {
	switch p.Type {
	case PrimBytes:
		var s tezos.Signature
		if err := s.UnmarshalBinary(p.Bytes); err != nil {
			return s, err
		}
		return s, nil
	case PrimString:
		return tezos.ParseSignature(p.String)
	default:
		return tezos.Signature{}, p.embedded("signature")
	}
}

func (p *Prim) ChainId() (tezos.ChainIdHash, error) {
	switch p.Type {
	case PrimBytes:
		var h tezos.ChainIdHash
		err := h.UnmarshalBinary(p.Bytes)
		return h, err
	case PrimString:
		return tezos.ParseChainIdHash(p.String)
	default:
		return tezos.ChainIdHash{}, p.embedded("chain_id")
	}
}

func (p *Prim) Timestamp() (time.Time, error) {
	switch p.Type {
	case PrimInt:
		sec, err := p.Int.Int64Exact()
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(sec, 0).UTC(), nil
	case PrimString:
		return time.Parse(time.RFC3339, p.String)
	default:
		return time.Time{}, p.embedded("timestamp")
	}
}

// Optimize returns a copy of value p where readable addresses, keys,
// signatures, chain ids and timestamps are replaced by their optimized
// form as directed by type typ.
func (p *Prim) Optimize(typ *Prim) (*Prim, error) {
	if p == nil || typ == nil {
		return nil, fmt.Errorf("micheline: nil value or type")
	}
	switch typ.OpCode {
	case T_ADDRESS, T_CONTRACT:
		if p.Type != PrimString {
			return p.Clone(), nil
		}
		a, err := p.Address()
		if err != nil {
			return nil, err
		}
		b, err := a.MarshalBinary()
		if err != nil {
			return nil, err
		}
		return NewBytes(append(b, p.Entrypoint()...)), nil

	case T_KEY:
		if p.Type != PrimString {
			return p.Clone(), nil
		}
		k, err := p.Key()
		if err != nil {
			return nil, err
		}
		return NewKey(k), nil

	case T_KEY_HASH:
		if p.Type != PrimString {
			return p.Clone(), nil
		}
		k, err := p.KeyHash()
		if err != nil {
			return nil, err
		}
		return NewKeyHash(k), nil

	case T_SIGNATURE:
		if p.Type != PrimString {
			return p.Clone(), nil
		}
		s, err := p.Signature()
		if err != nil {
			return nil, err
		}
		return NewSignature(s), nil

	case T_CHAIN_ID:
		if p.Type != PrimString {
			return p.Clone(), nil
		}
		h, err := p.ChainId()
		if err != nil {
			return nil, err
		}
		return NewChainId(h), nil

	case T_TIMESTAMP:
		if p.Type != PrimString {
			return p.Clone(), nil
		}
		t, err := p.Timestamp()
		if err != nil {
			return nil, fmt.Errorf("micheline: invalid timestamp %q: %w", p.String, err)
		}
		return NewTimestamp(t), nil

	case T_PAIR:
		if p.OpCode != D_PAIR && p.Type != PrimSequence {
			return p.Clone(), nil
		}
		return p.optimizePair(typ)

	case T_OPTION:
		if p.OpCode == D_SOME && len(p.Args) == 1 && len(typ.Args) == 1 {
			return p.optimizeArgs(typ.Args[0])
		}

	case T_OR:
		if len(p.Args) == 1 && len(typ.Args) == 2 {
			switch p.OpCode {
			case D_LEFT:
				return p.optimizeArgs(typ.Args[0])
			case D_RIGHT:
				return p.optimizeArgs(typ.Args[1])
			}
		}

	case T_LIST, T_SET:
		if p.Type == PrimSequence && len(typ.Args) == 1 {
			return p.optimizeArgs(typ.Args[0])
		}

	case T_MAP, T_BIG_MAP:
		if p.Type == PrimSequence && len(typ.Args) == 2 {
			out := p.Clone()
			for i, elt := range p.Args {
				if elt.OpCode != D_ELT || len(elt.Args) != 2 {
					return nil, fmt.Errorf("micheline: map element %d is %s, expected Elt", i, elt.OpCode)
				}
				k, err := elt.Args[0].Optimize(typ.Args[0])
				if err != nil {
					return nil, err
				}
				v, err := elt.Args[1].Optimize(typ.Args[1])
				if err != nil {
					return nil, err
				}
				out.Args[i].Args = []*Prim{k, v}
			}
			return out, nil
		}
	}
	return p.Clone(), nil
}

// optimizes all args against the same type
func (p *Prim) optimizeArgs(typ *Prim) (*Prim, error) {
	out := p.Clone()
	for i, v := range p.Args {
		o, err := v.Optimize(typ)
		if err != nil {
			return nil, err
		}
		out.Args[i] = o
	}
	return out, nil
}

// Right combs may be written flat (Pair a b c) or nested (Pair a (Pair b c))
// on either side. The shape of the value is preserved.
func (p *Prim) optimizePair(typ *Prim) (*Prim, error) {
	if len(typ.Args) < 2 || len(p.Args) < 2 {
		return nil, fmt.Errorf("micheline: pair value and type need at least 2 args")
	}
	left, err := p.Args[0].Optimize(typ.Args[0])
	if err != nil {
		return nil, err
	}
	rtyp := typ.Args[1]
	if len(typ.Args) > 2 {
		rtyp = &Prim{Type: primTypeFor(len(typ.Args)-1, false), OpCode: T_PAIR, Args: typ.Args[1:]}
	}
	out := &Prim{Type: p.Type, OpCode: p.OpCode, Anno: p.Anno}
	if len(p.Args) == 2 {
		right, err := p.Args[1].Optimize(rtyp)
		if err != nil {
			return nil, err
		}
		out.Args = []*Prim{left, right}
		return out, nil
	}
	rest := &Prim{Type: p.Type, OpCode: p.OpCode, Args: p.Args[1:]}
	if rest.Type.IsApplication() {
		rest.Type = rest.Normalize()
	}
	right, err := rest.optimizePair(rtyp)
	if err != nil {
		return nil, err
	}
	out.Args = append([]*Prim{left}, right.Args...)
	return out, nil
}
