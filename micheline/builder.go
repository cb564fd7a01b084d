// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"blockwatch.cc/tzcodec/bigint"
)

func NewCode(c OpCode, args ...*Prim) *Prim {
	return &Prim{Type: primTypeFor(len(args), false), OpCode: c, Args: args}
}

func NewCodeAnno(c OpCode, anno string, args ...*Prim) *Prim {
	if anno == "" {
		return NewCode(c, args...)
	}
	return &Prim{Type: primTypeFor(len(args), true), OpCode: c, Args: args, Anno: []string{anno}}
}

func NewPrim(c OpCode, anno ...string) *Prim {
	return &Prim{Type: primTypeFor(0, len(anno) > 0), OpCode: c, Anno: anno}
}

func NewSeq(args ...*Prim) *Prim {
	if args == nil {
		args = []*Prim{}
	}
	return &Prim{Type: PrimSequence, Args: args}
}

func NewInt64(i int64) *Prim {
	return &Prim{Type: PrimInt, Int: bigint.NewInt64(i)}
}

func NewBig(i bigint.Int) *Prim {
	return &Prim{Type: PrimInt, Int: i}
}

func NewBytes(b []byte) *Prim {
	return &Prim{Type: PrimBytes, Bytes: b}
}

func NewString(s string) *Prim {
	return &Prim{Type: PrimString, String: s}
}

func NewPairType(l, r *Prim, anno ...string) *Prim {
	return &Prim{Type: primTypeFor(2, len(anno) > 0), OpCode: T_PAIR, Args: []*Prim{l, r}, Anno: anno}
}

func NewPair(l, r *Prim, anno ...string) *Prim {
	return &Prim{Type: primTypeFor(2, len(anno) > 0), OpCode: D_PAIR, Args: []*Prim{l, r}, Anno: anno}
}

func NewOptType(typ *Prim, anno ...string) *Prim {
	return &Prim{Type: primTypeFor(1, len(anno) > 0), OpCode: T_OPTION, Args: []*Prim{typ}, Anno: anno}
}

func NewSome(val *Prim) *Prim {
	return NewCode(D_SOME, val)
}

func NewNone() *Prim {
	return NewPrim(D_NONE)
}

func NewUnit() *Prim {
	return NewPrim(D_UNIT)
}

func NewBool(b bool) *Prim {
	if b {
		return NewPrim(D_TRUE)
	}
	return NewPrim(D_FALSE)
}

func NewLeft(val *Prim) *Prim {
	return NewCode(D_LEFT, val)
}

func NewRight(val *Prim) *Prim {
	return NewCode(D_RIGHT, val)
}

func NewMapElem(k, v *Prim) *Prim {
	return NewCode(D_ELT, k, v)
}
