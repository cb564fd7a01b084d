// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		prim *Prim
		want string
	}{
		{NewUnit(), "Unit"},
		{NewInt64(-42), "-42"},
		{NewString(`a"b`), `"a\"b"`},
		{NewBytes([]byte{0xde, 0xad}), "0xdead"},
		{NewBytes(nil), "0x"},
		{NewSeq(), "{}"},
		{NewSeq(NewCode(I_DUP), NewCode(I_CAR)), "{ DUP ; CAR }"},
		{NewPairType(NewPrim(T_INT, "%x"), NewPrim(T_NAT)), "pair (int %x) nat"},
		{NewCodeAnno(T_OPTION, "%o", NewPrim(T_NAT)), "option %o nat"},
		{NewCodeAnno(T_OPTION, "", NewPrim(T_NAT)), "option nat"},
		{NewPair(NewInt64(1), NewPair(NewInt64(2), NewInt64(3))), "Pair 1 (Pair 2 3)"},
		{NewSome(NewNone()), "Some None"},
		{NewLeft(NewBool(true)), "Left True"},
		{NewRight(NewBool(false)), "Right False"},
		{NewCode(I_DIP, NewSeq(NewCode(I_DROP))), "DIP { DROP }"},
		{NewSeq(NewSeq()), "{ {} }"},
		{NewCode(T_LIST, NewOptType(NewPrim(T_ADDRESS))), "list (option address)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.prim.Text())
	}
	assert.Equal(t, "Pair 1 2", fmt.Sprintf("%#v", *NewPair(NewInt64(1), NewInt64(2))))

	var p *Prim
	assert.Equal(t, "<nil>", p.Text())
}

func TestCompact(t *testing.T) {
	seq := NewSeq(NewInt64(1), NewInt64(2), NewInt64(3))
	assert.Equal(t, "{ 1 ; 2 ; ... }", seq.Compact(2))
	assert.Equal(t, "{ 1 ; 2 ; 3 }", seq.Compact(3))

	pair := NewPair(NewInt64(1), NewInt64(2))
	assert.Equal(t, "Pair 1 ...", pair.Compact(1))
	assert.Equal(t, "Pair ...", pair.Compact(0))
	assert.Equal(t, "Pair ...", pair.Compact(-5))

	typ := NewPrim(T_INT, "%a", ":b")
	assert.Equal(t, "int %a ...", typ.Compact(1))
}
