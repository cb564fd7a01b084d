// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"blockwatch.cc/tzcodec/tezos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manager.tz as injected by the babylon migration, with a zero key_hash as
// storage
const managerScriptHex = "000000c602000000c105000764085e036c055f036d0000000325646f046c000000082564656661756c740501035d050202000000950200000012020000000d03210316051f02000000020317072e020000006a0743036a00000313020000001e020000000403190325072c020000000002000000090200000004034f0327020000000b051f02000000020321034c031e03540348020000001e020000000403190325072c020000000002000000090200000004034f0327034f0326034202000000080320053d036d0342" +
	"0000001a0a00000015000000000000000000000000000000000000000000"

func TestScriptBinary(t *testing.T) {
	buf := mustHex(managerScriptHex)
	var s Script
	require.NoError(t, s.UnmarshalBinary(buf))
	require.True(t, s.IsValid())

	assert.Equal(t, "or (lambda %do unit (list operation)) (unit %default)", s.ParamType().Text())
	assert.Equal(t, "key_hash", s.StorageType().Text())
	assert.Equal(t, "0x"+hex.EncodeToString(make([]byte, 21)), s.Storage.Text())
	assert.Len(t, s.Code.Code.Args, 1)
	assert.Equal(t, PrimSequence, s.Code.Code.Args[0].Type)

	out, err := s.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, managerScriptHex, hex.EncodeToString(out))

	// truncated sections and trailing bytes
	assert.ErrorIs(t, s.UnmarshalBinary(buf[:len(buf)-1]), tezos.ErrInvalidEncoding)
	assert.ErrorIs(t, s.UnmarshalBinary(append(buf, 0)), tezos.ErrInvalidEncoding)
	assert.ErrorIs(t, s.UnmarshalBinary(buf[:100]), tezos.ErrInvalidEncoding)
}

func TestScriptJSON(t *testing.T) {
	var s Script
	require.NoError(t, s.UnmarshalBinary(mustHex(managerScriptHex)))
	buf, err := json.Marshal(s)
	require.NoError(t, err)

	var s2 Script
	require.NoError(t, json.Unmarshal(buf, &s2))
	assert.True(t, s.Code.Param.Equal(s2.Code.Param))
	assert.True(t, s.Code.Code.Equal(s2.Code.Code))
	assert.True(t, s.Storage.Equal(s2.Storage))

	var c Code
	assert.Error(t, json.Unmarshal([]byte(`{"prim":"Unit"}`), &c))
	assert.Error(t, json.Unmarshal([]byte(`[{"prim":"Unit"}]`), &c))
	assert.Error(t, json.Unmarshal([]byte(`[{"prim":"parameter","args":[{"prim":"unit"}]}]`), &c))
}

func TestNewScript(t *testing.T) {
	s := NewScript(NewPrim(T_NAT, "%inc"), NewPrim(T_NAT), NewInt64(0))
	require.True(t, s.IsValid())
	buf, err := s.MarshalBinary()
	require.NoError(t, err)

	var s2 Script
	require.NoError(t, s2.UnmarshalBinary(buf))
	assert.True(t, s.StorageType().Equal(s2.StorageType()))

	eps, err := s2.Entrypoints()
	require.NoError(t, err)
	require.Len(t, eps, 1)
	assert.Contains(t, eps, "inc")

	_, err = Script{}.MarshalBinary()
	assert.Error(t, err)
}

func TestEntrypoints(t *testing.T) {
	var s Script
	require.NoError(t, s.UnmarshalBinary(mustHex(managerScriptHex)))
	eps, err := s.Entrypoints()
	require.NoError(t, err)
	require.Len(t, eps, 2)

	do := eps["do"]
	assert.Equal(t, 0, do.Id)
	assert.Equal(t, "L", do.Branch)
	assert.Equal(t, "lambda unit (list operation)", do.Type.Text())

	def := eps["default"]
	assert.Equal(t, 1, def.Id)
	assert.Equal(t, "R", def.Branch)
	assert.Equal(t, "unit", def.Type.Text())

	// stripping annots on listed types leaves the script alone
	assert.Equal(t, "or (lambda %do unit (list operation)) (unit %default)", s.ParamType().Text())

	list := eps.Sorted()
	assert.Equal(t, "do", list[0].Name)
	assert.Equal(t, "default", list[1].Name)

	_, ok := eps.FindBranch("R")
	assert.True(t, ok)
	_, ok = eps.FindId(7)
	assert.False(t, ok)

	assert.Equal(t, "L", s.SearchEntrypointName("do"))
	assert.Equal(t, "", s.SearchEntrypointName("nope"))
}

func TestEntrypointsUnnamed(t *testing.T) {
	param := NewCode(T_OR, NewPrim(T_INT), NewCode(T_OR, NewPrim(T_NAT, "%b"), NewPrim(T_UNIT)))
	eps, err := ListEntrypoints(param)
	require.NoError(t, err)
	require.Len(t, eps, 3)
	assert.Equal(t, "L", eps["__entry_00__"].Branch)
	assert.Equal(t, "RL", eps["b"].Branch)
	assert.Equal(t, "RR", eps["__entry_02__"].Branch)

	eps, err = ListEntrypoints(NewPrim(T_UNIT))
	require.NoError(t, err)
	assert.Contains(t, eps, "default")

	_, err = ListEntrypoints(NewCode(T_OR, NewPrim(T_INT, "%a"), NewPrim(T_NAT, "%a")))
	assert.Error(t, err)
	_, err = ListEntrypoints(NewCode(T_OR, NewPrim(T_INT)))
	assert.Error(t, err)
}

func TestParametersBinary(t *testing.T) {
	tests := []struct {
		name   string
		params Parameters
		hex    string
	}{
		{"unit", Parameters{Entrypoint: "default", Value: NewUnit()}, "00"},
		{"empty", Parameters{Value: NewUnit()}, "00"},
		{"default", Parameters{Entrypoint: "default", Value: NewInt64(5)}, "ff00000000020005"},
		{"do", Parameters{Entrypoint: "do", Value: NewSeq(NewCode(I_DROP), NewCode(I_NIL, NewPrim(T_OPERATION)))}, "ff020000000b02000000060320053d036d"},
		{"deposit", Parameters{Entrypoint: "deposit", Value: NewUnit()}, "ff0500000002030b"},
		{"named", Parameters{Entrypoint: "transfer", Value: NewUnit()}, "ffff087472616e7366657200000002030b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := tt.params.MarshalBinary()
			require.NoError(t, err)
			assert.Equal(t, tt.hex, hex.EncodeToString(buf))

			var p Parameters
			require.NoError(t, p.UnmarshalBinary(buf))
			want := tt.params.Entrypoint
			if want == "" {
				want = "default"
			}
			assert.Equal(t, want, p.Entrypoint)
			assert.True(t, tt.params.Value.Equal(p.Value))
		})
	}
}

func TestParametersBinaryErrors(t *testing.T) {
	long := Parameters{Entrypoint: "a_very_long_entrypoint_name_here", Value: NewUnit()}
	_, err := long.MarshalBinary()
	assert.Error(t, err)

	var p Parameters
	assert.ErrorIs(t, p.UnmarshalBinary(nil), tezos.ErrInvalidEncoding)
	assert.ErrorIs(t, p.UnmarshalBinary(mustHex("ff")), tezos.ErrInvalidEncoding)
	assert.ErrorIs(t, p.UnmarshalBinary(mustHex("ff06")), tezos.ErrUnknownTag)
	assert.ErrorIs(t, p.UnmarshalBinary(mustHex("ffff2061")), tezos.ErrInvalidEncoding)
	assert.ErrorIs(t, p.UnmarshalBinary(mustHex("ff0000000003030b")), tezos.ErrInvalidEncoding)
	// value shorter than its declared block
	assert.ErrorIs(t, p.UnmarshalBinary(mustHex("ff0000000003030b00")), tezos.ErrInvalidEncoding)
	assert.ErrorIs(t, p.UnmarshalBinary(mustHex("0000")), tezos.ErrInvalidEncoding)
}

func TestParametersJSON(t *testing.T) {
	var p Parameters
	require.NoError(t, json.Unmarshal([]byte(`{"entrypoint":"do","value":[]}`), &p))
	assert.Equal(t, "do", p.Entrypoint)
	assert.Equal(t, PrimSequence, p.Value.Type)

	require.NoError(t, json.Unmarshal([]byte(`{"prim":"Unit"}`), &p))
	assert.Equal(t, "default", p.Entrypoint)
	assert.Equal(t, D_UNIT, p.Value.OpCode)

	require.NoError(t, json.Unmarshal([]byte(`[{"int":"1"}]`), &p))
	assert.Equal(t, "default", p.Entrypoint)
	assert.Len(t, p.Value.Args, 1)

	buf, err := json.Marshal(Parameters{Entrypoint: "do", Value: NewInt64(1)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"entrypoint":"do","value":{"int":"1"}}`, string(buf))
}

func TestParametersMapEntrypoint(t *testing.T) {
	var s Script
	require.NoError(t, s.UnmarshalBinary(mustHex(managerScriptHex)))
	lambda := NewSeq(NewCode(I_DROP))

	ep, prim, err := Parameters{Entrypoint: "do", Value: lambda}.MapEntrypoint(&s)
	require.NoError(t, err)
	assert.Equal(t, "do", ep.Name)
	assert.True(t, lambda.Equal(prim))

	ep, prim, err = Parameters{Entrypoint: "default", Value: NewUnit()}.MapEntrypoint(&s)
	require.NoError(t, err)
	assert.Equal(t, "default", ep.Name)
	assert.Equal(t, D_UNIT, prim.OpCode)

	ep, prim, err = Parameters{Entrypoint: "root", Value: NewLeft(lambda)}.MapEntrypoint(&s)
	require.NoError(t, err)
	assert.Equal(t, "do", ep.Name)
	assert.True(t, lambda.Equal(prim))

	_, _, err = Parameters{Entrypoint: "missing", Value: NewUnit()}.MapEntrypoint(&s)
	assert.Error(t, err)
}
