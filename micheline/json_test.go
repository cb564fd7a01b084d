// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package micheline

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	tests := []struct {
		json string
		hex  string
	}{
		{`{"prim":"Unit"}`, "030b"},
		{`[]`, "0200000000"},
		{`{"int":"-128"}`, "00c002"},
		{`{"int":"340282366920938463463374607431768211456"}`, "0080808080808080808080808080808080808008"},
		{`{"string":"abc"}`, "0100000003616263"},
		{`{"bytes":"dead"}`, "0a00000002dead"},
		{`{"prim":"Pair","args":[{"int":"1"},{"int":"2"}]}`, "070700010002"},
		{`{"prim":"pair","args":[{"prim":"int"},{"prim":"nat"}],"annots":["%x"]}`, "0865035b0362000000022578"},
		{`{"prim":"int","annots":["%a",":b"]}`, "045b000000052561203a62"},
		{`{"prim":"Pair","args":[{"int":"1"},{"int":"2"},{"int":"3"}]}`, "09070000000600010002000300000000"},
		{`[{"prim":"DUP"},[]]`, "020000000703210200000000"},
	}
	for _, tt := range tests {
		var p Prim
		require.NoError(t, json.Unmarshal([]byte(tt.json), &p), tt.json)
		bin, err := p.MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, tt.hex, hex.EncodeToString(bin), tt.json)

		var q Prim
		require.NoError(t, q.UnmarshalBinary(bin))
		out, err := json.Marshal(q)
		require.NoError(t, err)
		assert.JSONEq(t, tt.json, string(out))
	}
}

func TestJSONTypeFromShape(t *testing.T) {
	var p Prim
	require.NoError(t, json.Unmarshal([]byte(`{"prim":"int","annots":["%a"]}`), &p))
	assert.Equal(t, PrimNullaryAnno, p.Type)
	require.NoError(t, json.Unmarshal([]byte(`{"prim":"option","args":[{"prim":"nat"}]}`), &p))
	assert.Equal(t, PrimUnary, p.Type)
	require.NoError(t, json.Unmarshal([]byte(`{"prim":"Unit","args":[]}`), &p))
	assert.Equal(t, PrimNullary, p.Type)
}

func TestJSONNumericInt(t *testing.T) {
	var p Prim
	require.NoError(t, json.Unmarshal([]byte(`{"int":123456789012345678901234567890}`), &p))
	assert.Equal(t, "123456789012345678901234567890", p.Int.String())
}

func TestJSONErrors(t *testing.T) {
	for _, s := range []string{
		`{"prim":"FOO"}`,
		`{"int":"1.5"}`,
		`{"int":"x"}`,
		`{"bytes":"zz"}`,
		`{"string":1}`,
		`{"prim":"Unit","int":"1"}`,
		`{}`,
		`{"foo":"bar"}`,
		`{"int":"1","args":[]}`,
		`{"prim":"Pair","args":{}}`,
		`{"prim":"Pair","annots":[1]}`,
		`"Unit"`,
		`[1]`,
	} {
		var p Prim
		assert.Error(t, json.Unmarshal([]byte(s), &p), s)
	}

	_, err := json.Marshal(Prim{Type: PrimNullary, OpCode: 0xfe})
	assert.Error(t, err)
}

func TestJSONEmptySequence(t *testing.T) {
	buf, err := json.Marshal(Prim{Type: PrimSequence})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(buf))
}

func TestValidateJSON(t *testing.T) {
	ctx := context.Background()
	valid := []string{
		`{"prim":"Unit"}`,
		`[]`,
		`[{"int":"-1"},{"string":"x"},{"bytes":"00ff"}]`,
		`{"prim":"pair","args":[{"prim":"int","annots":["%a"]},{"prim":"nat"}],"annots":[":t"]}`,
	}
	for _, s := range valid {
		assert.NoError(t, ValidateJSON(ctx, []byte(s)), s)
	}
	invalid := []string{
		`{"int":1}`,
		`{"int":"1a"}`,
		`{"bytes":"abc"}`,
		`{"prim":"Unit","extra":true}`,
		`{"prim":"pair","args":[{"foo":1}]}`,
		`{"prim":"pair","annots":["x"]}`,
		`"Unit"`,
		`42`,
	}
	for _, s := range invalid {
		err := ValidateJSON(ctx, []byte(s))
		assert.ErrorIs(t, err, ErrSchema, s)
	}

	p, err := ParseJSON(ctx, []byte(`{"prim":"Some","args":[{"int":"7"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Some 7", p.Text())

	_, err = ParseJSON(ctx, []byte(`{"int":7}`))
	assert.ErrorIs(t, err, ErrSchema)

	assert.True(t, json.Valid(SchemaJSON()))
}
