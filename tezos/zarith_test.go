// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"encoding/hex"
	"errors"
	"math/rand"
	"testing"

	"blockwatch.cc/tzcodec/bigint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var zarithTests = []struct {
	val string
	hex string
}{
	{"0", "00"},
	{"1", "01"},
	{"-1", "41"},
	{"63", "3f"},
	{"-63", "7f"},
	{"64", "8001"},
	{"-64", "c001"},
	{"100", "a401"},
	{"-128", "c002"},
	{"1000", "a80f"},
	{"8191", "bf7f"},
	{"8192", "808001"},
	{"-9223372036854775808", "c0808080808080808002"},
	{"340282366920938463463374607431768211456", "80808080808080808080808080808080808008"},
}

func TestZarithVectors(t *testing.T) {
	for _, tt := range zarithTests {
		z := MustParseZ(tt.val)
		buf, err := z.MarshalBinary()
		require.NoError(t, err)
		if have := hex.EncodeToString(buf); have != tt.hex {
			t.Errorf("encode %s: have=%s want=%s", tt.val, have, tt.hex)
		}
		var z2 Z
		require.NoError(t, z2.UnmarshalBinary(buf))
		if !z2.Equal(z) {
			t.Errorf("decode %s: have=%s want=%s", tt.hex, z2, tt.val)
		}
	}
}

func TestZarithCanonical(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"8000", "00"},
		{"c000", "00"},
		{"40", "00"},
		{"818000", "01"},
		{"c1808000", "41"},
		{"a48100", "a401"},
	}
	for _, tt := range tests {
		buf, _ := hex.DecodeString(tt.in)
		var z Z
		require.NoError(t, z.UnmarshalBinary(buf), tt.in)
		have, err := z.MarshalBinary()
		require.NoError(t, err)
		if hex.EncodeToString(have) != tt.out {
			t.Errorf("canonical %s: have=%x want=%s", tt.in, have, tt.out)
		}
	}
}

func TestZarithRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		buf := make([]byte, rnd.Intn(40))
		rnd.Read(buf)
		x := bigint.FromBytes(buf)
		b, err := NewZ(x).MarshalBinary()
		require.NoError(t, err)
		var z Z
		require.NoError(t, z.UnmarshalBinary(b))
		if !z.Int.Equal(x) {
			t.Fatalf("round trip %s: have=%s", x, z)
		}
	}
}

func TestZarithErrors(t *testing.T) {
	var z Z
	for _, s := range []string{"", "80", "c0ff", "ffffff"} {
		buf, _ := hex.DecodeString(s)
		err := z.UnmarshalBinary(buf)
		if !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("decode %q: want invalid encoding, have %v", s, err)
		}
	}
	// trailing bytes
	assert.ErrorIs(t, z.UnmarshalBinary([]byte{0x01, 0x02}), ErrInvalidEncoding)

	// consuming decode leaves the rest alone
	c := NewCursor([]byte{0xa4, 0x01, 0x41, 0xff})
	require.NoError(t, z.DecodeBuffer(c))
	assert.Equal(t, "100", z.String())
	require.NoError(t, z.DecodeBuffer(c))
	assert.Equal(t, "-1", z.String())
	assert.Equal(t, 3, c.Pos())
	err := z.DecodeBuffer(c)
	var cerr *CursorError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 4, cerr.Offset)
	assert.Equal(t, 3, c.Pos())
	assert.Equal(t, "-1", z.String())
}

func TestNaturalTruncatedKeepsCursor(t *testing.T) {
	c := NewCursor([]byte{0x05, 0x80, 0x81})
	var n N
	require.NoError(t, n.DecodeBuffer(c))
	assert.Equal(t, N(5), n)
	assert.ErrorIs(t, n.DecodeBuffer(c), ErrInvalidEncoding)
	assert.Equal(t, 1, c.Pos())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, N(5), n)

	// overflow is rejected without consuming
	buf, _ := hex.DecodeString("ffffffffffffffffff02")
	c = NewCursor(buf)
	assert.ErrorIs(t, n.DecodeBuffer(c), ErrInvalidEncoding)
	assert.Equal(t, 0, c.Pos())
}

func TestNaturalVectors(t *testing.T) {
	tests := []struct {
		val uint64
		hex string
	}{
		{0, "00"},
		{1, "01"},
		{127, "7f"},
		{128, "8001"},
		{300, "ac02"},
		{16384, "808001"},
		{1<<64 - 1, "ffffffffffffffffff01"},
	}
	for _, tt := range tests {
		buf, err := N(tt.val).MarshalBinary()
		require.NoError(t, err)
		if have := hex.EncodeToString(buf); have != tt.hex {
			t.Errorf("encode %d: have=%s want=%s", tt.val, have, tt.hex)
		}
		var n N
		require.NoError(t, n.UnmarshalBinary(buf))
		assert.Equal(t, N(tt.val), n)
	}

	var n N
	buf, _ := hex.DecodeString("ffffffffffffffffff02")
	assert.ErrorIs(t, n.UnmarshalBinary(buf), ErrInvalidEncoding)
	assert.ErrorIs(t, n.UnmarshalBinary([]byte{0x80}), ErrInvalidEncoding)
	require.NoError(t, n.UnmarshalBinary([]byte{0x85, 0x80, 0x00}))
	assert.Equal(t, N(5), n)

	p, err := ParseN("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, N(1<<64-1), p)
	_, err = ParseN("-1")
	assert.ErrorIs(t, err, bigint.ErrOverflow)
}
