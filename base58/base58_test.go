// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package base58

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/rand"
	"testing"

	btcb58 "github.com/btcsuite/btcd/btcutil/base58"
	mrtron "github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexTests = []struct {
	in  string
	out string
}{
	{"", ""},
	{"61", "2g"},
	{"626262", "a3gV"},
	{"636363", "aPEr"},
	{"73696d706c792061206c6f6e6720737472696e67", "2cFupjhnEsSn59qHXstmK2ffpLv2"},
	{"00eb15231dfceb60925886b67d065299925915aeb172c06647", "1NS17iag9jJgTHD1VXjvLCEnZuQ3rJDE9L"},
	{"516b6fcd0f", "ABnLTmg"},
	{"bf4f89001e670274dd", "3SEo3LWLoPntC"},
	{"572e4794", "3EFU7m"},
	{"ecac89cad93923c02321", "EJDM8drfXA6uyA"},
	{"10c8511e", "Rt5zm"},
	{"00000000000000000000", "1111111111"},
}

func TestBase58Vectors(t *testing.T) {
	for _, test := range hexTests {
		b, _ := hex.DecodeString(test.in)
		if have := Encode(b); have != test.out {
			t.Errorf("encode %s: have=%s want=%s", test.in, have, test.out)
		}
		dec, err := Decode(test.out, nil)
		require.NoError(t, err)
		if !bytes.Equal(dec, b) {
			t.Errorf("decode %s: have=%x want=%s", test.out, dec, test.in)
		}
	}
}

func TestBase58InvalidCharacter(t *testing.T) {
	for _, s := range []string{"0", "O", "I", "l", "3mJr0", "abc+", "é"} {
		_, err := Decode(s, nil)
		if !errors.Is(err, ErrInvalidCharacter) {
			t.Errorf("decode %q: want invalid character, have %v", s, err)
		}
	}
	_, err := Decode("3mJr0", nil)
	assert.ErrorContains(t, err, "at position 4")
}

func TestBase58ReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 64)
	dec, err := Decode("1NS17iag9jJgTHD1VXjvLCEnZuQ3rJDE9L", buf)
	require.NoError(t, err)
	assert.Len(t, dec, 25)
	assert.Equal(t, &buf[:1][0], &dec[0])
}

// Differential test against btcutil and the mr-tron package Encode builds on.
func TestBase58Oracles(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		b := make([]byte, rnd.Intn(80))
		rnd.Read(b)
		for j := 0; j < rnd.Intn(4) && j < len(b); j++ {
			b[j] = 0
		}
		have := Encode(b)
		if want := mrtron.Encode(b); have != want {
			t.Fatalf("encode %x: have=%s mr-tron=%s", b, have, want)
		}
		if want := btcb58.Encode(b); have != want {
			t.Fatalf("encode %x: have=%s btcutil=%s", b, have, want)
		}
		dec, err := Decode(have, nil)
		require.NoError(t, err)
		if !bytes.Equal(dec, b) && !(len(dec) == 0 && len(b) == 0) {
			t.Fatalf("decode %s: have=%x want=%x", have, dec, b)
		}
	}
}
