// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package store

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"blockwatch.cc/tzcodec/micheline"
	"blockwatch.cc/tzcodec/tezos"
)

func openTemp(t *testing.T, opts *Options) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exprs.db")
	s, err := Open(path, opts)
	require.NoError(t, err)
	return s, path
}

func TestPutGet(t *testing.T) {
	s, _ := openTemp(t, nil)
	defer s.Close()

	h, err := s.Put(micheline.NewInt64(1))
	require.NoError(t, err)
	assert.Equal(t, "expru2dKqDfZG8hu4wNGkiyunvq2hdSKuVYtcKta7BWP6Q18oNxKjS", h.String())

	p, err := s.Get(h)
	require.NoError(t, err)
	assert.Equal(t, "1", p.Text())

	buf, err := s.GetBinary(h)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01}, buf)

	ok, err := s.Has(h)
	require.NoError(t, err)
	assert.True(t, ok)

	// decoded values are private copies
	p.Int = micheline.NewInt64(2).Int
	p2, err := s.Get(h)
	require.NoError(t, err)
	assert.Equal(t, "1", p2.Text())

	missing := tezos.NewExprHash(make([]byte, 32))
	_, err = s.Get(missing)
	assert.ErrorIs(t, err, ErrNotFound)
	ok, err = s.Has(missing)
	require.NoError(t, err)
	assert.False(t, ok)

	st := s.Stats()
	assert.Equal(t, int64(1), st.Inserts)
	assert.Equal(t, int64(3), st.Hits)
	assert.Equal(t, int64(1), st.Misses)
	assert.Equal(t, 1, st.Size)
}

func TestPutInvalid(t *testing.T) {
	s, _ := openTemp(t, nil)
	defer s.Close()
	_, err := s.Put(&micheline.Prim{Type: micheline.PrimNullary, OpCode: 0xfe})
	assert.ErrorIs(t, err, micheline.ErrUnknownPrimitive)
	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestDelete(t *testing.T) {
	s, _ := openTemp(t, nil)
	defer s.Close()

	h, err := s.Put(micheline.NewString("abc"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(h))
	_, err = s.Get(h)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(h))
}

func TestPersistence(t *testing.T) {
	s, path := openTemp(t, &Options{CacheSize: 4})
	want := map[string]string{}
	for _, p := range []*micheline.Prim{
		micheline.NewUnit(),
		micheline.NewPair(micheline.NewInt64(1), micheline.NewInt64(2)),
		micheline.NewString("abc"),
		micheline.NewSeq(),
	} {
		h, err := s.Put(p)
		require.NoError(t, err)
		want[h.String()] = p.Text()
	}
	// idempotent
	_, err := s.Put(micheline.NewUnit())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, &Options{ReadOnly: true})
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, len(want), n)

	have := map[string]string{}
	require.NoError(t, s.ForEach(func(h tezos.ExprHash, p *micheline.Prim) error {
		have[h.String()] = p.Text()
		return nil
	}))
	assert.Equal(t, want, have)

	h := tezos.MustParseExprHash("expruaDPoTWXcTR6fiQPy4KZSW72U6Swc1rVmMiP1KdwmCceeEpVjd")
	p, err := s.Get(h)
	require.NoError(t, err)
	assert.Equal(t, "Unit", p.Text())

	_, err = s.Put(micheline.NewUnit())
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, s.Delete(h), ErrReadOnly)

	stop := errors.New("stop")
	var calls int
	err = s.ForEach(func(tezos.ExprHash, *micheline.Prim) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestConcurrentAccess(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _ := openTemp(t, &Options{CacheSize: 8})
	defer s.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				h, err := s.Put(micheline.NewInt64(int64(i*100 + j)))
				if err != nil {
					errs <- err
					return
				}
				if _, err := s.Get(h); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 160, n)
}

func TestDeleteWhileReading(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, _ := openTemp(t, nil)
	defer s.Close()

	hashes := make([]tezos.ExprHash, 50)
	for i := range hashes {
		h, err := s.Put(micheline.NewInt64(int64(i)))
		require.NoError(t, err)
		hashes[i] = h
	}
	// evict everything so readers refill the cache from disk
	s.cache.Purge()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, h := range hashes {
					_, _ = s.Get(h)
				}
			}
		}()
	}
	for _, h := range hashes {
		require.NoError(t, s.Delete(h))
	}
	close(stop)
	wg.Wait()

	for _, h := range hashes {
		ok, err := s.Has(h)
		require.NoError(t, err)
		assert.False(t, ok, h.String())
		_, err = s.Get(h)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 0, s.cache.Len())
}
