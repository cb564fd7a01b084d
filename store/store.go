// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

// Package store keeps Micheline expressions in a bolt database indexed by
// their expression hash.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash"
	lru "github.com/hashicorp/golang-lru/v2"
	bolt "go.etcd.io/bbolt"

	"blockwatch.cc/tzcodec/micheline"
	"blockwatch.cc/tzcodec/tezos"
)

var (
	ErrNotFound = errors.New("store: expression not found")
	ErrReadOnly = errors.New("store: read-only")
)

var (
	exprBucket = []byte("exprs")

	DefaultCacheSize = 16384 // entries
)

type Options struct {
	// number of decoded expressions kept in memory, 0 selects the default
	CacheSize int
	ReadOnly  bool
	// skip fsync (DANGEROUS on crashes, but better performance for bulk load)
	NoSync bool
	// open timeout when file is locked
	Timeout time.Duration
}

func (o *Options) boltOptions() *bolt.Options {
	opts := &bolt.Options{
		Timeout:      time.Second,
		FreelistType: bolt.FreelistMapType,
	}
	if o == nil {
		return opts
	}
	if o.Timeout > 0 {
		opts.Timeout = o.Timeout
	}
	opts.ReadOnly = o.ReadOnly
	opts.NoSync = o.NoSync
	return opts
}

// cache entries keep the full hash since keys are only 64 bit
type entry struct {
	hash []byte
	buf  []byte
}

type Store struct {
	db       *bolt.DB
	cache    *lru.TwoQueueCache[uint64, entry] // key := xxhash64(expr hash)
	mu       sync.RWMutex                      // cache fills (shared) vs deletes (exclusive)
	readOnly bool
	stats    Stats
}

// Open opens or creates the database at path.
func Open(path string, opts *Options) (*Store, error) {
	bopts := opts.boltOptions()
	log.Debugf("opening %s (readonly=%t nosync=%t)", path, bopts.ReadOnly, bopts.NoSync)
	db, err := bolt.Open(path, 0o600, bopts)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if !bopts.ReadOnly {
		err = db.Update(func(tx *bolt.Tx) error {
			_, err := tx.CreateBucketIfNotExists(exprBucket)
			return err
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("store: init %s: %w", path, err)
		}
	}
	sz := DefaultCacheSize
	if opts != nil && opts.CacheSize > 0 {
		sz = opts.CacheSize
	}
	s := &Store{
		db:       db,
		readOnly: bopts.ReadOnly,
	}
	s.cache, err = lru.New2Q[uint64, entry](sz)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	s.cache.Purge()
	return s.db.Close()
}

func (s *Store) Path() string {
	return s.db.Path()
}

func cacheKey(h tezos.ExprHash) uint64 {
	return xxhash.Sum64(h.Bytes())
}

func (s *Store) Stats() Stats {
	st := s.stats.Get()
	st.Size = s.cache.Len()
	return st
}

// Put stores the binary encoding of p under its expression hash.
func (s *Store) Put(p *micheline.Prim) (tezos.ExprHash, error) {
	if s.readOnly {
		return tezos.ExprHash{}, ErrReadOnly
	}
	buf, err := p.MarshalBinary()
	if err != nil {
		return tezos.ExprHash{}, err
	}
	h, err := p.Hash()
	if err != nil {
		return tezos.ExprHash{}, err
	}
	key := h.Bytes()
	s.mu.RLock()
	defer s.mu.RUnlock()
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(exprBucket).Put(key, buf)
	})
	if err != nil {
		return tezos.ExprHash{}, fmt.Errorf("store: put %s: %w", h, err)
	}
	s.cache.Add(cacheKey(h), entry{hash: bytes.Clone(key), buf: buf})
	s.stats.CountInserts(1)
	log.Tracef("put %s (%d bytes)", h, len(buf))
	return h, nil
}

func (s *Store) load(h tezos.ExprHash) ([]byte, error) {
	key := cacheKey(h)
	if e, ok := s.cache.Get(key); ok && bytes.Equal(e.hash, h.Bytes()) {
		s.stats.CountHits(1)
		return e.buf, nil
	}
	s.stats.CountMisses(1)

	// a concurrent delete must not see its entry cached again
	s.mu.RLock()
	defer s.mu.RUnlock()
	var buf []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(exprBucket)
		if b == nil {
			return nil
		}
		// bolt memory is only valid inside the transaction
		if v := b.Get(h.Bytes()); v != nil {
			buf = bytes.Clone(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, h)
	}
	s.cache.Add(key, entry{hash: bytes.Clone(h.Bytes()), buf: buf})
	return buf, nil
}

// Get returns a freshly decoded copy of the expression stored under h.
func (s *Store) Get(h tezos.ExprHash) (*micheline.Prim, error) {
	buf, err := s.load(h)
	if err != nil {
		return nil, err
	}
	p := &micheline.Prim{}
	if err := p.UnmarshalBinary(buf); err != nil {
		return nil, fmt.Errorf("store: corrupt entry %s: %w", h, err)
	}
	return p, nil
}

// GetBinary returns the stored binary encoding.
func (s *Store) GetBinary(h tezos.ExprHash) ([]byte, error) {
	buf, err := s.load(h)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(buf), nil
}

func (s *Store) Has(h tezos.ExprHash) (bool, error) {
	if e, ok := s.cache.Peek(cacheKey(h)); ok && bytes.Equal(e.hash, h.Bytes()) {
		return true, nil
	}
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(exprBucket); b != nil {
			ok = b.Get(h.Bytes()) != nil
		}
		return nil
	})
	return ok, err
}

// Delete removes h. Deleting a missing hash is not an error.
func (s *Store) Delete(h tezos.ExprHash) error {
	if s.readOnly {
		return ErrReadOnly
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(exprBucket).Delete(h.Bytes())
	})
	s.cache.Remove(cacheKey(h))
	if err != nil {
		return fmt.Errorf("store: delete %s: %w", h, err)
	}
	s.stats.CountDeletes(1)
	return nil
}

// Len returns the number of stored expressions.
func (s *Store) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(exprBucket); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n, err
}

// ForEach calls fn for every stored expression in hash order. Iteration
// stops at the first error, which is returned.
func (s *Store) ForEach(fn func(tezos.ExprHash, *micheline.Prim) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(exprBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var h tezos.ExprHash
			if err := h.UnmarshalBinary(k); err != nil {
				return fmt.Errorf("store: corrupt key %x: %w", k, err)
			}
			p := &micheline.Prim{}
			if err := p.UnmarshalBinary(v); err != nil {
				return fmt.Errorf("store: corrupt entry %s: %w", h, err)
			}
			return fn(h, p)
		})
	})
}
