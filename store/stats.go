// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package store

import (
	"sync/atomic"
)

type Stats struct {
	Size    int   `json:"size"`
	Inserts int64 `json:"inserts"`
	Deletes int64 `json:"deletes"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

func (s *Stats) Get() Stats {
	return Stats{
		Size:    s.Size,
		Inserts: atomic.LoadInt64(&s.Inserts),
		Deletes: atomic.LoadInt64(&s.Deletes),
		Hits:    atomic.LoadInt64(&s.Hits),
		Misses:  atomic.LoadInt64(&s.Misses),
	}
}

func (s *Stats) CountInserts(n int64) {
	atomic.AddInt64(&s.Inserts, n)
}

func (s *Stats) CountDeletes(n int64) {
	atomic.AddInt64(&s.Deletes, n)
}

func (s *Stats) CountHits(n int64) {
	atomic.AddInt64(&s.Hits, n)
}

func (s *Stats) CountMisses(n int64) {
	atomic.AddInt64(&s.Misses, n)
}
