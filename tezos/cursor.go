// Copyright (c) 2020-2024 Blockwatch Data Inc.
// Author: alex@blockwatch.cc

package tezos

import (
	"encoding/binary"
	"fmt"
)

// CursorError reports a read past the end of the available data.
type CursorError struct {
	Offset int // absolute offset of the failed read
	Need   int
	Have   int
}

func (e *CursorError) Error() string {
	return fmt.Sprintf("tezos: short buffer at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

func (e *CursorError) Unwrap() error {
	return ErrInvalidEncoding
}

// Cursor is a read position over a byte slice shared by consuming decoders.
// Values that are embedded without a length prefix are read from the cursor
// and advance it by exactly their encoded size. A failed read does not
// advance the cursor.
type Cursor struct {
	buf  []byte
	pos  int
	base int // absolute offset of buf[0] for nested cursors
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.buf) - c.pos
}

// Pos returns the absolute offset of the next unread byte.
func (c *Cursor) Pos() int {
	return c.base + c.pos
}

// Bytes returns the unread bytes without advancing.
func (c *Cursor) Bytes() []byte {
	return c.buf[c.pos:]
}

func (c *Cursor) short(n int) error {
	return &CursorError{Offset: c.Pos(), Need: n, Have: c.Len()}
}

func (c *Cursor) Peek() (byte, error) {
	if c.Len() < 1 {
		return 0, c.short(1)
	}
	return c.buf[c.pos], nil
}

func (c *Cursor) ReadByte() (byte, error) {
	if c.Len() < 1 {
		return 0, c.short(1)
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// Read returns the next n bytes. The result aliases the underlying buffer.
func (c *Cursor) Read(n int) ([]byte, error) {
	if n < 0 || c.Len() < n {
		return nil, c.short(n)
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadUint32 reads a big-endian 32 bit unsigned integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Sub returns a cursor limited to the next n bytes and advances c past them.
// Reads beyond the sub-cursor's end fail even when the parent has more data.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	start := c.Pos()
	b, err := c.Read(n)
	if err != nil {
		return nil, err
	}
	return &Cursor{buf: b, base: start}, nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.Read(n)
	return err
}

// Done fails when unread bytes remain.
func (c *Cursor) Done() error {
	if n := c.Len(); n > 0 {
		return fmt.Errorf("%w: %d trailing bytes at offset %d", ErrInvalidEncoding, n, c.Pos())
	}
	return nil
}
