// SPDX-FileCopyrightText: © 2021 The tagml authors <https://github.com/golangee/tagml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package token

import (
	"fmt"
	"io"
	"unicode/utf8"
)

type runeWithPos struct {
	r   rune
	pos Pos
}

// Cursor is an index-addressed view over decoded input runes.
// It supports reading, peeking and stepping back by single runes in constant time.
type Cursor struct {
	src    string
	buf    []runeWithPos
	bufPos int
	// end is the position right after the last rune.
	end Pos
}

// NewCursor decodes src and returns a cursor positioned before the first rune.
// Invalid UTF-8 sequences are rejected with a *PosError.
func NewCursor(filename, src string) (*Cursor, error) {
	c := &Cursor{
		src: src,
		buf: make([]runeWithPos, 0, len(src)),
	}

	pos := Pos{File: filename, Line: 1, Col: 1}

	for offset := 0; offset < len(src); {
		r, size := utf8.DecodeRuneInString(src[offset:])
		if r == utf8.RuneError && size == 1 {
			return nil, NewPosError(NewNode(pos, pos), "invalid unicode sequence").
				SetSource(src).
				SetHint(fmt.Sprintf("byte 0x%02x at offset %d is not valid UTF-8", src[offset], offset))
		}

		c.buf = append(c.buf, runeWithPos{r: r, pos: pos})

		offset += size
		pos.Offset = offset
		pos.Col++

		if r == '\n' {
			pos.Line++
			pos.Col = 1
		}
	}

	c.end = pos

	return c, nil
}

// ReadCursor reads r completely and creates a cursor for it.
func ReadCursor(filename string, r io.Reader) (*Cursor, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read %q: %w", filename, err)
	}

	return NewCursor(filename, string(buf))
}

// Next returns the next rune and advances. At the end of the input it returns false.
func (c *Cursor) Next() (rune, bool) {
	if c.bufPos >= len(c.buf) {
		return utf8.RuneError, false
	}

	r := c.buf[c.bufPos].r
	c.bufPos++

	return r, true
}

// Peek returns the next rune without advancing.
func (c *Cursor) Peek() (rune, bool) {
	if c.bufPos >= len(c.buf) {
		return utf8.RuneError, false
	}

	return c.buf[c.bufPos].r, true
}

// Prev moves back by exactly one rune. panics if out of balance with Next.
func (c *Cursor) Prev() {
	if c.bufPos == 0 {
		panic("token: Prev called before Next")
	}

	c.bufPos--
}

// Pos returns the position of the rune that Next would return.
func (c *Cursor) Pos() Pos {
	if c.bufPos < len(c.buf) {
		return c.buf[c.bufPos].pos
	}

	return c.end
}

// LastPos returns the position of the rune that was read last.
// Before the first read it equals Pos.
func (c *Cursor) LastPos() Pos {
	if c.bufPos == 0 {
		return c.Pos()
	}

	return c.buf[c.bufPos-1].pos
}

// Source returns the complete input of the cursor.
func (c *Cursor) Source() string {
	return c.src
}

// File returns the file name the cursor was created with.
func (c *Cursor) File() string {
	return c.end.File
}
