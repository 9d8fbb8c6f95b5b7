// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dump decodes binary input under the direction of a format
// description and renders it as an annotated hex/ASCII dump.
package dump

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"unicode/utf16"
	"unicode/utf8"

	"go.bindl.net/bindl"
)

// A Decoder reads scalar values of described types from a byte
// stream, tracking its offset. It is designed to serve as the Read
// hook of a bindl.Interp.
type Decoder struct {
	r      *bufio.Reader
	offset int64
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int64 { return d.offset }

// Read decodes one value of scalar type t and returns it along with
// the raw bytes it occupied. Running out of input mid-value is
// io.ErrUnexpectedEOF; at a value boundary it is io.EOF.
func (d *Decoder) Read(t *bindl.Type) (bindl.Value, []byte, error) {
	switch t.Kind {
	case bindl.KindBool:
		raw, err := d.take(1)
		if err != nil {
			return nil, nil, err
		}
		return bindl.Bool(raw[0] != 0), raw, nil

	case bindl.KindInt:
		raw, err := d.take(t.Bits / 8)
		if err != nil {
			return nil, nil, err
		}
		u := uintOf(raw, byteOrder(t.Endian))
		if t.Signed {
			return bindl.Int(signExtend(u, t.Bits)), raw, nil
		}
		return bindl.Uint(u), raw, nil

	case bindl.KindFloat:
		raw, err := d.take(t.Bits / 8)
		if err != nil {
			return nil, nil, err
		}
		u := uintOf(raw, byteOrder(t.Endian))
		if t.Bits == 32 {
			return bindl.Float(math.Float32frombits(uint32(u))), raw, nil
		}
		return bindl.Float(math.Float64frombits(u)), raw, nil

	case bindl.KindString:
		return d.readString(t)
	}

	return nil, nil, fmt.Errorf("offset %#x: cannot decode %s value", d.offset, t.Kind)
}

// readString decodes either a single code point or, for a
// null-terminated type, code points up to and including the NUL. The
// NUL is consumed but not part of the value.
func (d *Decoder) readString(t *bindl.Type) (bindl.Value, []byte, error) {
	var runes []rune
	var raw []byte
	for {
		r, b, err := d.readRune(t)
		if err != nil {
			return nil, nil, err
		}
		raw = append(raw, b...)
		if t.Null && r == 0 {
			break
		}
		runes = append(runes, r)
		if !t.Null {
			break
		}
	}
	return bindl.String(runes), raw, nil
}

// readRune decodes one code point in t's encoding.
func (d *Decoder) readRune(t *bindl.Type) (rune, []byte, error) {
	switch t.Bits {
	case 8:
		raw, err := d.take(1)
		if err != nil {
			return 0, nil, err
		}
		if raw[0] < utf8.RuneSelf {
			return rune(raw[0]), raw, nil
		}
		n := utf8ByteLen(raw[0])
		if n == 0 {
			return 0, nil, fmt.Errorf("offset %#x: invalid UTF-8 byte %#x", d.offset-1, raw[0])
		}
		rest, err := d.take(n - 1)
		if err != nil {
			return 0, nil, err
		}
		raw = append(raw, rest...)
		r, size := utf8.DecodeRune(raw)
		if r == utf8.RuneError && size <= 1 {
			return 0, nil, fmt.Errorf("offset %#x: invalid UTF-8 sequence % x", d.offset-int64(n), raw)
		}
		return r, raw, nil

	case 16:
		order := byteOrder(t.Endian)
		raw, err := d.take(2)
		if err != nil {
			return 0, nil, err
		}
		u := order.Uint16(raw)
		if !utf16.IsSurrogate(rune(u)) {
			return rune(u), raw, nil
		}
		raw2, err := d.take(2)
		if err != nil {
			return 0, nil, err
		}
		raw = append(raw, raw2...)
		r := utf16.DecodeRune(rune(u), rune(order.Uint16(raw2)))
		if r == utf8.RuneError {
			return 0, nil, fmt.Errorf("offset %#x: invalid UTF-16 surrogate pair % x", d.offset-4, raw)
		}
		return r, raw, nil

	case 32:
		raw, err := d.take(4)
		if err != nil {
			return 0, nil, err
		}
		u := byteOrder(t.Endian).Uint32(raw)
		if u > unicodeMax || (u >= surrogateMin && u <= surrogateMax) {
			return 0, nil, fmt.Errorf("offset %#x: invalid UTF-32 code point %#x", d.offset-4, u)
		}
		return rune(u), raw, nil
	}
	return 0, nil, fmt.Errorf("offset %#x: invalid code unit width %d", d.offset, t.Bits)
}

const (
	unicodeMax   = 0x10FFFF
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// take consumes exactly n bytes. EOF after at least one byte of the
// current value becomes io.ErrUnexpectedEOF.
func (d *Decoder) take(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(d.r, buf)
	d.offset += int64(read)
	if err != nil {
		return nil, fmt.Errorf("offset %#x: %w", d.offset, err)
	}
	return buf, nil
}

// Rest consumes and returns all remaining input, so a caller can
// render bytes past the end of the description.
func (d *Decoder) Rest() ([]byte, error) {
	rest, err := io.ReadAll(d.r)
	d.offset += int64(len(rest))
	return rest, err
}

func byteOrder(e bindl.Endian) binary.ByteOrder {
	switch e {
	case bindl.EndianLittle:
		return binary.LittleEndian
	case bindl.EndianBig:
		return binary.BigEndian
	}
	return binary.NativeEndian
}

func uintOf(raw []byte, order binary.ByteOrder) uint64 {
	switch len(raw) {
	case 1:
		return uint64(raw[0])
	case 2:
		return uint64(order.Uint16(raw))
	case 4:
		return uint64(order.Uint32(raw))
	}
	return order.Uint64(raw)
}

func signExtend(u uint64, bits int) int64 {
	shift := 64 - uint(bits)
	return int64(u<<shift) >> shift
}

func utf8ByteLen(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	}
	return 0
}
