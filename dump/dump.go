// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dump

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"go.bindl.net/bindl"
)

// Color controls SGR coloring of dump output.
type Color int

const (
	ColorAuto   Color = iota // color when the writer is a terminal
	ColorAlways              // color unconditionally
	ColorNever               // never color
)

// rowBytes is the number of input bytes rendered per output row.
const rowBytes = 16

// palette is the cycle of SGR codes used for consecutive fields.
var palette = []string{"31", "32", "33", "34", "35", "36"}

// A Dumper renders decoded fields as rows of hex bytes, their ASCII
// rendition, and an annotation naming each field where it begins.
// Consecutive fields take alternating colors so their byte spans are
// visible in the hex columns.
type Dumper struct {
	w     io.Writer
	color bool
	err   error

	offset int64 // offset of row[0] in the input
	row    []byte
	colors []int // palette index per row byte, -1 for none
	notes  []string
	field  int // fields emitted so far, indexes the palette
}

// NewDumper returns a Dumper writing to w. With ColorAuto, output is
// colored only when w is a terminal.
func NewDumper(w io.Writer, color Color) *Dumper {
	on := color == ColorAlways
	if color == ColorAuto {
		if f, ok := w.(*os.File); ok {
			on = term.IsTerminal(int(f.Fd()))
		}
	}
	return &Dumper{w: w, color: on}
}

// Field records one decoded field and the raw bytes it occupied.
// It is shaped to be driven from a bindl.Interp Apply hook.
func (dp *Dumper) Field(name bindl.QName, t *bindl.Type, v bindl.Value, raw []byte) {
	if len(raw) == 0 {
		return
	}
	color := dp.field % len(palette)
	dp.field++
	dp.notes = append(dp.notes, fmt.Sprintf("%s = %s", name, formatValue(t, v)))
	for _, b := range raw {
		dp.push(b, color)
	}
}

// Skip records bytes not claimed by any field, such as input past the
// end of the description. They render uncolored and unannotated.
func (dp *Dumper) Skip(raw []byte) {
	for _, b := range raw {
		dp.push(b, -1)
	}
}

// Flush writes any partial final row and returns the first error
// encountered while writing.
func (dp *Dumper) Flush() error {
	if len(dp.row) > 0 {
		dp.emitRow()
	}
	return dp.err
}

func (dp *Dumper) push(b byte, color int) {
	dp.row = append(dp.row, b)
	dp.colors = append(dp.colors, color)
	if len(dp.row) == rowBytes {
		dp.emitRow()
	}
}

func (dp *Dumper) emitRow() {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%08x:", dp.offset)

	for i := 0; i < rowBytes; i++ {
		if i%2 == 0 {
			sb.WriteByte(' ')
		}
		if i == 8 {
			sb.WriteByte(' ')
		}
		if i < len(dp.row) {
			dp.writeColored(&sb, dp.colors[i], fmt.Sprintf("%02x", dp.row[i]))
		} else {
			sb.WriteString("  ")
		}
	}

	sb.WriteString("  ")
	for i, b := range dp.row {
		c := "."
		if b >= 0x20 && b < 0x7F {
			c = string(rune(b))
		}
		dp.writeColored(&sb, dp.colors[i], c)
	}

	if len(dp.notes) > 0 {
		sb.WriteString(strings.Repeat(" ", rowBytes-len(dp.row)))
		sb.WriteString("  ")
		sb.WriteString(strings.Join(dp.notes, "; "))
	}
	sb.WriteByte('\n')

	if _, err := io.WriteString(dp.w, sb.String()); err != nil && dp.err == nil {
		dp.err = err
	}

	dp.offset += int64(len(dp.row))
	dp.row = dp.row[:0]
	dp.colors = dp.colors[:0]
	dp.notes = dp.notes[:0]
}

func (dp *Dumper) writeColored(sb *strings.Builder, color int, s string) {
	if dp.color && color >= 0 {
		sb.WriteString("\x1b[")
		sb.WriteString(palette[color])
		sb.WriteByte('m')
		sb.WriteString(s)
		sb.WriteString("\x1b[0m")
		return
	}
	sb.WriteString(s)
}

// formatValue renders a field value for the annotation column. An
// enum value in range shows its enumerator name.
func formatValue(t *bindl.Type, v bindl.Value) string {
	if t != nil && t.Enum != nil {
		if i, ok := v.(bindl.Int); ok {
			if name := t.Enum.NameOf(int64(i)); name != "" {
				return fmt.Sprintf("%s::%s (%d)", t.Name, name, int64(i))
			}
		}
		if u, ok := v.(bindl.Uint); ok {
			if name := t.Enum.NameOf(int64(u)); name != "" {
				return fmt.Sprintf("%s::%s (%d)", t.Name, name, uint64(u))
			}
		}
	}
	if s, ok := v.(bindl.String); ok {
		return fmt.Sprintf("%q", string(s))
	}
	return v.String()
}
