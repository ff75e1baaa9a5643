// Package glsl renders reshape plans as GLSL ES 3.0 fragment programs for
// the WebGL engine.
//
// The engine supplies getOutputCoords, get<Input>, setOutput and the
// ivec5/ivec6 coordinate structs; the rendered text only declares the
// index helpers and main.
package glsl

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// components names the fields of a coordinate value, outer to inner.
var components = []string{"x", "y", "z", "w", "u", "v"}

// CoordsType returns the coordinate type for rank.
func CoordsType(rank int) string {
	switch rank {
	case 1:
		return "int"
	case 2, 3, 4, 5, 6:
		return fmt.Sprintf("ivec%d", rank)
	default:
		panic(fmt.Sprintf("glsl: no coordinate type for rank %d", rank))
	}
}

// Components returns the field accessors of a coordinate variable.
// A rank-1 coordinate is a plain int, so its only accessor is the name.
func Components(name string, rank int) []string {
	if rank == 1 {
		return []string{name}
	}
	return lo.Map(components[:rank], func(c string, _ int) string {
		return name + "." + c
	})
}

// emitter writes indented source lines.
type emitter struct {
	buf    bytes.Buffer
	indent int
}

func (e *emitter) linef(format string, args ...any) {
	if format == "" {
		e.buf.WriteByte('\n')
		return
	}
	e.buf.WriteString(strings.Repeat("  ", e.indent))
	fmt.Fprintf(&e.buf, format, args...)
	e.buf.WriteByte('\n')
}

func (e *emitter) open(format string, args ...any) {
	e.linef(format+" {", args...)
	e.indent++
}

func (e *emitter) close() {
	e.indent--
	e.linef("}")
}

func (e *emitter) String() string {
	return e.buf.String()
}
