// Package wgsl renders reshape plans as self-contained WGSL compute shaders.
//
// Unlike the GLSL backend, the WGSL text carries its own host functions:
// textures are storage buffers, one invocation produces one packed output
// texel, and getOutputCoords/getA/setOutput are derived from the packed
// layout of the shapes.
package wgsl

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// WorkgroupSize is the number of invocations per workgroup.
const WorkgroupSize = 256

// Buffer bindings of the rendered shader.
const (
	InputBinding  = 0
	ResultBinding = 1
	ParamsBinding = 2
)

// CoordsType returns the coordinate type for rank. WGSL vectors stop at
// four components, so ranks 5 and 6 use fixed-size arrays.
func CoordsType(rank int) string {
	switch rank {
	case 1:
		return "i32"
	case 2, 3, 4:
		return fmt.Sprintf("vec%d<i32>", rank)
	case 5, 6:
		return fmt.Sprintf("array<i32, %d>", rank)
	default:
		panic(fmt.Sprintf("wgsl: no coordinate type for rank %d", rank))
	}
}

// Components returns the accessors of a coordinate value, outer to inner.
func Components(name string, rank int) []string {
	if rank == 1 {
		return []string{name}
	}
	return lo.Times(rank, func(i int) string {
		return fmt.Sprintf("%s[%d]", name, i)
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
	e.buf.WriteString(strings.Repeat("    ", e.indent))
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
