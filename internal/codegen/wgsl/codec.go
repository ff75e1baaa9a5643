package wgsl

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/born-ml/texreshape/internal/codegen/ir"
)

const (
	flatIndexFunc = "getFlatIndex"
	coordsFunc    = "inputCoordsFromReshapedOutCoords"
)

// FlatIndexFunc renders getFlatIndex for the output coordinate type.
func FlatIndexFunc(f ir.FlatIndex) string {
	var e emitter
	writeFlatIndexFunc(&e, f)
	return e.String()
}

func writeFlatIndexFunc(e *emitter, f ir.FlatIndex) {
	e.open("fn %s(coords: %s) -> i32", flatIndexFunc, CoordsType(f.Rank))
	e.linef("return %s;", linearExpr(Components("coords", f.Rank), f.Terms))
	e.close()
}

// linearExpr renders Σ fields[t.Dim] * t.Stride, dropping unit strides.
func linearExpr(fields []string, terms []ir.Term) string {
	parts := lo.Map(terms, func(t ir.Term, _ int) string {
		if t.Stride == 1 {
			return fields[t.Dim]
		}
		return fmt.Sprintf("%s * %d", fields[t.Dim], t.Stride)
	})
	return strings.Join(parts, " + ")
}

// CoordsFunc renders inputCoordsFromReshapedOutCoords for the input
// coordinate type. WGSL parameters are immutable, so the running index is
// a local copy.
func CoordsFunc(c ir.CoordsFromFlat) string {
	var e emitter
	writeCoordsFunc(&e, c)
	return e.String()
}

func writeCoordsFunc(e *emitter, c ir.CoordsFromFlat) {
	typ := CoordsType(c.Rank)
	if c.Rank == 1 {
		e.open("fn %s(index: i32) -> %s", coordsFunc, typ)
		e.linef("return index;")
		e.close()
		return
	}

	e.open("fn %s(flatIndex: i32) -> %s", coordsFunc, typ)
	e.linef("var index = flatIndex;")
	names := lo.Times(c.Rank, func(i int) string { return fmt.Sprintf("c%d", i) })
	for _, s := range c.Steps {
		e.linef("let %s = index / %d;", names[s.Dim], s.Stride)
		e.linef("index -= %s * %d;", names[s.Dim], s.Stride)
	}
	e.linef("let %s = index;", names[c.Rank-1])
	e.linef("return %s(%s);", typ, strings.Join(names, ", "))
	e.close()
}

// termsOf turns row-major strides into flat-index terms.
func termsOf(strides []int) []ir.Term {
	return lo.Map(strides, func(stride, dim int) ir.Term {
		return ir.Term{Dim: dim, Stride: stride}
	})
}
