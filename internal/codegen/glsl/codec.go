package glsl

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
	fields := Components("coords", f.Rank)
	terms := lo.Map(f.Terms, func(t ir.Term, _ int) string {
		if t.Stride == 1 {
			return fields[t.Dim]
		}
		return fmt.Sprintf("%s * %d", fields[t.Dim], t.Stride)
	})

	e.open("int %s(%s coords)", flatIndexFunc, CoordsType(f.Rank))
	e.linef("return %s;", strings.Join(terms, " + "))
	e.close()
}

// CoordsFunc renders inputCoordsFromReshapedOutCoords for the input
// coordinate type. Coordinates are extracted outer to inner; the last one
// is the remainder of the index.
func CoordsFunc(c ir.CoordsFromFlat) string {
	var e emitter
	writeCoordsFunc(&e, c)
	return e.String()
}

func writeCoordsFunc(e *emitter, c ir.CoordsFromFlat) {
	typ := CoordsType(c.Rank)
	e.open("%s %s(int index)", typ, coordsFunc)
	defer e.close()

	if c.Rank == 1 {
		e.linef("return index;")
		return
	}

	names := lo.Times(c.Rank, func(i int) string { return fmt.Sprintf("c%d", i) })
	for _, s := range c.Steps {
		e.linef("int %s = index / %d;", names[s.Dim], s.Stride)
		e.linef("index -= %s * %d;", names[s.Dim], s.Stride)
	}
	e.linef("int %s = index;", names[c.Rank-1])
	e.linef("return %s(%s);", typ, strings.Join(names, ", "))
}
