package wgsl

import (
	"fmt"
	"strings"

	"github.com/born-ml/texreshape/internal/reshape"
	"github.com/born-ml/texreshape/internal/tensor"
)

const imodFunc = `fn imod(x: i32, n: i32) -> i32 {
    return ((x % n) + n) % n;
}`

const getChannelFunc = `fn getChannel(frag: vec4<f32>, index: i32) -> f32 {
    let channel = imod(index, 4);
    if (channel == 0) {
        return frag.x;
    }
    if (channel == 1) {
        return frag.y;
    }
    if (channel == 2) {
        return frag.z;
    }
    return frag.w;
}`

const setOutputFunc = `fn setOutput(texel: u32, value: vec4<f32>) {
    resultTexels[texel] = value;
}`

// Reshape renders a compute shader running p, one invocation per output
// texel. Equal plans render byte-identical text.
func Reshape(p *reshape.Plan) string {
	var e emitter

	inputElem := "f32"
	if p.Channels != nil {
		inputElem = "vec4<f32>"
	}
	e.linef("@group(0) @binding(%d) var<storage, read> a: array<%s>;", InputBinding, inputElem)
	e.linef("@group(0) @binding(%d) var<storage, read_write> resultTexels: array<vec4<f32>>;", ResultBinding)
	e.linef("")
	e.linef("struct Params {")
	e.linef("    size: u32,")
	e.linef("}")
	e.linef("@group(0) @binding(%d) var<uniform> params: Params;", ParamsBinding)
	e.linef("")

	writeOutputCoordsFunc(&e, p.OutputShape)
	e.linef("")
	writeSamplerFunc(&e, p)
	e.linef("")
	e.linef("%s", setOutputFunc)
	e.linef("")
	writeCoordsFunc(&e, p.InputCoords)
	e.linef("")
	writeFlatIndexFunc(&e, p.OutputFlat)
	if p.Channels != nil {
		e.linef("")
		e.linef("%s", imodFunc)
		e.linef("")
		e.linef("%s", getChannelFunc)
	}
	e.linef("")

	writeMain(&e, p)
	return e.String()
}

// writeOutputCoordsFunc renders the block origin of an output texel.
func writeOutputCoordsFunc(e *emitter, shape tensor.Shape) {
	rank := shape.Rank()
	e.open("fn getOutputCoords(texel: u32) -> %s", CoordsType(rank))
	defer e.close()

	if rank == 1 {
		e.linef("return i32(texel) * 2;")
		return
	}

	l := tensor.PackedLayout(shape)
	e.linef("var t = i32(texel);")
	e.linef("let col = (t %% %d) * 2;", l.TexCols)
	e.linef("t = t / %d;", l.TexCols)
	e.linef("let row = (t %% %d) * 2;", l.TexRows)

	names := make([]string, 0, rank)
	for dim := 0; dim < rank-2; dim++ {
		names = append(names, fmt.Sprintf("b%d", dim))
	}
	if rank > 2 {
		e.linef("t = t / %d;", l.TexRows)
		for dim := rank - 3; dim > 0; dim-- {
			e.linef("let b%d = t %% %d;", dim, shape[dim])
			e.linef("t = t / %d;", shape[dim])
		}
		e.linef("let b0 = t;")
	}
	names = append(names, "row", "col")
	e.linef("return %s(%s);", CoordsType(rank), strings.Join(names, ", "))
}

// writeSamplerFunc renders getA, the read of the bound input.
func writeSamplerFunc(e *emitter, p *reshape.Plan) {
	shape := p.InputShape
	rank := shape.Rank()
	fields := Components("coords", rank)

	if p.Channels == nil {
		e.open("fn get%s(coords: %s) -> f32", reshape.InputName, CoordsType(rank))
		strides := shape.ComputeStrides()
		e.linef("return a[%s];", linearExpr(fields, termsOf(strides)))
		e.close()
		return
	}

	e.open("fn get%s(coords: %s) -> vec4<f32>", reshape.InputName, CoordsType(rank))
	defer e.close()
	if rank == 1 {
		e.linef("return a[coords / 2];")
		return
	}

	l := tensor.PackedLayout(shape)
	row := fmt.Sprintf("%s / 2", fields[rank-2])
	if rank > 2 {
		batch := linearExpr(fields, termsOf(shape[:rank-2].ComputeStrides()))
		row = fmt.Sprintf("(%s) * %d + %s", batch, l.TexRows, row)
	}
	e.linef("return a[(%s) * %d + %s / 2];", row, l.TexCols, fields[rank-1])
}

func writeMain(e *emitter, p *reshape.Plan) {
	outRank := p.OutputShape.Rank()
	inRank := p.InputShape.Rank()

	e.linef("@compute @workgroup_size(%d)", WorkgroupSize)
	e.open("fn main(@builtin(global_invocation_id) global_id: vec3<u32>)")
	e.linef("let texel = global_id.x;")
	e.open("if (texel >= params.size)")
	e.linef("return;")
	e.close()
	e.linef("")
	e.linef("let rc = getOutputCoords(texel);")
	e.linef("var result = vec4<f32>(0.0);")
	if r := p.Channels; r != nil {
		tl := Components("inputRCTopLeft", inRank)
		e.linef("let inputRCTopLeft = %s(%s(rc));", coordsFunc, flatIndexFunc)
		if r.RowDim < 0 {
			e.linef("let baseOffset = imod(%s, 2);", tl[r.ColDim])
		} else {
			e.linef("let baseOffset = 2 * imod(%s, 2) + imod(%s, 2);", tl[r.RowDim], tl[r.ColDim])
		}
	}
	e.linef("")

	inner := p.InnerDims()
	if len(inner) == 1 {
		e.open("for (var col: i32 = 0; col <= 1; col = col + 1)")
		e.linef("let thisRC = rc + col;")
		e.open("if (thisRC >= %d)", p.OutputShape[inner[0]])
		e.linef("continue;")
		e.close()
		writeTap(e, p, "col")
		e.close()
	} else {
		fields := Components("thisRC", outRank)
		e.open("for (var row: i32 = 0; row <= 1; row = row + 1)")
		e.open("for (var col: i32 = 0; col <= 1; col = col + 1)")
		e.linef("var thisRC = rc;")
		e.linef("%s += row;", fields[inner[0]])
		e.linef("%s += col;", fields[inner[1]])
		e.open("if (%s >= %d || %s >= %d)",
			fields[inner[0]], p.OutputShape[inner[0]], fields[inner[1]], p.OutputShape[inner[1]])
		e.linef("continue;")
		e.close()
		writeTap(e, p, "row * 2 + col")
		e.close()
		e.close()
	}

	e.linef("")
	e.linef("setOutput(texel, result);")
	e.close()
}

func writeTap(e *emitter, p *reshape.Plan, channel string) {
	inRank := p.InputShape.Rank()
	read := fmt.Sprintf("get%s(inputRC)", reshape.InputName)

	e.linef("")
	e.linef("let flatIndex = %s(thisRC);", flatIndexFunc)
	e.linef("let inputRC = %s(flatIndex);", coordsFunc)

	r := p.Channels
	if r == nil {
		e.linef("result[%s] = %s;", channel, read)
		return
	}

	in := Components("inputRC", inRank)
	tl := Components("inputRCTopLeft", inRank)
	if r.RowDim < 0 {
		e.linef("let channel = imod(baseOffset + %s - %s, 2);", in[r.ColDim], tl[r.ColDim])
	} else {
		e.linef("let channel = 2 * imod(baseOffset / 2 + %s - %s, 2) + imod(imod(baseOffset, 2) + %s - %s, 2);",
			in[r.RowDim], tl[r.RowDim], in[r.ColDim], tl[r.ColDim])
	}
	e.linef("result[%s] = getChannel(%s, channel);", channel, read)
}
