package glsl

import (
	"fmt"
	"strings"

	"github.com/born-ml/texreshape/internal/reshape"
)

const imodFunc = `int imod(int x, int n) {
  return x - n * int(floor(float(x) / float(n)));
}`

const getChannelFunc = `float getChannel(vec4 frag, int index) {
  int channel = imod(index, 4);
  if (channel == 0) return frag.x;
  if (channel == 1) return frag.y;
  if (channel == 2) return frag.z;
  return frag.w;
}`

// Reshape renders the user code of a reshape program. Equal plans render
// byte-identical text.
func Reshape(p *reshape.Plan) string {
	var e emitter

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

	outRank := p.OutputShape.Rank()
	inRank := p.InputShape.Rank()

	e.open("void main()")
	e.linef("%s rc = getOutputCoords();", CoordsType(outRank))
	e.linef("vec4 result = vec4(0.);")
	if p.Channels != nil {
		writeBaseOffset(&e, p, inRank)
	}
	e.linef("")

	inner := p.InnerDims()
	fields := Components("thisRC", outRank)
	if len(inner) == 1 {
		e.open("for (int col = 0; col <= 1; col++)")
		e.linef("int thisRC = rc + col;")
		e.linef("if (thisRC >= %d) continue;", p.OutputShape[inner[0]])
		writeTap(&e, p, "col")
		e.close()
	} else {
		e.open("for (int row = 0; row <= 1; row++)")
		e.open("for (int col = 0; col <= 1; col++)")
		e.linef("%s thisRC = rc;", CoordsType(outRank))
		e.linef("%s += row;", fields[inner[0]])
		e.linef("%s += col;", fields[inner[1]])
		e.linef("if (%s >= %d || %s >= %d) continue;",
			fields[inner[0]], p.OutputShape[inner[0]], fields[inner[1]], p.OutputShape[inner[1]])
		writeTap(&e, p, "row * 2 + col")
		e.close()
		e.close()
	}

	e.linef("")
	e.linef("setOutput(result);")
	e.close()
	return e.String()
}

// writeBaseOffset declares the top-left input coordinate of the block and
// the channel it occupies in its own texel.
func writeBaseOffset(e *emitter, p *reshape.Plan, inRank int) {
	tl := Components("inputRCTopLeft", inRank)
	e.linef("%s inputRCTopLeft = %s(%s(rc));", CoordsType(inRank), coordsFunc, flatIndexFunc)

	r := p.Channels
	if r.RowDim < 0 {
		e.linef("int baseOffset = imod(%s, 2);", tl[r.ColDim])
		return
	}
	e.linef("int baseOffset = 2 * imod(%s, 2) + imod(%s, 2);", tl[r.RowDim], tl[r.ColDim])
}

// writeTap emits the loop body shared by both packings: locate the input
// coordinate of thisRC and store its value in the given output channel.
func writeTap(e *emitter, p *reshape.Plan, channel string) {
	inRank := p.InputShape.Rank()
	in := Components("inputRC", inRank)
	read := fmt.Sprintf("get%s(%s)", reshape.InputName, strings.Join(in, ", "))

	e.linef("")
	e.linef("int flatIndex = %s(thisRC);", flatIndexFunc)
	e.linef("%s inputRC = %s(flatIndex);", CoordsType(inRank), coordsFunc)

	if p.Channels == nil {
		e.linef("result[%s] = %s;", channel, read)
		return
	}

	r := p.Channels
	tl := Components("inputRCTopLeft", inRank)
	if r.RowDim < 0 {
		e.linef("int channel = imod(baseOffset + %s - %s, 2);", in[r.ColDim], tl[r.ColDim])
	} else {
		e.linef("int channel = 2 * imod(baseOffset / 2 + %s - %s, 2) + imod(imod(baseOffset, 2) + %s - %s, 2);",
			in[r.RowDim], tl[r.RowDim], in[r.ColDim], tl[r.ColDim])
	}
	e.linef("result[%s] = getChannel(%s, channel);", channel, read)
}
