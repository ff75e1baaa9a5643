// Package ir describes the index arithmetic of texture programs as data.
//
// A codec converts between a tensor coordinate and its row-major flat
// index. The conversion is kept as an ordered list of steps so it can be
// evaluated in Go and rendered to shader text by a separate backend.
package ir

import (
	"fmt"

	"github.com/born-ml/texreshape/internal/tensor"
)

// Packing selects how many values a texel holds.
type Packing int

const (
	// Unpacked textures hold one value per texel.
	Unpacked Packing = iota
	// Packed textures hold a 2x2 block of values per texel.
	Packed
)

// String returns a human-readable name for the packing.
func (p Packing) String() string {
	switch p {
	case Unpacked:
		return "unpacked"
	case Packed:
		return "packed"
	default:
		return fmt.Sprintf("Packing(%d)", int(p))
	}
}

// MaxRank returns the highest rank the codecs support for p.
func (p Packing) MaxRank() int {
	if p == Packed {
		return tensor.MaxRank
	}
	return 4
}

// Term is one addend of a flat index: coords[Dim] * Stride.
type Term struct {
	Dim    int
	Stride int
}

// FlatIndex computes a flat index from a coordinate.
// Terms run outer to inner; the last term always has stride 1.
type FlatIndex struct {
	Rank  int
	Terms []Term
}

// Eval returns the flat index of coords.
func (f FlatIndex) Eval(coords []int) int {
	flat := 0
	for _, t := range f.Terms {
		flat += coords[t.Dim] * t.Stride
	}
	return flat
}

// DivStep extracts coords[Dim] = index / Stride and leaves
// index - coords[Dim]*Stride for the next step.
type DivStep struct {
	Dim    int
	Stride int
}

// CoordsFromFlat computes a coordinate from a flat index.
// Steps run outer to inner over every dimension but the last, which
// takes whatever remains of the index.
type CoordsFromFlat struct {
	Rank  int
	Steps []DivStep
}

// Eval returns the coordinate of flat.
func (c CoordsFromFlat) Eval(flat int) []int {
	coords := make([]int, c.Rank)
	for _, s := range c.Steps {
		coords[s.Dim] = flat / s.Stride
		flat -= coords[s.Dim] * s.Stride
	}
	coords[c.Rank-1] = flat
	return coords
}

// codec is the pair of conversions for one shape.
type codec struct {
	flat   FlatIndex
	coords CoordsFromFlat
}

// codecs maps a rank to the builder of its codec. Ranks missing from the
// table are unsupported for every packing.
var codecs = map[int]func(tensor.Shape) codec{
	1: identityCodec,
	2: rowMajorCodec,
	3: rowMajorCodec,
	4: rowMajorCodec,
	5: rowMajorCodec,
	6: rowMajorCodec,
}

// identityCodec handles rank 1, where the coordinate is the flat index.
func identityCodec(tensor.Shape) codec {
	return codec{
		flat:   FlatIndex{Rank: 1, Terms: []Term{{Dim: 0, Stride: 1}}},
		coords: CoordsFromFlat{Rank: 1},
	}
}

func rowMajorCodec(shape tensor.Shape) codec {
	rank := shape.Rank()
	strides := shape.ComputeStrides()

	c := codec{
		flat:   FlatIndex{Rank: rank, Terms: make([]Term, rank)},
		coords: CoordsFromFlat{Rank: rank, Steps: make([]DivStep, rank-1)},
	}
	for dim, stride := range strides {
		c.flat.Terms[dim] = Term{Dim: dim, Stride: stride}
		if dim < rank-1 {
			c.coords.Steps[dim] = DivStep{Dim: dim, Stride: stride}
		}
	}
	return c
}

// lookup validates the rank of shape for p and builds its codec.
func lookup(shape tensor.Shape, p Packing, op string) (codec, error) {
	rank := shape.Rank()
	build, ok := codecs[rank]
	if !ok || rank > p.MaxRank() {
		return codec{}, &UnsupportedRankError{Rank: rank, Packing: p, Op: op}
	}
	return build(shape), nil
}

// FlatFromCoords returns the coordinate-to-flat-index conversion for shape.
func FlatFromCoords(shape tensor.Shape, p Packing) (FlatIndex, error) {
	c, err := lookup(shape, p, "flat indexing")
	if err != nil {
		return FlatIndex{}, err
	}
	return c.flat, nil
}

// CoordsFromFlatIndex returns the flat-index-to-coordinate conversion for shape.
func CoordsFromFlatIndex(shape tensor.Shape, p Packing) (CoordsFromFlat, error) {
	c, err := lookup(shape, p, "reshaping")
	if err != nil {
		return CoordsFromFlat{}, err
	}
	return c.coords, nil
}

// SupportsRank reports whether rank can be encoded under p.
func SupportsRank(rank int, p Packing) bool {
	_, ok := codecs[rank]
	return ok && rank <= p.MaxRank()
}
