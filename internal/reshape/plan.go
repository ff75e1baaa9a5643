// Package reshape builds the programs that relocate a tensor stored in
// texture memory into a new shape without touching its values.
//
// A Plan is the program in data form: the flat-index codec of the output,
// the coordinate codec of the input, the texel taps walked per output
// unit and, for packed inputs, the channel resolver. Text backends render
// a Plan; executors run it.
package reshape

import (
	"errors"
	"fmt"

	"github.com/born-ml/texreshape/internal/codegen/ir"
	"github.com/born-ml/texreshape/internal/tensor"
)

// ErrElementCountMismatch is returned when input and output shapes hold a
// different number of elements.
var ErrElementCountMismatch = errors.New("reshape: element count mismatch")

// InputName is the name of the bound input texture.
const InputName = "A"

// Tap is one position of the output block walked by the kernel.
type Tap struct {
	Row     int // offset on the second innermost output dim
	Col     int // offset on the innermost output dim
	Channel int // output channel written by this tap
}

var (
	pairTaps  = []Tap{{0, 0, 0}, {0, 1, 1}}
	blockTaps = []Tap{{0, 0, 0}, {0, 1, 1}, {1, 0, 2}, {1, 1, 3}}
)

// Sampler reads the bound input texture.
type Sampler interface {
	// Value returns the value at coords of an unpacked input.
	Value(coords []int) float32
	// Texel returns the packed texel holding coords.
	Texel(coords []int) [tensor.ChannelsPerTexel]float32
}

// Plan is a reshape program for one (input, output, packing) triple.
// Plans are immutable once built.
type Plan struct {
	Packing     ir.Packing
	InputShape  tensor.Shape
	OutputShape tensor.Shape

	// OutputFlat maps an output coordinate to its flat index.
	OutputFlat ir.FlatIndex
	// InputCoords maps a flat index to an input coordinate.
	InputCoords ir.CoordsFromFlat

	// Taps lists the output positions covered by one output texel.
	Taps []Tap
	// Channels resolves input channels; nil for unpacked plans.
	Channels *ChannelResolver
}

// NewPlan builds the reshape plan of input into output.
// Rank checks run first and fail with *ir.UnsupportedRankError.
func NewPlan(input, output tensor.Shape, packing ir.Packing) (*Plan, error) {
	var (
		p   *Plan
		err error
	)
	switch packing {
	case ir.Unpacked:
		p, err = newUnpackedPlan(input, output)
	case ir.Packed:
		p, err = newPackedPlan(input, output)
	default:
		return nil, fmt.Errorf("reshape: unknown packing %v", packing)
	}
	if err != nil {
		return nil, err
	}

	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("reshape: input shape: %w", err)
	}
	if err := output.Validate(); err != nil {
		return nil, fmt.Errorf("reshape: output shape: %w", err)
	}
	if input.NumElements() != output.NumElements() {
		return nil, fmt.Errorf("%w: %v has %d, %v has %d", ErrElementCountMismatch,
			input, input.NumElements(), output, output.NumElements())
	}
	return p, nil
}

// newPlan builds the codecs shared by both packings.
func newPlan(input, output tensor.Shape, packing ir.Packing) (*Plan, error) {
	flat, err := ir.FlatFromCoords(output, packing)
	if err != nil {
		return nil, err
	}
	coords, err := ir.CoordsFromFlatIndex(input, packing)
	if err != nil {
		return nil, err
	}

	taps := blockTaps
	if output.Rank() == 1 {
		taps = pairTaps
	}
	return &Plan{
		Packing:     packing,
		InputShape:  input.Clone(),
		OutputShape: output.Clone(),
		OutputFlat:  flat,
		InputCoords: coords,
		Taps:        taps,
	}, nil
}

// InnerDims returns the output dims the taps move along: the single dim
// at rank 1, else the last two.
func (p *Plan) InnerDims() []int {
	rank := p.OutputShape.Rank()
	if rank == 1 {
		return []int{0}
	}
	return []int{rank - 2, rank - 1}
}

// TapCoords returns the output coordinate of tap relative to origin and
// whether it lies inside the output shape.
func (p *Plan) TapCoords(origin []int, tap Tap) ([]int, bool) {
	coords := make([]int, len(origin))
	copy(coords, origin)

	inner := p.InnerDims()
	if len(inner) == 1 {
		coords[inner[0]] += tap.Col
	} else {
		coords[inner[0]] += tap.Row
		coords[inner[1]] += tap.Col
	}
	for _, dim := range inner {
		if coords[dim] >= p.OutputShape[dim] {
			return nil, false
		}
	}
	return coords, true
}

// InputCoordsOf maps an output coordinate to the input coordinate holding
// the same flat index.
func (p *Plan) InputCoordsOf(output []int) []int {
	return p.InputCoords.Eval(p.OutputFlat.Eval(output))
}

// Run computes the output texel whose block starts at origin.
// Channels of taps outside the output shape stay zero and are never read.
func (p *Plan) Run(origin []int, in Sampler) [tensor.ChannelsPerTexel]float32 {
	var result [tensor.ChannelsPerTexel]float32

	var (
		topLeft []int
		base    int
	)
	if p.Channels != nil {
		topLeft = p.InputCoordsOf(origin)
		base = p.Channels.BaseOffset(topLeft)
	}

	for _, tap := range p.Taps {
		out, ok := p.TapCoords(origin, tap)
		if !ok {
			continue
		}
		inputRC := p.InputCoordsOf(out)
		if p.Channels == nil {
			result[tap.Channel] = in.Value(inputRC)
			continue
		}
		result[tap.Channel] = in.Texel(inputRC)[p.Channels.Resolve(base, topLeft, inputRC)]
	}
	return result
}
