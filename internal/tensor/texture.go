package tensor

import (
	"errors"
	"fmt"
)

// ChannelsPerTexel is the number of values a packed texel holds.
const ChannelsPerTexel = 4

// ErrDataSize is returned when texture data does not match its shape.
var ErrDataSize = errors.New("texture data size does not match shape")

// Layout describes how a shape is tiled into packed texels.
//
// The last two dimensions are split into 2x2 blocks; every leading
// dimension is folded into a batch index. A rank-1 shape [n] is laid
// out as [1, n], so its texels hold pairs in channels 0 and 1.
type Layout struct {
	Shape    Shape
	Batch    int
	Rows     int
	Cols     int
	TexRows  int
	TexCols  int
	batchDim Shape
}

// PackedLayout returns the packed texel layout of s.
func PackedLayout(s Shape) Layout {
	l := Layout{Shape: s.Clone(), Batch: 1, Rows: 1, Cols: 1}
	switch len(s) {
	case 0:
	case 1:
		l.Cols = s[0]
	default:
		l.batchDim = s[:len(s)-2].Clone()
		l.Batch = l.batchDim.NumElements()
		l.Rows = s[len(s)-2]
		l.Cols = s[len(s)-1]
	}
	l.TexRows = (l.Rows + 1) / 2
	l.TexCols = (l.Cols + 1) / 2
	return l
}

// TexelCount returns the number of packed texels.
func (l Layout) TexelCount() int {
	return l.Batch * l.TexRows * l.TexCols
}

// split returns the batch index, row and column of coords.
func (l Layout) split(coords []int) (b, r, c int) {
	switch len(coords) {
	case 0:
		return 0, 0, 0
	case 1:
		return 0, 0, coords[0]
	}
	n := len(coords)
	return l.batchDim.FlatIndex(coords[:n-2]), coords[n-2], coords[n-1]
}

// TexelIndex returns the texel holding coords.
func (l Layout) TexelIndex(coords []int) int {
	b, r, c := l.split(coords)
	return (b*l.TexRows+r/2)*l.TexCols + c/2
}

// Channel returns the channel of coords within its texel.
func (l Layout) Channel(coords []int) int {
	_, r, c := l.split(coords)
	return 2*(r%2) + c%2
}

// BlockOrigin returns the top-left coordinate covered by texel.
func (l Layout) BlockOrigin(texel int) []int {
	c := (texel % l.TexCols) * 2
	texel /= l.TexCols
	r := (texel % l.TexRows) * 2
	b := texel / l.TexRows

	switch len(l.Shape) {
	case 0:
		return []int{}
	case 1:
		return []int{c}
	}
	return append(l.batchDim.Coords(b), r, c)
}

// Texture is the host-side image of a tensor stored in texture memory.
//
// Unpacked textures hold one value per texel in row-major order. Packed
// textures hold ChannelsPerTexel values per texel following PackedLayout.
type Texture struct {
	Shape  Shape
	Packed bool
	Data   []float32
}

// NewTexture allocates a zeroed texture for shape.
func NewTexture(shape Shape, packed bool) *Texture {
	size := shape.NumElements()
	if packed {
		size = PackedLayout(shape).TexelCount() * ChannelsPerTexel
	}
	return &Texture{Shape: shape.Clone(), Packed: packed, Data: make([]float32, size)}
}

// Unpacked wraps row-major values as an unpacked texture.
func Unpacked(shape Shape, values []float32) (*Texture, error) {
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrDataSize, len(values), shape)
	}
	t := NewTexture(shape, false)
	copy(t.Data, values)
	return t, nil
}

// Pack lays out row-major values as a packed texture.
func Pack(shape Shape, values []float32) (*Texture, error) {
	if len(values) != shape.NumElements() {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrDataSize, len(values), shape)
	}
	t := NewTexture(shape, true)
	l := PackedLayout(shape)
	for i, v := range values {
		coords := shape.Coords(i)
		t.Data[l.TexelIndex(coords)*ChannelsPerTexel+l.Channel(coords)] = v
	}
	return t, nil
}

// Texel returns the packed texel at index i.
func (t *Texture) Texel(i int) [ChannelsPerTexel]float32 {
	var texel [ChannelsPerTexel]float32
	copy(texel[:], t.Data[i*ChannelsPerTexel:])
	return texel
}

// Values returns the texture contents in row-major order.
func (t *Texture) Values() []float32 {
	values := make([]float32, t.Shape.NumElements())
	if !t.Packed {
		copy(values, t.Data)
		return values
	}
	l := PackedLayout(t.Shape)
	for i := range values {
		coords := t.Shape.Coords(i)
		values[i] = t.Data[l.TexelIndex(coords)*ChannelsPerTexel+l.Channel(coords)]
	}
	return values
}
