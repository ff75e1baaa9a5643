package reshape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/texreshape/internal/codegen/ir"
	"github.com/born-ml/texreshape/internal/tensor"
)

// textureSampler reads a host texture the way a shader samples it.
type textureSampler struct {
	tex    *tensor.Texture
	layout tensor.Layout
}

func newTextureSampler(tex *tensor.Texture) *textureSampler {
	return &textureSampler{tex: tex, layout: tensor.PackedLayout(tex.Shape)}
}

func (s *textureSampler) Value(coords []int) float32 {
	return s.tex.Data[s.tex.Shape.FlatIndex(coords)]
}

func (s *textureSampler) Texel(coords []int) [tensor.ChannelsPerTexel]float32 {
	return s.tex.Texel(s.layout.TexelIndex(coords))
}

func iota32(n int) []float32 {
	values := make([]float32, n)
	for i := range values {
		values[i] = float32(i)
	}
	return values
}

func TestNewPlan(t *testing.T) {
	p, err := NewPlan(tensor.Shape{2, 3}, tensor.Shape{3, 2}, ir.Packed)
	require.NoError(t, err)

	assert.Equal(t, ir.Packed, p.Packing)
	assert.Equal(t, tensor.Shape{2, 3}, p.InputShape)
	assert.Equal(t, tensor.Shape{3, 2}, p.OutputShape)
	assert.Equal(t, []ir.Term{{Dim: 0, Stride: 2}, {Dim: 1, Stride: 1}}, p.OutputFlat.Terms)
	assert.Equal(t, []ir.DivStep{{Dim: 0, Stride: 3}}, p.InputCoords.Steps)
	assert.Len(t, p.Taps, 4)
	require.NotNil(t, p.Channels)
	assert.Equal(t, ChannelResolver{RowDim: 0, ColDim: 1}, *p.Channels)

	u, err := NewPlan(tensor.Shape{6}, tensor.Shape{6}, ir.Unpacked)
	require.NoError(t, err)
	assert.Nil(t, u.Channels)
	assert.Len(t, u.Taps, 2)
}

func TestNewPlanErrors(t *testing.T) {
	t.Run("element count", func(t *testing.T) {
		_, err := NewPlan(tensor.Shape{2, 3}, tensor.Shape{4, 2}, ir.Packed)
		require.ErrorIs(t, err, ErrElementCountMismatch)
	})

	t.Run("invalid dim", func(t *testing.T) {
		_, err := NewPlan(tensor.Shape{2, 0}, tensor.Shape{0}, ir.Unpacked)
		require.Error(t, err)
	})

	t.Run("rank checked first", func(t *testing.T) {
		// Element counts differ too, but the rank error wins.
		_, err := NewPlan(tensor.Shape{1, 1, 1, 1, 6}, tensor.Shape{5}, ir.Unpacked)
		var rankErr *ir.UnsupportedRankError
		require.True(t, errors.As(err, &rankErr))
		assert.Equal(t, 5, rankErr.Rank)
		assert.Equal(t, "reshaping", rankErr.Op)
	})

	t.Run("output rank", func(t *testing.T) {
		_, err := NewPlan(tensor.Shape{6}, tensor.Shape{1, 1, 1, 1, 1, 1, 6}, ir.Packed)
		var rankErr *ir.UnsupportedRankError
		require.True(t, errors.As(err, &rankErr))
		assert.Equal(t, "flat indexing", rankErr.Op)
	})

	t.Run("unknown packing", func(t *testing.T) {
		_, err := NewPlan(tensor.Shape{6}, tensor.Shape{6}, ir.Packing(3))
		require.Error(t, err)
	})
}

func TestTapCoords(t *testing.T) {
	p, err := NewPlan(tensor.Shape{15}, tensor.Shape{3, 5}, ir.Unpacked)
	require.NoError(t, err)

	coords, ok := p.TapCoords([]int{2, 4}, Tap{0, 0, 0})
	require.True(t, ok)
	assert.Equal(t, []int{2, 4}, coords)

	_, ok = p.TapCoords([]int{2, 4}, Tap{0, 1, 1})
	assert.False(t, ok, "column past the edge")
	_, ok = p.TapCoords([]int{2, 2}, Tap{1, 0, 2})
	assert.False(t, ok, "row past the edge")

	r1, err := NewPlan(tensor.Shape{3, 1}, tensor.Shape{3}, ir.Packed)
	require.NoError(t, err)
	coords, ok = r1.TapCoords([]int{0}, Tap{0, 1, 1})
	require.True(t, ok)
	assert.Equal(t, []int{1}, coords)
	_, ok = r1.TapCoords([]int{2}, Tap{0, 1, 1})
	assert.False(t, ok)
}

func TestRunWorkedExample(t *testing.T) {
	p, err := NewPlan(tensor.Shape{2, 3}, tensor.Shape{3, 2}, ir.Packed)
	require.NoError(t, err)

	in, err := tensor.Pack(tensor.Shape{2, 3}, iota32(6))
	require.NoError(t, err)
	s := newTextureSampler(in)

	assert.Equal(t, [4]float32{0, 1, 2, 3}, p.Run([]int{0, 0}, s))
	assert.Equal(t, [4]float32{4, 5, 0, 0}, p.Run([]int{2, 0}, s))
}

func TestRunUnpacked(t *testing.T) {
	p, err := NewPlan(tensor.Shape{2, 2, 2}, tensor.Shape{8}, ir.Unpacked)
	require.NoError(t, err)

	in, err := tensor.Unpacked(tensor.Shape{2, 2, 2}, iota32(8))
	require.NoError(t, err)
	s := newTextureSampler(in)

	assert.Equal(t, [4]float32{2, 3, 0, 0}, p.Run([]int{2}, s))
	assert.Equal(t, [4]float32{6, 7, 0, 0}, p.Run([]int{6}, s))
}

func TestCheckInput(t *testing.T) {
	p, err := NewPlan(tensor.Shape{2, 3}, tensor.Shape{6}, ir.Packed)
	require.NoError(t, err)

	packed, _ := tensor.Pack(tensor.Shape{2, 3}, iota32(6))
	require.NoError(t, p.CheckInput(packed))

	unpacked, _ := tensor.Unpacked(tensor.Shape{2, 3}, iota32(6))
	require.ErrorIs(t, p.CheckInput(unpacked), ErrTextureMismatch)

	other, _ := tensor.Pack(tensor.Shape{3, 2}, iota32(6))
	require.ErrorIs(t, p.CheckInput(other), ErrTextureMismatch)

	require.ErrorIs(t, p.CheckInput(nil), ErrTextureMismatch)
}
