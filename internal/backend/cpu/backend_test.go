package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/texreshape/internal/codegen/ir"
	"github.com/born-ml/texreshape/internal/parallel"
	"github.com/born-ml/texreshape/internal/reshape"
	"github.com/born-ml/texreshape/internal/tensor"
)

func iota32(n int) []float32 {
	values := make([]float32, n)
	for i := range values {
		values[i] = float32(i)
	}
	return values
}

func inputTexture(t *testing.T, shape tensor.Shape, packing ir.Packing) *tensor.Texture {
	t.Helper()
	var (
		tex *tensor.Texture
		err error
	)
	if packing == ir.Packed {
		tex, err = tensor.Pack(shape, iota32(shape.NumElements()))
	} else {
		tex, err = tensor.Unpacked(shape, iota32(shape.NumElements()))
	}
	require.NoError(t, err)
	return tex
}

func TestCPUBackend_New(t *testing.T) {
	backend := New()
	require.NotNil(t, backend)
	assert.Equal(t, "CPU", backend.Name())
}

func TestReshapePreservesValues(t *testing.T) {
	tests := []struct {
		in, out tensor.Shape
		packing ir.Packing
	}{
		{tensor.Shape{6}, tensor.Shape{2, 3}, ir.Unpacked},
		{tensor.Shape{2, 3}, tensor.Shape{3, 2}, ir.Unpacked},
		{tensor.Shape{2, 3, 4}, tensor.Shape{4, 6}, ir.Unpacked},
		{tensor.Shape{2, 2, 3, 2}, tensor.Shape{24}, ir.Unpacked},
		{tensor.Shape{3, 5}, tensor.Shape{5, 3}, ir.Unpacked},
		{tensor.Shape{6}, tensor.Shape{2, 3}, ir.Packed},
		{tensor.Shape{2, 3}, tensor.Shape{3, 2}, ir.Packed},
		{tensor.Shape{3, 5}, tensor.Shape{5, 3}, ir.Packed},
		{tensor.Shape{15}, tensor.Shape{3, 5}, ir.Packed},
		{tensor.Shape{3, 5}, tensor.Shape{15}, ir.Packed},
		{tensor.Shape{2, 3, 5}, tensor.Shape{5, 6}, ir.Packed},
		{tensor.Shape{2, 1, 3, 5}, tensor.Shape{3, 2, 5}, ir.Packed},
		{tensor.Shape{2, 1, 3, 2, 5}, tensor.Shape{6, 10}, ir.Packed},
		{tensor.Shape{2, 2, 1, 3, 2, 3}, tensor.Shape{3, 3, 8}, ir.Packed},
		{tensor.Shape{72}, tensor.Shape{2, 2, 1, 3, 2, 3}, ir.Packed},
	}

	backend := New()
	for _, tt := range tests {
		t.Run(tt.packing.String()+" "+tt.in.String()+"->"+tt.out.String(), func(t *testing.T) {
			p, err := reshape.NewPlan(tt.in, tt.out, tt.packing)
			require.NoError(t, err)

			out, err := backend.Reshape(p, inputTexture(t, tt.in, tt.packing))
			require.NoError(t, err)
			assert.True(t, out.Packed)
			assert.Equal(t, tt.out, out.Shape)
			assert.Equal(t, iota32(tt.in.NumElements()), out.Values())
		})
	}
}

func TestReshapeLeavesEdgeChannelsZero(t *testing.T) {
	p, err := reshape.NewPlan(tensor.Shape{9}, tensor.Shape{3, 3}, ir.Packed)
	require.NoError(t, err)

	out, err := New().Reshape(p, inputTexture(t, tensor.Shape{9}, ir.Packed))
	require.NoError(t, err)

	assert.Equal(t, [4]float32{0, 1, 3, 4}, out.Texel(0))
	assert.Equal(t, [4]float32{2, 0, 5, 0}, out.Texel(1))
	assert.Equal(t, [4]float32{6, 7, 0, 0}, out.Texel(2))
	assert.Equal(t, [4]float32{8, 0, 0, 0}, out.Texel(3))
}

func TestReshapeSequentialMatchesParallel(t *testing.T) {
	in, out := tensor.Shape{4, 3, 50}, tensor.Shape{30, 20}
	p, err := reshape.NewPlan(in, out, ir.Packed)
	require.NoError(t, err)
	tex := inputTexture(t, in, ir.Packed)

	par := New()
	par.SetParallel(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8})
	seq := New()
	seq.SetParallel(parallel.Sequential())

	a, err := par.Reshape(p, tex)
	require.NoError(t, err)
	b, err := seq.Reshape(p, tex)
	require.NoError(t, err)
	assert.Equal(t, b.Data, a.Data)
}

func TestReshapeTextureMismatch(t *testing.T) {
	p, err := reshape.NewPlan(tensor.Shape{2, 3}, tensor.Shape{6}, ir.Packed)
	require.NoError(t, err)

	_, err = New().Reshape(p, inputTexture(t, tensor.Shape{2, 3}, ir.Unpacked))
	require.ErrorIs(t, err, reshape.ErrTextureMismatch)
}

func TestReshapeOutOfBounds(t *testing.T) {
	p, err := reshape.NewPlan(tensor.Shape{2, 3}, tensor.Shape{6}, ir.Unpacked)
	require.NoError(t, err)

	// Decode into a wider shape than the bound input.
	p.InputCoords, err = ir.CoordsFromFlatIndex(tensor.Shape{1, 6}, ir.Unpacked)
	require.NoError(t, err)

	_, err = New().Reshape(p, inputTexture(t, tensor.Shape{2, 3}, ir.Unpacked))
	require.ErrorIs(t, err, reshape.ErrOutOfBounds)
}
