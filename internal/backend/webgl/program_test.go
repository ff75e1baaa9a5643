package webgl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/texreshape/internal/codegen/glsl"
	"github.com/born-ml/texreshape/internal/codegen/ir"
	"github.com/born-ml/texreshape/internal/reshape"
	"github.com/born-ml/texreshape/internal/tensor"
)

func TestNewReshapeProgram(t *testing.T) {
	prog, err := NewReshapeProgram(tensor.Shape{2, 3}, tensor.Shape{3, 2}, ir.Packed)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{3, 2}, prog.OutputShape)
	assert.Equal(t, []string{"A"}, prog.VariableNames)
	assert.True(t, prog.UsesPackedTextures)
	assert.Equal(t, ir.Packed, prog.Packing)
	assert.Contains(t, prog.UserCode, "void main()")
	assert.Contains(t, prog.UserCode, "getChannel(getA(inputRC.x, inputRC.y), channel)")

	unpacked, err := NewReshapeProgram(tensor.Shape{2, 3}, tensor.Shape{3, 2}, ir.Unpacked)
	require.NoError(t, err)
	assert.False(t, unpacked.UsesPackedTextures)
	assert.NotEqual(t, prog.UserCode, unpacked.UserCode)
}

func TestAssembleMatchesRenderer(t *testing.T) {
	p, err := reshape.NewPlan(tensor.Shape{4, 6}, tensor.Shape{2, 3, 4}, ir.Unpacked)
	require.NoError(t, err)
	assert.Equal(t, glsl.Reshape(p), Assemble(p).UserCode)
}

func TestProgramOutputShapeIsCopied(t *testing.T) {
	out := tensor.Shape{3, 2}
	prog, err := NewReshapeProgram(tensor.Shape{6}, out, ir.Unpacked)
	require.NoError(t, err)

	out[0] = 99
	assert.Equal(t, tensor.Shape{3, 2}, prog.OutputShape)
}

func TestNewReshapeProgramFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		in, out tensor.Shape
		packing ir.Packing
		rank    int
	}{
		{"unpacked rank 5 input", tensor.Shape{1, 1, 1, 2, 3}, tensor.Shape{6}, ir.Unpacked, 5},
		{"unpacked rank 5 output", tensor.Shape{6}, tensor.Shape{1, 1, 1, 2, 3}, ir.Unpacked, 5},
		{"packed rank 7 output", tensor.Shape{6}, tensor.Shape{1, 1, 1, 1, 1, 2, 3}, ir.Packed, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := NewReshapeProgram(tt.in, tt.out, tt.packing)
			assert.Nil(t, prog)

			var rankErr *ir.UnsupportedRankError
			require.True(t, errors.As(err, &rankErr))
			assert.Equal(t, tt.rank, rankErr.Rank)
		})
	}
}

func TestNewReshapeProgramRankSix(t *testing.T) {
	prog, err := NewReshapeProgram(tensor.Shape{2, 2, 1, 3, 2, 3}, tensor.Shape{72}, ir.Packed)
	require.NoError(t, err)
	assert.Contains(t, prog.UserCode, "ivec6 inputCoordsFromReshapedOutCoords(int index)")
	assert.Contains(t, prog.UserCode, "return ivec6(c0, c1, c2, c3, c4, c5);")
}

func TestElementCountMismatch(t *testing.T) {
	_, err := NewReshapeProgram(tensor.Shape{2, 3}, tensor.Shape{7}, ir.Packed)
	require.ErrorIs(t, err, reshape.ErrElementCountMismatch)
}
