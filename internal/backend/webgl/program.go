// Package webgl assembles reshape programs for the WebGL engine.
//
// The engine compiles UserCode together with its own preamble, binds the
// textures named in VariableNames and runs main once per output texel.
package webgl

import (
	"github.com/born-ml/texreshape/internal/codegen/glsl"
	"github.com/born-ml/texreshape/internal/codegen/ir"
	"github.com/born-ml/texreshape/internal/reshape"
	"github.com/born-ml/texreshape/internal/tensor"
)

// Program is the record handed to the engine. It is never mutated after
// NewReshapeProgram returns.
type Program struct {
	// OutputShape is the logical shape of the result texture.
	OutputShape tensor.Shape
	// VariableNames lists the input textures the code reads, in binding order.
	VariableNames []string
	// UsesPackedTextures is set when the input is sampled as packed texels.
	// Output texels are packed in both modes.
	UsesPackedTextures bool
	// Packing is the mode the program was generated for.
	Packing ir.Packing
	// UserCode is the generated GLSL.
	UserCode string
}

// NewReshapeProgram generates the program reshaping input into output.
// Unsupported ranks fail with *ir.UnsupportedRankError before any text is
// generated.
func NewReshapeProgram(input, output tensor.Shape, packing ir.Packing) (*Program, error) {
	plan, err := reshape.NewPlan(input, output, packing)
	if err != nil {
		return nil, err
	}
	return Assemble(plan), nil
}

// Assemble wraps the GLSL rendering of plan into a Program.
func Assemble(plan *reshape.Plan) *Program {
	return &Program{
		OutputShape:        plan.OutputShape.Clone(),
		VariableNames:      []string{reshape.InputName},
		UsesPackedTextures: plan.Packing == ir.Packed,
		Packing:            plan.Packing,
		UserCode:           glsl.Reshape(plan),
	}
}
