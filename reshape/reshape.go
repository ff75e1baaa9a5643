// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package reshape generates GPU programs that reshape a tensor stored in
// texture memory. Values are never recomputed: a program only changes
// which texel (and which channel of a packed texel) a logical coordinate
// is read from.
//
// Example:
//
//	prog, err := reshape.NewProgram(reshape.Shape{2, 3}, reshape.Shape{3, 2}, reshape.Packed)
//	if err != nil {
//	    var rankErr *reshape.UnsupportedRankError
//	    if errors.As(err, &rankErr) {
//	        // fall back to a CPU reshape
//	    }
//	    return err
//	}
//	engine.Compile(prog.UserCode)
package reshape

import (
	"github.com/born-ml/texreshape/internal/backend/webgl"
	"github.com/born-ml/texreshape/internal/codegen/ir"
	"github.com/born-ml/texreshape/internal/codegen/wgsl"
	internalreshape "github.com/born-ml/texreshape/internal/reshape"
	"github.com/born-ml/texreshape/internal/tensor"
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Packing selects how many values a texel holds.
type Packing = ir.Packing

// Packing constants.
const (
	Unpacked Packing = ir.Unpacked
	Packed   Packing = ir.Packed
)

// Program is the record consumed by the WebGL engine.
type Program = webgl.Program

// Plan is a reshape program in data form, shared by every backend.
type Plan = internalreshape.Plan

// Texture is the host-side image of a tensor stored in texture memory.
type Texture = tensor.Texture

// Backend runs reshape plans on a device.
type Backend = internalreshape.Backend

// UnsupportedRankError reports a rank outside the supported range.
type UnsupportedRankError = ir.UnsupportedRankError

// Errors.
var (
	// ErrUnsupportedRank matches every UnsupportedRankError via errors.Is.
	ErrUnsupportedRank = ir.ErrUnsupportedRank
	// ErrElementCountMismatch is returned when the shapes differ in size.
	ErrElementCountMismatch = internalreshape.ErrElementCountMismatch
)

// NewProgram generates the GLSL program reshaping input into output.
//
// Unpacked programs accept ranks 1-4, packed programs ranks 1-6. Calling
// NewProgram twice with equal arguments yields byte-identical UserCode, so
// callers may memoize compiled programs by source text.
func NewProgram(input, output Shape, packing Packing) (*Program, error) {
	return webgl.NewReshapeProgram(input, output, packing)
}

// NewPlan builds the plan reshaping input into output.
func NewPlan(input, output Shape, packing Packing) (*Plan, error) {
	return internalreshape.NewPlan(input, output, packing)
}

// WGSL renders plan as a self-contained WGSL compute shader.
func WGSL(plan *Plan) string {
	return wgsl.Reshape(plan)
}

// Pack lays out row-major values as a packed texture.
func Pack(shape Shape, values []float32) (*Texture, error) {
	return tensor.Pack(shape, values)
}

// UnpackedTexture wraps row-major values as an unpacked texture.
func UnpackedTexture(shape Shape, values []float32) (*Texture, error) {
	return tensor.Unpacked(shape, values)
}
