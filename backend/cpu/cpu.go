// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the reference backend running reshape plans in Go.
package cpu

import (
	internalcpu "github.com/born-ml/texreshape/internal/backend/cpu"
	"github.com/born-ml/texreshape/reshape"
)

// Backend represents the CPU backend implementation.
//
// It evaluates the same plan the GPU backends render, one output texel
// at a time, and fails if the plan samples outside the input.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements reshape.Backend.
var _ reshape.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	plan, _ := reshape.NewPlan(reshape.Shape{2, 3}, reshape.Shape{3, 2}, reshape.Packed)
//	in, _ := reshape.Pack(reshape.Shape{2, 3}, []float32{0, 1, 2, 3, 4, 5})
//	out, err := cpu.New().Reshape(plan, in)
func New() *Backend {
	return internalcpu.New()
}
