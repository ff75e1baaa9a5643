//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for reshape plans.
//
// Plans are rendered to WGSL compute shaders; compiled shaders are cached
// by source text, so repeating a reshape compiles nothing new.
//
// Example:
//
//	if !webgpu.IsAvailable() {
//	    return cpu.New().Reshape(plan, in)
//	}
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//	out, err := gpu.Reshape(plan, in)
package webgpu

import (
	internalwebgpu "github.com/born-ml/texreshape/internal/backend/webgpu"
	"github.com/born-ml/texreshape/reshape"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements reshape.Backend.
var _ reshape.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
// Call Release() when done to free GPU resources.
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
