// Package cpu implements the CPU backend: it evaluates reshape plans in Go
// and is the reference the GPU backends are checked against.
package cpu

import (
	"fmt"
	"sync"

	"github.com/born-ml/texreshape/internal/parallel"
	"github.com/born-ml/texreshape/internal/reshape"
	"github.com/born-ml/texreshape/internal/tensor"
)

// CPUBackend runs reshape plans on the host.
type CPUBackend struct {
	parallel parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		parallel: parallel.DefaultConfig(),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// SetParallel replaces the parallel execution settings.
func (cpu *CPUBackend) SetParallel(cfg parallel.Config) {
	cpu.parallel = cfg
}

// Reshape runs p over input, one output texel at a time.
// It fails if the plan ever samples outside the input shape.
func (cpu *CPUBackend) Reshape(p *reshape.Plan, input *tensor.Texture) (*tensor.Texture, error) {
	if err := p.CheckInput(input); err != nil {
		return nil, err
	}

	out := tensor.NewTexture(p.OutputShape, true)
	layout := tensor.PackedLayout(p.OutputShape)
	s := newSampler(input)

	parallel.For(layout.TexelCount(), func(texel int) {
		result := p.Run(layout.BlockOrigin(texel), s)
		copy(out.Data[texel*tensor.ChannelsPerTexel:], result[:])
	}, cpu.parallel)

	if err := s.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// sampler serves reads of the input texture and records the first read
// outside its shape.
type sampler struct {
	tex    *tensor.Texture
	layout tensor.Layout

	mu  sync.Mutex
	err error
}

func newSampler(tex *tensor.Texture) *sampler {
	return &sampler{tex: tex, layout: tensor.PackedLayout(tex.Shape)}
}

// Value implements reshape.Sampler.
func (s *sampler) Value(coords []int) float32 {
	if !s.check(coords) {
		return 0
	}
	return s.tex.Data[s.tex.Shape.FlatIndex(coords)]
}

// Texel implements reshape.Sampler.
func (s *sampler) Texel(coords []int) [tensor.ChannelsPerTexel]float32 {
	if !s.check(coords) {
		return [tensor.ChannelsPerTexel]float32{}
	}
	return s.tex.Texel(s.layout.TexelIndex(coords))
}

func (s *sampler) check(coords []int) bool {
	if s.tex.Shape.Contains(coords) {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = fmt.Errorf("%w: %v not in %v", reshape.ErrOutOfBounds, coords, s.tex.Shape)
	}
	return false
}

// Err returns the first out-of-bounds read, if any.
func (s *sampler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Compile-time check that CPUBackend implements reshape.Backend.
var _ reshape.Backend = (*CPUBackend)(nil)
