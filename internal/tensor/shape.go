package tensor

import (
	"fmt"

	"github.com/samber/lo"
)

// MaxRank is the highest rank a texture program can address.
const MaxRank = 6

// Shape represents the dimensions of a tensor.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	return lo.Reduce(s, func(n, dim, _ int) int { return n * dim }, 1)
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// FlatIndex returns the row-major position of coords.
// coords must have one entry per dimension.
func (s Shape) FlatIndex(coords []int) int {
	strides := s.ComputeStrides()
	flat := 0
	for i, c := range coords {
		flat += c * strides[i]
	}
	return flat
}

// Coords returns the coordinate whose row-major position is flat.
func (s Shape) Coords(flat int) []int {
	coords := make([]int, len(s))
	for i := len(s) - 1; i >= 0; i-- {
		coords[i] = flat % s[i]
		flat /= s[i]
	}
	return coords
}

// Contains reports whether coords lies inside the shape.
func (s Shape) Contains(coords []int) bool {
	if len(coords) != len(s) {
		return false
	}
	for i, c := range coords {
		if c < 0 || c >= s[i] {
			return false
		}
	}
	return true
}

// String formats the shape as [d0, d1, ...].
func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}
