package reshape

import (
	"errors"
	"fmt"

	"github.com/born-ml/texreshape/internal/tensor"
)

// Errors reported by backends running a plan.
var (
	ErrTextureMismatch = errors.New("reshape: texture does not match plan input")
	ErrOutOfBounds     = errors.New("reshape: read outside input shape")
)

// Backend runs reshape plans on a device.
//
// Implementations:
//   - cpu: evaluates the plan in Go, the reference for every other backend
//   - webgpu: renders the plan to WGSL and dispatches it on the GPU
type Backend interface {
	// Name returns a human-readable backend name.
	Name() string

	// Reshape runs p over input and returns the packed output texture.
	Reshape(p *Plan, input *tensor.Texture) (*tensor.Texture, error)
}

// CheckInput verifies that input is the texture p was built for.
func (p *Plan) CheckInput(input *tensor.Texture) error {
	if input == nil {
		return ErrTextureMismatch
	}
	if !input.Shape.Equal(p.InputShape) || input.Packed != (p.Channels != nil) {
		return fmt.Errorf("%w: got %v (packed=%t), want %v (packed=%t)", ErrTextureMismatch,
			input.Shape, input.Packed, p.InputShape, p.Channels != nil)
	}
	return nil
}
