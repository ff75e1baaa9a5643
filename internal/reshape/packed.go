package reshape

import (
	"github.com/born-ml/texreshape/internal/codegen/ir"
	"github.com/born-ml/texreshape/internal/tensor"
)

// newPackedPlan builds a plan over packed input and output textures.
// Both shapes must have rank 1-6.
func newPackedPlan(input, output tensor.Shape) (*Plan, error) {
	p, err := newPlan(input, output, ir.Packed)
	if err != nil {
		return nil, err
	}
	resolver := NewChannelResolver(input.Rank())
	p.Channels = &resolver
	return p, nil
}
