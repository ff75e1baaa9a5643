package reshape

import (
	"github.com/born-ml/texreshape/internal/codegen/ir"
	"github.com/born-ml/texreshape/internal/tensor"
)

// newUnpackedPlan builds a plan that reads one value per input texel and
// assembles up to four of them into each packed output texel.
// Both shapes must have rank 1-4.
func newUnpackedPlan(input, output tensor.Shape) (*Plan, error) {
	return newPlan(input, output, ir.Unpacked)
}
