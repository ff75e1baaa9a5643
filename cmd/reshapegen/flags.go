package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/texreshape/reshape"
)

// shapeFlags holds the flags shared by every generating command.
type shapeFlags struct {
	in     string
	out    string
	packed bool
}

func (f *shapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.in, "in", "", "input shape, comma separated (required)")
	cmd.Flags().StringVar(&f.out, "out", "", "output shape, comma separated (required)")
	cmd.Flags().BoolVar(&f.packed, "packed", false, "sample the input as packed 2x2 texels")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
}

func (f *shapeFlags) plan() (*reshape.Plan, error) {
	in, err := parseShape(f.in)
	if err != nil {
		return nil, fmt.Errorf("--in: %w", err)
	}
	out, err := parseShape(f.out)
	if err != nil {
		return nil, fmt.Errorf("--out: %w", err)
	}
	return reshape.NewPlan(in, out, f.packing())
}

func (f *shapeFlags) packing() reshape.Packing {
	if f.packed {
		return reshape.Packed
	}
	return reshape.Unpacked
}

// parseShape parses "2,3,4" into a shape. Dimensions are not validated here.
func parseShape(s string) (reshape.Shape, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty shape")
	}
	parts := strings.Split(s, ",")
	shape := make(reshape.Shape, len(parts))
	for i, p := range parts {
		dim, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid dimension %q", p)
		}
		shape[i] = dim
	}
	return shape, nil
}
